// Package tcp implements a TCP-style reliable byte stream transport on top
// of a reassembler and a retransmission timer: Receiver turns inbound
// Segments into an ordered stream and acknowledgements, Sender turns an
// outbound stream into Segments and drives retransmission.
package tcp

import "github.com/soypat/minnow/seqnum"

// MaxPayloadSize bounds the payload Sender places in a single Segment.
const MaxPayloadSize = 1452

// Segment is a unit of data flowing from a Sender to a Receiver.
type Segment struct {
	Seqno   seqnum.Wrap32
	SYN     bool
	FIN     bool
	RST     bool
	Payload []byte
}

// SequenceLength returns the number of sequence numbers this segment
// occupies: SYN and FIN each count as one, in addition to the payload.
func (s Segment) SequenceLength() uint64 {
	n := uint64(len(s.Payload))
	if s.SYN {
		n++
	}
	if s.FIN {
		n++
	}
	return n
}

// Message is a unit of data flowing from a Receiver back to a Sender:
// acknowledgement and flow-control information, carried by outbound Segments.
type Message struct {
	Ackno      seqnum.Wrap32
	HasAckno   bool
	WindowSize uint16
	RST        bool
}
