package tcp

import (
	"github.com/soypat/minnow/seqnum"
	"github.com/soypat/minnow/stream"
)

// Conn bundles the Sender and Receiver halves of a single TCP-style
// connection, so callers can drive one connection with one value and
// Collector can export both halves under a single connection ID.
type Conn struct {
	Sender   *Sender
	Receiver *Receiver
}

// NewConn builds a Conn wired to inbound/outbound byte streams, using isn as
// the local initial sequence number.
func NewConn(outbound *stream.ByteStream, inbound *stream.ByteStream, isn seqnum.Wrap32, initialRTOMS uint64) *Conn {
	return &Conn{
		Sender:   NewSender(outboundReader(outbound), isn, initialRTOMS),
		Receiver: NewReceiver(inbound),
	}
}

func outboundReader(s *stream.ByteStream) *stream.Reader {
	r := s.Reader()
	return &r
}
