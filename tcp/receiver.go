package tcp

import (
	"github.com/soypat/minnow/internal"
	"github.com/soypat/minnow/reassembler"
	"github.com/soypat/minnow/seqnum"
	"github.com/soypat/minnow/stream"
)

// Receiver turns inbound Segments into bytes pushed onto a stream, tracking
// the isn learned from SYN so it can unwrap Segment sequence numbers into
// absolute stream indices.
type Receiver struct {
	internal.Logger

	reassembler *reassembler.Reassembler
	stream      *stream.ByteStream

	hasISN bool
	isn    seqnum.Wrap32
	rst    bool
}

// NewReceiver returns a Receiver that assembles incoming data into s.
func NewReceiver(s *stream.ByteStream) *Receiver {
	return &Receiver{
		reassembler: reassembler.New(s.Writer()),
		stream:      s,
	}
}

// Receive processes an inbound segment, feeding any payload to the
// reassembler once the initial sequence number is known.
func (r *Receiver) Receive(seg Segment) {
	if seg.RST {
		r.rst = true
		r.stream.Writer().SetError()
		r.Warn("receiver: RST received")
		return
	}
	if !r.hasISN {
		if !seg.SYN {
			return // Drop: no connection established yet.
		}
		r.isn = seg.Seqno
		r.hasISN = true
	}

	// checkpoint anchors Unwrap near the bytes we've already assembled, so
	// the absolute index recovered from the wrapped seqno is unambiguous.
	checkpoint := r.stream.BytesPushed() + 1
	absSeqno := seg.Seqno.Unwrap(r.isn, checkpoint)
	var streamIdx uint64
	if seg.SYN {
		streamIdx = 0
	} else if absSeqno == 0 {
		return // Stray segment before SYN's absolute seqno 1: drop.
	} else {
		streamIdx = absSeqno - 1
	}

	r.reassembler.Insert(streamIdx, seg.Payload, seg.FIN)
}

// Send returns the Message a Sender on the other side of the connection
// needs: the next expected sequence number, wrapped relative to the peer's
// isn (if known), and the
// currently available window size.
func (r *Receiver) Send() Message {
	msg := Message{RST: r.rst}
	if !r.hasISN {
		return msg
	}
	bytesAssembled := r.stream.BytesPushed()
	ackAbs := bytesAssembled + 1
	if r.stream.Writer().IsClosed() {
		ackAbs++ // FIN consumes one more sequence number.
	}
	msg.Ackno = seqnum.Wrap(ackAbs, r.isn)
	msg.HasAckno = true
	avail := r.stream.AvailableCapacity()
	if avail > 0xffff {
		avail = 0xffff
	}
	msg.WindowSize = uint16(avail)
	return msg
}

// RSTReceived reports whether the peer has reset the connection.
func (r *Receiver) RSTReceived() bool { return r.rst }

// BytesPending returns the number of bytes held by the reassembler that are
// not yet in order.
func (r *Receiver) BytesPending() uint64 { return r.reassembler.CountBytesPending() }
