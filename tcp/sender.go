package tcp

import (
	"log/slog"

	"github.com/soypat/minnow/internal"
	"github.com/soypat/minnow/seqnum"
	"github.com/soypat/minnow/stream"
)

// outstandingSegment is a segment awaiting acknowledgement, along with the
// absolute sequence number of its first byte.
type outstandingSegment struct {
	seg      Segment
	startAbs uint64
}

// Sender turns a byte stream into outbound Segments, tracking the window
// advertised by the peer and retransmitting on timeout with exponential
// backoff, following the standard TCP retransmission timer algorithm.
type Sender struct {
	internal.Logger

	reader     *stream.Reader
	isn        seqnum.Wrap32
	rto        uint64 // current retransmission timeout, in ms
	initialRTO uint64

	nextSeqno  uint64 // next absolute sequence number to send
	bytesAcked uint64 // absolute sequence number of bytes fully acked

	outstanding []outstandingSegment

	windowSize uint16
	sentSYN    bool
	sentFIN    bool

	timerRunning        bool
	timeSinceLastSendMS uint64
	consecutiveRetx     uint64

	rst bool
}

// NewSender returns a Sender reading from r, using isn as the initial
// sequence number and initialRTOMS as the starting retransmission timeout.
func NewSender(r *stream.Reader, isn seqnum.Wrap32, initialRTOMS uint64) *Sender {
	return &Sender{
		reader:     r,
		isn:        isn,
		rto:        initialRTOMS,
		initialRTO: initialRTOMS,
		windowSize: 1, // Until the peer's first window update arrives, assume 1.
	}
}

// SequenceNumbersInFlight returns the number of sequence numbers sent but
// not yet acknowledged.
func (s *Sender) SequenceNumbersInFlight() uint64 { return s.nextSeqno - s.bytesAcked }

// ConsecutiveRetransmissions returns how many retransmissions have happened
// in a row without a successful new acknowledgement.
func (s *Sender) ConsecutiveRetransmissions() uint64 { return s.consecutiveRetx }

// RSTReceived reports whether the peer has reset the connection.
func (s *Sender) RSTReceived() bool { return s.rst }

func (s *Sender) windowOrOne() uint64 {
	if s.windowSize == 0 {
		return 1 // Zero-window probing: act as if window is 1 to keep probing.
	}
	return uint64(s.windowSize)
}

// Push drains the reader and hands transmit newly sent Segments (SYN,
// payload chunks up to MaxPayloadSize, and FIN), respecting the peer's
// advertised window. Segments handed to transmit are appended to the
// retransmission queue, arming the timer on the first send.
func (s *Sender) Push(transmit func(Segment)) {
	if s.reader.HasError() {
		seqno := s.isn
		if s.sentSYN {
			seqno = seqnum.Wrap(s.nextSeqno, s.isn)
		}
		transmit(Segment{Seqno: seqno, RST: true})
		return
	}
	for _, seg := range s.makeSegments() {
		transmit(seg)
	}
}

func (s *Sender) makeSegments() []Segment {
	var out []Segment
	for {
		window := s.windowOrOne()
		inFlight := s.SequenceNumbersInFlight()
		if inFlight >= window {
			break
		}
		budget := window - inFlight
		seg := Segment{Seqno: seqnum.Wrap(s.nextSeqno, s.isn)}

		if !s.sentSYN {
			// The SYN segment carries FIN too whenever the stream is
			// already finished, regardless of window budget.
			seg.SYN = true
			s.sentSYN = true
			if budget > 0 {
				budget--
			}
			if s.reader.IsFinished() && !s.sentFIN {
				seg.FIN = true
				s.sentFIN = true
			}
		}

		if !seg.FIN {
			if payloadBudget := min(budget, MaxPayloadSize); payloadBudget > 0 {
				avail := s.reader.Peek()
				n := min(int(payloadBudget), len(avail))
				if n > 0 {
					seg.Payload = append([]byte(nil), avail[:n]...)
					s.reader.Pop(n)
				}
			}

			used := uint64(len(seg.Payload))
			if seg.SYN {
				used++
			}
			if s.reader.IsFinished() && !s.sentFIN && used < budget {
				seg.FIN = true
				s.sentFIN = true
			}
		}

		if seg.SequenceLength() == 0 {
			break // Nothing more fits in the window; stop.
		}

		s.enqueue(seg)
		out = append(out, seg)

		if seg.FIN {
			break
		}
	}
	return out
}

func (s *Sender) enqueue(seg Segment) {
	s.outstanding = append(s.outstanding, outstandingSegment{seg: seg, startAbs: s.nextSeqno})
	s.nextSeqno += seg.SequenceLength()
	if !s.timerRunning {
		s.timerRunning = true
		s.timeSinceLastSendMS = 0
	}
}

// Receive processes an inbound Message (the receiver's ack/window update).
func (s *Sender) Receive(msg Message) {
	if msg.RST {
		s.rst = true
		return
	}
	s.windowSize = msg.WindowSize
	if !msg.HasAckno {
		return
	}
	ackAbs := msg.Ackno.Unwrap(s.isn, s.nextSeqno)
	if ackAbs > s.nextSeqno || ackAbs <= s.bytesAcked {
		return // Impossible ack, or nothing new acknowledged.
	}
	s.bytesAcked = ackAbs
	s.removeAcked(ackAbs)

	s.rto = s.initialRTO
	s.consecutiveRetx = 0
	s.timerRunning = len(s.outstanding) > 0
	s.timeSinceLastSendMS = 0
}

func (s *Sender) removeAcked(ackAbs uint64) {
	kept := s.outstanding[:0]
	for _, o := range s.outstanding {
		if o.startAbs+o.seg.SequenceLength() <= ackAbs {
			continue
		}
		kept = append(kept, o)
	}
	s.outstanding = kept
}

// Tick advances the retransmission timer by elapsedMS. If it has expired,
// the earliest outstanding segment is handed to transmit again and the
// timeout is exponentially backed off, unless the window is known to be
// zero, per the standard RTO algorithm's exception for window probing.
func (s *Sender) Tick(elapsedMS uint64, transmit func(Segment)) {
	seg := s.tick(elapsedMS)
	if seg != nil {
		transmit(*seg)
	}
}

func (s *Sender) tick(elapsedMS uint64) (retransmitted *Segment) {
	if !s.timerRunning || len(s.outstanding) == 0 {
		return nil
	}
	s.timeSinceLastSendMS += elapsedMS
	if s.timeSinceLastSendMS < s.rto {
		return nil
	}
	seg := s.outstanding[0].seg
	if s.windowSize > 0 {
		s.consecutiveRetx++
		s.rto *= 2
	}
	s.timeSinceLastSendMS = 0
	s.Debug("sender: retransmit", slog.String("seqno", seg.Seqno.String()), slog.Uint64("rto_ms", s.rto))
	return &seg
}

// MakeEmptyMessage returns a pure acknowledgement segment carrying no
// payload, used for keepalives and ACK-only replies. RST is set iff the
// outbound stream has an error.
func (s *Sender) MakeEmptyMessage() Segment {
	return Segment{Seqno: seqnum.Wrap(s.nextSeqno, s.isn), RST: s.reader.HasError()}
}
