package tcp

import (
	"testing"

	"github.com/soypat/minnow/seqnum"
	"github.com/soypat/minnow/stream"
)

func collectSegments(s *Sender) []Segment {
	var out []Segment
	s.Push(func(seg Segment) { out = append(out, seg) })
	return out
}

func TestSenderScenarioS5SYN(t *testing.T) {
	s := stream.New(1000)
	reader := s.Reader()
	sender := NewSender(&reader, seqnum.Wrap32(100), 1000)

	segs := collectSegments(sender)
	if len(segs) != 1 || !segs[0].SYN {
		t.Fatalf("expected a single SYN segment, got %+v", segs)
	}
	if got := sender.SequenceNumbersInFlight(); got != 1 {
		t.Fatalf("in flight = %d, want 1", got)
	}
}

func TestSenderScenarioS4SYNFINCombined(t *testing.T) {
	s := stream.New(1000)
	writer, reader := s.Writer(), s.Reader()
	writer.Close() // Empty, already-closed stream: nothing to send but EOF.
	sender := NewSender(&reader, seqnum.Wrap32(0), 1000)

	segs := collectSegments(sender)
	if len(segs) != 1 {
		t.Fatalf("expected a single segment, got %d: %+v", len(segs), segs)
	}
	seg := segs[0]
	if !seg.SYN || !seg.FIN || len(seg.Payload) != 0 {
		t.Fatalf("expected a bare SYN+FIN segment, got %+v", seg)
	}
	if seg.Seqno != seqnum.Wrap32(0) {
		t.Fatalf("seqno = %v, want 0", seg.Seqno)
	}
	if seg.SequenceLength() != 2 {
		t.Fatalf("sequence length = %d, want 2", seg.SequenceLength())
	}
	if got := sender.SequenceNumbersInFlight(); got != 2 {
		t.Fatalf("in flight = %d, want 2", got)
	}
}

func TestSenderReaderErrorSendsRST(t *testing.T) {
	s := stream.New(1000)
	writer, reader := s.Writer(), s.Reader()
	sender := NewSender(&reader, seqnum.Wrap32(100), 1000)

	writer.SetError()
	segs := collectSegments(sender)
	if len(segs) != 1 || !segs[0].RST {
		t.Fatalf("expected a single RST segment, got %+v", segs)
	}
	if segs[0].Seqno != seqnum.Wrap32(100) {
		t.Fatalf("RST before SYN sent should use isn, got seqno %v", segs[0].Seqno)
	}
}

func TestSenderReaderErrorAfterSYNUsesNextSeqno(t *testing.T) {
	s := stream.New(1000)
	writer, reader := s.Writer(), s.Reader()
	sender := NewSender(&reader, seqnum.Wrap32(100), 1000)

	collectSegments(sender) // SYN
	writer.SetError()
	segs := collectSegments(sender)
	if len(segs) != 1 || !segs[0].RST {
		t.Fatalf("expected a single RST segment, got %+v", segs)
	}
	if segs[0].Seqno != seqnum.Wrap32(101) {
		t.Fatalf("RST after SYN sent should use next seqno, got %v", segs[0].Seqno)
	}
}

func TestSenderMakeEmptyMessageSetsRSTOnError(t *testing.T) {
	s := stream.New(1000)
	writer, reader := s.Writer(), s.Reader()
	sender := NewSender(&reader, seqnum.Wrap32(0), 1000)

	if sender.MakeEmptyMessage().RST {
		t.Fatalf("RST should not be set before stream has an error")
	}
	writer.SetError()
	if !sender.MakeEmptyMessage().RST {
		t.Fatalf("RST should be set once stream has an error")
	}
}

func TestSenderSendsDataWithinWindow(t *testing.T) {
	s := stream.New(1000)
	writer, reader := s.Writer(), s.Reader()
	sender := NewSender(&reader, seqnum.Wrap32(0), 1000)

	collectSegments(sender) // SYN
	sender.Receive(Message{HasAckno: true, Ackno: seqnum.Wrap32(1), WindowSize: 10})

	writer.Push([]byte("hello world"))
	segs := collectSegments(sender)
	if len(segs) != 1 {
		t.Fatalf("expected one segment, got %d", len(segs))
	}
	if len(segs[0].Payload) != 10 {
		t.Fatalf("payload len = %d, want 10 (clamped to window)", len(segs[0].Payload))
	}
}

func TestSenderRetransmitsOnTimeout(t *testing.T) {
	s := stream.New(1000)
	reader := s.Reader()
	sender := NewSender(&reader, seqnum.Wrap32(0), 100)

	segs := collectSegments(sender)
	if len(segs) != 1 {
		t.Fatalf("expected SYN segment")
	}

	var retransmissions []Segment
	tick := func(ms uint64) {
		sender.Tick(ms, func(seg Segment) { retransmissions = append(retransmissions, seg) })
	}

	tick(50)
	if len(retransmissions) != 0 {
		t.Fatalf("should not retransmit before RTO elapses")
	}
	tick(51)
	if len(retransmissions) != 1 || !retransmissions[0].SYN {
		t.Fatalf("expected SYN retransmission after RTO elapses, got %+v", retransmissions)
	}
	if sender.ConsecutiveRetransmissions() != 1 {
		t.Fatalf("consecutive retx = %d, want 1", sender.ConsecutiveRetransmissions())
	}

	// Second timeout: RTO has doubled to 200ms.
	tick(150)
	if len(retransmissions) != 1 {
		t.Fatalf("should not retransmit before doubled RTO elapses")
	}
	tick(51)
	if len(retransmissions) != 2 {
		t.Fatalf("expected second retransmission after doubled RTO")
	}
	if sender.ConsecutiveRetransmissions() != 2 {
		t.Fatalf("consecutive retx = %d, want 2", sender.ConsecutiveRetransmissions())
	}
}

func TestSenderAckResetsTimerAndRTO(t *testing.T) {
	s := stream.New(1000)
	reader := s.Reader()
	sender := NewSender(&reader, seqnum.Wrap32(0), 100)

	collectSegments(sender)
	sender.Tick(101, func(Segment) {}) // force one retransmission, doubling RTO
	if sender.ConsecutiveRetransmissions() == 0 {
		t.Fatalf("expected a retransmission to have occurred")
	}

	sender.Receive(Message{HasAckno: true, Ackno: seqnum.Wrap32(1), WindowSize: 10})
	if sender.ConsecutiveRetransmissions() != 0 {
		t.Fatalf("expected retransmission count reset after new ack")
	}
	if sender.SequenceNumbersInFlight() != 0 {
		t.Fatalf("expected nothing in flight after SYN acked")
	}
}

func TestSenderZeroWindowDoesNotBackoff(t *testing.T) {
	s := stream.New(1000)
	reader := s.Reader()
	sender := NewSender(&reader, seqnum.Wrap32(0), 100)

	sender.Receive(Message{HasAckno: false, WindowSize: 0})
	collectSegments(sender)
	sender.Tick(101, func(Segment) {})
	if sender.ConsecutiveRetransmissions() != 0 {
		t.Fatalf("zero window retransmission should not count as backoff")
	}
}
