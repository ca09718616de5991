// Package stream implements a bounded, single-producer/single-consumer byte
// stream: a fixed-capacity ring buffer split into a Writer half and a Reader
// half, plus the eof/error bookkeeping a reliable transport needs.
package stream

import "github.com/soypat/minnow/internal"

// ByteStream is a bounded FIFO of octets with a fixed capacity. Bytes pushed
// in excess of the available capacity are silently discarded; callers use
// the push return value and AvailableCapacity to implement their own
// backpressure. The underlying ring buffer never reallocates.
type ByteStream struct {
	ring        internal.Ring
	bytesPushed uint64
	bytesPopped uint64
	eof         bool
	hasError    bool
}

// New returns a ByteStream with the given fixed capacity.
func New(capacity int) *ByteStream {
	if capacity <= 0 {
		panic("stream: capacity must be positive")
	}
	return &ByteStream{ring: internal.Ring{Buf: make([]byte, capacity)}}
}

// Capacity returns the stream's fixed total capacity.
func (s *ByteStream) Capacity() int { return s.ring.Size() }

// AvailableCapacity returns how many more bytes can currently be pushed.
func (s *ByteStream) AvailableCapacity() int { return s.ring.Free() }

// BytesBuffered returns the number of bytes currently held, unread.
func (s *ByteStream) BytesBuffered() int { return s.ring.Buffered() }

// BytesPushed returns the total number of bytes ever pushed (monotonic).
func (s *ByteStream) BytesPushed() uint64 { return s.bytesPushed }

// BytesPopped returns the total number of bytes ever popped (monotonic).
func (s *ByteStream) BytesPopped() uint64 { return s.bytesPopped }

// Writer returns the write half of the stream.
func (s *ByteStream) Writer() Writer { return Writer{s} }

// Reader returns the read half of the stream.
func (s *ByteStream) Reader() Reader { return Reader{s} }

// Writer is the producer-facing view of a ByteStream.
type Writer struct{ s *ByteStream }

// Push copies as many leading bytes of data as fit in the available
// capacity and reports how many were actually written; the remainder is
// discarded. Push is a no-op once the writer is closed.
func (w Writer) Push(data []byte) (n int) {
	s := w.s
	if s.eof || len(data) == 0 {
		return 0
	}
	n = min(len(data), s.ring.Free())
	if n == 0 {
		return 0
	}
	written, err := s.ring.Write(data[:n])
	if err != nil {
		return 0
	}
	s.bytesPushed += uint64(written)
	return written
}

// Close declares that no more bytes will ever be pushed.
func (w Writer) Close() { w.s.eof = true }

// SetError marks the stream as having encountered an unrecoverable error.
func (w Writer) SetError() { w.s.hasError = true }

// IsClosed reports whether Close has been called.
func (w Writer) IsClosed() bool { return w.s.eof }

// HasError reports whether SetError has been called.
func (w Writer) HasError() bool { return w.s.hasError }

// AvailableCapacity returns how many more bytes can currently be pushed.
func (w Writer) AvailableCapacity() int { return w.s.AvailableCapacity() }

// BytesPushed returns the total number of bytes ever pushed.
func (w Writer) BytesPushed() uint64 { return w.s.BytesPushed() }

// BytesBuffered returns the number of bytes currently buffered.
func (w Writer) BytesBuffered() int { return w.s.BytesBuffered() }

// Reader is the consumer-facing view of a ByteStream.
type Reader struct{ s *ByteStream }

// Peek returns a view of the buffered bytes currently available to read,
// valid until the next Pop. It returns nil when nothing is buffered.
func (r Reader) Peek() []byte {
	buffered := r.s.ring.Buffered()
	if buffered == 0 {
		return nil
	}
	buf := make([]byte, buffered)
	n, _ := r.s.ring.ReadPeek(buf)
	return buf[:n]
}

// Pop discards up to n of the front buffered bytes.
func (r Reader) Pop(n int) {
	buffered := r.s.ring.Buffered()
	if buffered == 0 || n <= 0 {
		return
	}
	n = min(n, buffered)
	r.s.ring.ReadDiscard(n)
	r.s.bytesPopped += uint64(n)
}

// IsFinished reports whether the stream is closed and fully drained.
func (r Reader) IsFinished() bool { return r.s.eof && r.s.BytesBuffered() == 0 }

// HasError reports whether the stream's error flag is set.
func (r Reader) HasError() bool { return r.s.hasError }

// BytesBuffered returns the number of bytes currently buffered.
func (r Reader) BytesBuffered() int { return r.s.BytesBuffered() }

// BytesPopped returns the total number of bytes ever popped.
func (r Reader) BytesPopped() uint64 { return r.s.BytesPopped() }
