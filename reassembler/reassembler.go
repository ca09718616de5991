// Package reassembler turns a stream of out-of-order, indexed byte
// substrings into an in-order byte stream, respecting the downstream
// stream's available capacity.
package reassembler

import "github.com/soypat/minnow/stream"

// Reassembler orders indexed substrings into a stream.Writer. Bytes that
// arrive before they can be written (because earlier bytes are still
// missing) are held in a sparse pending map; bytes that would land beyond
// the writer's available capacity are dropped, never stored.
type Reassembler struct {
	writer  stream.Writer
	pending map[uint64]byte
	next    uint64 // absolute index of the next byte to push to the writer
	hasLast bool
	lastIdx uint64 // exclusive: stream is done once next reaches this index
}

// New returns a Reassembler that writes assembled bytes into w.
func New(w stream.Writer) *Reassembler {
	return &Reassembler{writer: w, pending: make(map[uint64]byte)}
}

// Insert supplies the substring data starting at absolute index firstIndex.
// isLast marks data as containing the final bytes of the stream (data may be
// empty, in which case firstIndex alone marks the exclusive end-of-stream
// index).
func (r *Reassembler) Insert(firstIndex uint64, data []byte, isLast bool) {
	if len(data) == 0 && isLast {
		if firstIndex <= r.next {
			r.writer.Close()
		} else {
			r.hasLast = true
			r.lastIdx = firstIndex
		}
		return
	}

	if isLast {
		r.hasLast = true
		r.lastIdx = firstIndex + uint64(len(data))
	}

	capacity := uint64(r.writer.AvailableCapacity())
	if firstIndex >= r.next+capacity {
		return // Entirely beyond the acceptance window: discard.
	}

	for i, b := range data {
		absIdx := firstIndex + uint64(i)
		if absIdx < r.next {
			continue // Already assembled.
		}
		if absIdx >= r.next+capacity {
			break // Beyond window; remaining bytes are discarded too.
		}
		if _, ok := r.pending[absIdx]; !ok {
			r.pending[absIdx] = b
		}
	}

	r.drain()
	if r.hasLast && r.next >= r.lastIdx {
		r.writer.Close()
	}
}

// drain pushes every contiguous run of bytes starting at r.next into the
// writer, consuming them from the pending map as it goes.
func (r *Reassembler) drain() {
	var run [256]byte
	for {
		n := 0
		for n < len(run) {
			b, ok := r.pending[r.next+uint64(n)]
			if !ok {
				break
			}
			run[n] = b
			n++
		}
		if n == 0 {
			return
		}
		written := r.writer.Push(run[:n])
		for i := 0; i < written; i++ {
			delete(r.pending, r.next)
			r.next++
		}
		if written < n {
			return // Writer capacity exhausted; remaining pending bytes wait.
		}
	}
}

// CountBytesPending returns the number of bytes held internally, not yet
// assembled into the stream. For testing: do not add extra state to support
// this; it must always equal len(pending).
func (r *Reassembler) CountBytesPending() uint64 { return uint64(len(r.pending)) }
