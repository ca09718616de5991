// Package seqnum implements 32-bit wrapping sequence number arithmetic for
// mapping between a stream's absolute 64-bit byte index and the 32-bit
// sequence numbers carried on the wire.
package seqnum

import "math"

// Wrap32 is a 32-bit sequence number that wraps around modulo 2^32, as used
// by TCP-style segment headers. The zero value is the sequence number 0.
type Wrap32 uint32

// Wrap maps an absolute 64-bit stream index n onto the 32-bit sequence space
// anchored at zero: Wrap(n, zero) = zero + (n mod 2^32), computed with
// unsigned 32-bit wraparound.
func Wrap(n uint64, zero Wrap32) Wrap32 {
	return zero + Wrap32(uint32(n))
}

// Unwrap returns the unique absolute 64-bit index v such that
// Wrap(v, zero) == w and |v - checkpoint| is minimal, breaking ties toward
// the smaller v. Correctness requires |checkpoint - v| < 2^31.
//
// Candidate arithmetic is clamped to uint64 throughout (per the known edge
// case when checkpoint sits near math.MaxUint64) so no candidate is computed
// via a signed intermediate that could itself overflow.
func (w Wrap32) Unwrap(zero Wrap32, checkpoint uint64) uint64 {
	const cycle = uint64(1) << 32
	offset := uint64(uint32(w - zero))

	cycleBase := checkpoint - (checkpoint % cycle)
	candidate := cycleBase + offset

	var prev uint64
	if candidate >= cycle {
		prev = candidate - cycle
	} else {
		// candidate - cycle would underflow; the previous cycle's
		// representative wraps to cycle-offset below math.MaxUint64+1.
		prev = math.MaxUint64 - (cycle - 1 - offset)
	}
	next := candidate + cycle
	nextOverflowed := candidate > math.MaxUint64-cycle

	dist := absDiff(candidate, checkpoint)
	distPrev := absDiff(prev, checkpoint)
	distNext := absDiff(next, checkpoint)
	if nextOverflowed {
		// No valid absolute index lies here; never the nearest candidate.
		distNext = math.MaxUint64
	}

	switch {
	case distPrev <= dist && distPrev <= distNext:
		return prev // Ties broken toward the smaller absolute index.
	case dist <= distNext:
		return candidate
	default:
		return next
	}
}

func absDiff(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}

// String renders the sequence number as an unsigned decimal, matching how
// the teacher's own wrapping-value types stringify for debug output.
func (w Wrap32) String() string {
	return uitoa(uint32(w))
}

func uitoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
