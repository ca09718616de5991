package internal

import "errors"

// Validator accumulates validation errors found while inspecting a header or
// frame, so a caller can check several fields in one pass instead of
// failing on the first defect. Adapted from the teacher's own Validator type
// used across its ethernet/arp/ipv4 frame packages.
type Validator struct {
	accum []error
}

// AddError records an error. Validator keeps every distinct call so ErrPop
// reports all of them via errors.Join.
func (v *Validator) AddError(err error) {
	if err != nil {
		v.accum = append(v.accum, err)
	}
}

// HasError reports whether any error has been recorded.
func (v *Validator) HasError() bool { return len(v.accum) > 0 }

// Err returns nil, the single recorded error, or a joined error.
func (v *Validator) Err() error {
	switch len(v.accum) {
	case 0:
		return nil
	case 1:
		return v.accum[0]
	default:
		return errors.Join(v.accum...)
	}
}

// ErrPop returns Err and resets the validator for reuse.
func (v *Validator) ErrPop() error {
	err := v.Err()
	v.accum = v.accum[:0]
	return err
}

// Reset clears accumulated errors without allocating.
func (v *Validator) Reset() { v.accum = v.accum[:0] }
