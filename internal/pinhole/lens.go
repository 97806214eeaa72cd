package pinhole

import "fmt"

// Lens is a focal length plus an optional distortion table. A nil
// Distortion means the lens is treated as an ideal pinhole.
type Lens struct {
	FocalLengthMM float64
	Distortion    *DistortionTable
}

// NewLens validates and returns a Lens. table may be nil.
func NewLens(focalLengthMM float64, table *DistortionTable) (Lens, error) {
	l := Lens{FocalLengthMM: focalLengthMM, Distortion: table}
	if err := l.Validate(); err != nil {
		return Lens{}, err
	}
	return l, nil
}

// Validate checks that the focal length is positive.
func (l Lens) Validate() error {
	if !(l.FocalLengthMM > 0) {
		return fmt.Errorf("%w: focal length must be positive, got %g mm", ErrInvalidArgument, l.FocalLengthMM)
	}
	return nil
}
