package pinhole

import "fmt"

// Package pairs a Lens with a Sensor. All conversions go through it.
type Package struct {
	Lens   Lens
	Sensor Sensor
}

// NewPackage validates both halves and returns the pairing.
func NewPackage(lens Lens, sensor Sensor) (*Package, error) {
	if err := lens.Validate(); err != nil {
		return nil, err
	}
	if err := sensor.Validate(); err != nil {
		return nil, err
	}
	return &Package{Lens: lens, Sensor: sensor}, nil
}

// DistanceToObject returns the distance to an object of real size actual
// that spans observedPx pixels along axis:
//
//	distance = focal_mm * actual / (observedPx * pitch_mm[axis])
//
// The result is in the unit actual is given in. When center is non-nil and
// the lens has a distortion table, the result is scaled by (1 + f).
func (p *Package) DistanceToObject(axis Axis, actual, observedPx float64, center *Point) (float64, error) {
	if err := checkMeasurement(axis, "actual dimension", actual, observedPx); err != nil {
		return 0, err
	}
	base := p.Lens.FocalLengthMM * actual / (observedPx * p.Sensor.PixelPitchMM(axis))
	return base * p.correction(axis, center), nil
}

// ObjectDimensionAtDistance is the inverse of DistanceToObject:
//
//	dimension = distance * observedPx * pitch_mm[axis] / focal_mm
//
// Distortion is applied the same way, as a (1 + f) scale on the result.
func (p *Package) ObjectDimensionAtDistance(axis Axis, distance, observedPx float64, center *Point) (float64, error) {
	if err := checkMeasurement(axis, "distance", distance, observedPx); err != nil {
		return 0, err
	}
	base := distance * observedPx * p.Sensor.PixelPitchMM(axis) / p.Lens.FocalLengthMM
	return base * p.correction(axis, center), nil
}

// NormalizedOffset is the signed displacement of center from the optical
// centre along axis, as a fraction of half the resolution on that axis
// (0 at the centre, +-1 at the edges). Only the axis component of center
// is used.
func (p *Package) NormalizedOffset(axis Axis, center Point) (float64, error) {
	if !axis.Valid() {
		return 0, fmt.Errorf("%w: unknown axis %q", ErrInvalidArgument, string(axis))
	}
	optical := p.Sensor.OpticalCenter()
	offset := center.Component(axis) - optical.Component(axis)
	return offset / p.Sensor.HalfExtent(axis), nil
}

// CorrectionFactor returns the (1 + f) scale applied to conversions for a
// feature centred at center. It is 1 when center is nil, the lens has no
// table, or the table has no entry for the offset.
func (p *Package) CorrectionFactor(axis Axis, center *Point) (float64, error) {
	if !axis.Valid() {
		return 0, fmt.Errorf("%w: unknown axis %q", ErrInvalidArgument, string(axis))
	}
	return p.correction(axis, center), nil
}

// correction assumes axis has already been validated.
func (p *Package) correction(axis Axis, center *Point) float64 {
	if center == nil || p.Lens.Distortion == nil {
		return 1
	}
	offset, _ := p.NormalizedOffset(axis, *center)
	return 1 + p.Lens.Distortion.GetOr(offset, 0)
}

func checkMeasurement(axis Axis, name string, value, observedPx float64) error {
	if !axis.Valid() {
		return fmt.Errorf("%w: unknown axis %q", ErrInvalidArgument, string(axis))
	}
	if !(value > 0) {
		return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidArgument, name, value)
	}
	if !(observedPx > 0) {
		return fmt.Errorf("%w: observed dimension must be positive, got %g px", ErrInvalidArgument, observedPx)
	}
	return nil
}
