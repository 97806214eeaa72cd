// Package lensplot renders the distortion correction a Package applies
// across the sensor, as PNG (gonum/plot) or interactive HTML (go-echarts).
package lensplot

import (
	"fmt"

	"github.com/banshee-data/pinhole/internal/pinhole"
	"gonum.org/v1/gonum/floats"
)

// CurvePoint is the correction at one pixel position along an axis.
type CurvePoint struct {
	PixelPos   float64 // pixel coordinate along the axis
	Offset     float64 // normalised offset, -1 .. +1
	Multiplier float64 // raw table multiplier f
	Correction float64 // 1 + f
}

// Curve is a sampled edge-to-edge sweep along one axis.
type Curve struct {
	Axis   pinhole.Axis
	Points []CurvePoint
}

// SampleCurve sweeps steps pixel positions from 0 to the full resolution
// along axis, holding the other coordinate at the optical centre.
func SampleCurve(pkg *pinhole.Package, axis pinhole.Axis, steps int) (Curve, error) {
	if !axis.Valid() {
		return Curve{}, fmt.Errorf("%w: unknown axis %q", pinhole.ErrInvalidArgument, string(axis))
	}
	if steps < 2 {
		return Curve{}, fmt.Errorf("%w: need at least 2 samples, got %d", pinhole.ErrInvalidArgument, steps)
	}

	extent := 2 * pkg.Sensor.HalfExtent(axis)
	center := pkg.Sensor.OpticalCenter()
	curve := Curve{Axis: axis, Points: make([]CurvePoint, 0, steps)}

	for _, pos := range floats.Span(make([]float64, steps), 0, extent) {
		pt := center
		if axis == pinhole.AxisX {
			pt.X = pos
		} else {
			pt.Y = pos
		}

		offset, err := pkg.NormalizedOffset(axis, pt)
		if err != nil {
			return Curve{}, err
		}
		corr, err := pkg.CorrectionFactor(axis, &pt)
		if err != nil {
			return Curve{}, err
		}
		curve.Points = append(curve.Points, CurvePoint{
			PixelPos:   pos,
			Offset:     offset,
			Multiplier: corr - 1,
			Correction: corr,
		})
	}
	return curve, nil
}

// SampleAll samples both axes.
func SampleAll(pkg *pinhole.Package, steps int) ([]Curve, error) {
	curves := make([]Curve, 0, len(pinhole.ValidAxes))
	for _, axis := range pinhole.ValidAxes {
		c, err := SampleCurve(pkg, axis, steps)
		if err != nil {
			return nil, err
		}
		curves = append(curves, c)
	}
	return curves, nil
}
