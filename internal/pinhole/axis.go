package pinhole

import (
	"fmt"
	"strings"
)

// Axis selects which sensor dimension a measurement runs along.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// ValidAxes lists the recognised axis identifiers.
var ValidAxes = []Axis{AxisX, AxisY}

// ParseAxis maps "x"/"y" (any case, surrounding space ignored) to an Axis.
func ParseAxis(s string) (Axis, error) {
	a := Axis(strings.ToLower(strings.TrimSpace(s)))
	if !a.Valid() {
		return "", fmt.Errorf("%w: unknown axis %q (want x or y)", ErrInvalidArgument, s)
	}
	return a, nil
}

// Valid reports whether a is one of AxisX or AxisY.
func (a Axis) Valid() bool {
	return a == AxisX || a == AxisY
}

func (a Axis) String() string {
	return string(a)
}

// Point is a pixel coordinate on the sensor.
type Point struct {
	X, Y float64
}

// Component returns the coordinate of p along axis a.
func (p Point) Component(a Axis) float64 {
	if a == AxisX {
		return p.X
	}
	return p.Y
}
