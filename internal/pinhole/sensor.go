package pinhole

import "fmt"

// Resolution is the pixel count of a sensor along each axis.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Sensor describes the physical pixel pitch (micrometres) and resolution.
type Sensor struct {
	PixelWidthUM  float64
	PixelHeightUM float64
	Resolution    Resolution
}

// NewSensor validates and returns a Sensor. All values must be positive.
func NewSensor(pixelWidthUM, pixelHeightUM float64, res Resolution) (Sensor, error) {
	s := Sensor{PixelWidthUM: pixelWidthUM, PixelHeightUM: pixelHeightUM, Resolution: res}
	if err := s.Validate(); err != nil {
		return Sensor{}, err
	}
	return s, nil
}

// Validate checks the positivity invariants.
func (s Sensor) Validate() error {
	if !(s.PixelWidthUM > 0) || !(s.PixelHeightUM > 0) {
		return fmt.Errorf("%w: pixel pitch must be positive, got %gx%g um",
			ErrInvalidArgument, s.PixelWidthUM, s.PixelHeightUM)
	}
	if s.Resolution.Width <= 0 || s.Resolution.Height <= 0 {
		return fmt.Errorf("%w: resolution must be positive, got %dx%d",
			ErrInvalidArgument, s.Resolution.Width, s.Resolution.Height)
	}
	return nil
}

// PixelPitchMM returns the pitch along axis a in millimetres.
func (s Sensor) PixelPitchMM(a Axis) float64 {
	if a == AxisX {
		return s.PixelWidthUM / 1000
	}
	return s.PixelHeightUM / 1000
}

// OpticalCenter is the geometric centre of the pixel grid.
func (s Sensor) OpticalCenter() Point {
	return Point{
		X: float64(s.Resolution.Width) / 2,
		Y: float64(s.Resolution.Height) / 2,
	}
}

// HalfExtent is half the resolution along axis a, the distance in pixels
// from the optical centre to the sensor edge.
func (s Sensor) HalfExtent(a Axis) float64 {
	if a == AxisX {
		return float64(s.Resolution.Width) / 2
	}
	return float64(s.Resolution.Height) / 2
}
