package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/banshee-data/pinhole/internal/monitoring"
	"github.com/banshee-data/pinhole/internal/pinhole"
	"github.com/banshee-data/pinhole/internal/units"
)

// measurementFlags are shared by the distance and size commands.
type measurementFlags struct {
	camera   cameraFlags
	axis     string
	observed float64
	center   string
	units    string
	outUnits string
}

func (m *measurementFlags) register(fs *flag.FlagSet) {
	m.camera.register(fs)
	fs.StringVar(&m.axis, "axis", "y", "Sensor axis the measurement runs along (x or y)")
	fs.Float64Var(&m.observed, "observed", 0, "Observed extent in pixels (required)")
	fs.StringVar(&m.center, "center", "", "Pixel centre of the feature as x,y (enables distortion correction)")
	fs.StringVar(&m.units, "units", units.MM, "Length unit of the input ("+units.GetValidUnitsString()+")")
	fs.StringVar(&m.outUnits, "out-units", "", "Length unit of the result (defaults to --units)")
}

// resolve validates the shared flags and loads the camera.
func (m *measurementFlags) resolve() (*pinhole.Package, pinhole.Axis, *pinhole.Point, error) {
	if !units.IsValid(m.units) {
		return nil, "", nil, fmt.Errorf("invalid --units %q (valid: %s)", m.units, units.GetValidUnitsString())
	}
	if m.outUnits == "" {
		m.outUnits = m.units
	}
	if !units.IsValid(m.outUnits) {
		return nil, "", nil, fmt.Errorf("invalid --out-units %q (valid: %s)", m.outUnits, units.GetValidUnitsString())
	}

	axis, err := pinhole.ParseAxis(m.axis)
	if err != nil {
		return nil, "", nil, err
	}
	center, err := parseCenter(m.center)
	if err != nil {
		return nil, "", nil, err
	}
	pkg, name, err := m.camera.load()
	if err != nil {
		return nil, "", nil, err
	}
	monitoring.Debugf("camera=%s focal=%gmm pitch=%gx%gum res=%dx%d distortion=%v",
		name, pkg.Lens.FocalLengthMM, pkg.Sensor.PixelWidthUM, pkg.Sensor.PixelHeightUM,
		pkg.Sensor.Resolution.Width, pkg.Sensor.Resolution.Height, pkg.Lens.Distortion != nil)
	return pkg, axis, center, nil
}

func runDistance(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("distance", flag.ContinueOnError)
	fs.SetOutput(out)
	var m measurementFlags
	m.register(fs)
	actual := fs.Float64("actual", 0, "Real-world size of the object in --units (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	pkg, axis, center, err := m.resolve()
	if err != nil {
		return err
	}

	distMM, err := pkg.DistanceToObject(axis, units.ToMillimetres(*actual, m.units), m.observed, center)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%.6f %s\n", units.ConvertLength(distMM, units.MM, m.outUnits), m.outUnits)
	return nil
}

func runSize(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("size", flag.ContinueOnError)
	fs.SetOutput(out)
	var m measurementFlags
	m.register(fs)
	distance := fs.Float64("distance", 0, "Distance to the object in --units (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	pkg, axis, center, err := m.resolve()
	if err != nil {
		return err
	}

	sizeMM, err := pkg.ObjectDimensionAtDistance(axis, units.ToMillimetres(*distance, m.units), m.observed, center)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%.6f %s\n", units.ConvertLength(sizeMM, units.MM, m.outUnits), m.outUnits)
	return nil
}
