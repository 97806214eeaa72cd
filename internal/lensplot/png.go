package lensplot

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/banshee-data/pinhole/internal/fsutil"
	"github.com/banshee-data/pinhole/internal/pinhole"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var axisColors = map[pinhole.Axis]color.RGBA{
	pinhole.AxisX: {R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	pinhole.AxisY: {R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
}

// NewPlot builds a correction-factor plot of the curves, with the raw
// table entries overlaid as points when table is non-nil.
func NewPlot(title string, curves []Curve, table *pinhole.DistortionTable) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Normalised offset from optical centre"
	p.Y.Label.Text = "Correction (1 + f)"

	for _, c := range curves {
		pts := make(plotter.XYs, 0, len(c.Points))
		for _, cp := range c.Points {
			pts = append(pts, plotter.XY{X: cp.Offset, Y: cp.Correction})
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("axis %s: %w", c.Axis, err)
		}
		line.Color = axisColors[c.Axis]
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("%s axis", c.Axis), line)
	}

	if table != nil && table.Len() > 0 {
		entries := table.Entries()
		pts := make(plotter.XYs, len(entries))
		for i, e := range entries {
			pts[i] = plotter.XY{X: e.Offset, Y: 1 + e.Multiplier}
		}
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("table entries: %w", err)
		}
		scatter.GlyphStyle.Radius = vg.Points(3)
		p.Add(scatter)
		p.Legend.Add("table entries", scatter)
	}

	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.Left = true
	return p, nil
}

// SavePNG renders the curves to path through fsys.
func SavePNG(fsys fsutil.FileSystem, path, title string, curves []Curve, table *pinhole.DistortionTable) error {
	p, err := NewPlot(title, curves, table)
	if err != nil {
		return err
	}

	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	wt, err := p.WriterTo(10*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("failed to render plot: %w", err)
	}
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := wt.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
