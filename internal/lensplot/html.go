package lensplot

import (
	"fmt"
	"io"

	"github.com/banshee-data/pinhole/internal/pinhole"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderHTML writes a self-contained interactive chart of the curves.
func RenderHTML(w io.Writer, title string, curves []Curve, table *pinhole.DistortionTable) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "540px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle(table)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Min: -1, Max: 1, Name: "offset", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "1 + f", NameLocation: "middle", NameGap: 35}),
	)

	for _, c := range curves {
		data := make([]opts.LineData, 0, len(c.Points))
		for _, cp := range c.Points {
			data = append(data, opts.LineData{Value: []interface{}{cp.Offset, cp.Correction}})
		}
		line.AddSeries(fmt.Sprintf("%s axis", c.Axis), data)
	}

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func subtitle(table *pinhole.DistortionTable) string {
	if table == nil {
		return "no distortion table"
	}
	return fmt.Sprintf("%d entries, rounding precision %g", table.Len(), table.Precision())
}
