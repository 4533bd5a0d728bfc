package viz

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/topovision/topovision/internal/field"
)

// rampColors is the viridis-style ramp used across the debug charts.
var rampColors = []string{
	"#440154", "#482777", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
}

// RenderHeatmapHTML writes a browser heatmap page of the field. This is
// a debugging-only view; payload size is bounded by downsampling.
func RenderHeatmapHTML(w io.Writer, f *field.Field, title, subtitle string) error {
	if f == nil || f.Width == 0 || f.Height == 0 {
		return fmt.Errorf("empty field")
	}

	data := PrepareHeatmapData(f, defaultMaxCells)
	cells := make([]opts.HeatMapData, 0, len(data.Cells))
	for _, c := range data.Cells {
		cells = append(cells, opts.HeatMapData{Value: []interface{}{c.X, c.Y, c.Value}})
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Theme: "dark", Width: "900px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Name: "X (px)"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Name: "Y (px)", Data: data.YLabels}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(data.MinValue),
			Max:        float32(data.MaxValue),
			InRange:    &opts.VisualMapInRange{Color: rampColors},
		}),
	)
	hm.SetXAxis(data.XLabels).AddSeries("intensity", cells)

	if err := hm.Render(w); err != nil {
		return fmt.Errorf("render heatmap page: %w", err)
	}
	return nil
}

// RenderSurfaceHTML writes a browser 3D surface page of the field, with
// cell value as height.
func RenderSurfaceHTML(w io.Writer, f *field.Field, title, subtitle string) error {
	if f == nil || f.Width == 0 || f.Height == 0 {
		return fmt.Errorf("empty field")
	}

	data := PrepareSurfaceData(f, defaultMaxCells)
	points := make([]opts.Chart3DData, 0, len(data.Points))
	for _, p := range data.Points {
		points = append(points, opts.Chart3DData{Value: []interface{}{p.X, p.Y, p.Z}})
	}

	surface := charts.NewSurface3D()
	surface.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Theme: "dark", Width: "900px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: "X (px)", Type: "value"}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: "Y (px)", Type: "value"}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: "Z", Type: "value"}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(data.MinValue),
			Max:        float32(data.MaxValue),
			InRange:    &opts.VisualMapInRange{Color: rampColors},
		}),
	)
	surface.AddSeries("surface", points)

	if err := surface.Render(w); err != nil {
		return fmt.Errorf("render surface page: %w", err)
	}
	return nil
}
