package viz

import (
	"fmt"
	"image/color"
	"io"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/topovision/topovision/internal/field"
)

// fieldGrid adapts a field to the grid interface gonum's heatmap plotter
// consumes. Plot rows grow upward, matching field row order.
type fieldGrid struct {
	f *field.Field
}

func (g fieldGrid) Dims() (c, r int)   { return g.f.Width, g.f.Height }
func (g fieldGrid) Z(c, r int) float64 { return g.f.At(r, c) }
func (g fieldGrid) X(c int) float64    { return float64(c) }
func (g fieldGrid) Y(r int) float64    { return float64(r) }

// Palette is a fixed-step color ramp satisfying gonum/plot's palette
// interface.
type Palette struct {
	colors []color.Color
}

// Colors returns the palette steps from low to high value.
func (p Palette) Colors() []color.Color { return p.colors }

// NewPalette builds an n-step ramp from dark violet to yellow, blended
// in Luv space so the perceived brightness rises monotonically.
func NewPalette(n int) Palette {
	if n < 2 {
		n = 2
	}
	lo, _ := colorful.Hex("#440154")
	hi, _ := colorful.Hex("#fde725")
	colors := make([]color.Color, n)
	for i := range colors {
		t := float64(i) / float64(n-1)
		colors[i] = lo.BlendLuv(hi, t).Clamped()
	}
	return Palette{colors: colors}
}

// RenderHeatmapPNG draws the field as a PNG heatmap and writes the
// encoded image to w.
func RenderHeatmapPNG(w io.Writer, f *field.Field, title string) error {
	if f == nil || f.Width == 0 || f.Height == 0 {
		return fmt.Errorf("empty field")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X (px)"
	p.Y.Label.Text = "Y (px)"

	h := plotter.NewHeatMap(fieldGrid{f: f}, NewPalette(64))
	p.Add(h)

	wt, err := p.WriterTo(8*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("render heatmap: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write heatmap: %w", err)
	}
	return nil
}
