package viz

import (
	"bytes"
	"strings"
	"testing"

	"github.com/topovision/topovision/internal/field"
)

func rampField(t *testing.T, w, h int) *field.Field {
	t.Helper()
	f, err := field.New(w, h)
	if err != nil {
		t.Fatalf("field.New: %v", err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.Set(y, x, float64(x+y))
		}
	}
	return f
}

func TestStrideForBoundsCellCount(t *testing.T) {
	tests := []struct {
		name     string
		w, h     int
		maxCells int
	}{
		{"small field unchanged", 10, 10, 1000},
		{"large field downsampled", 640, 480, 10000},
		{"default limit applied", 640, 480, 0},
		{"tiny budget", 100, 100, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := rampField(t, tt.w, tt.h)
			stride := strideFor(f, tt.maxCells)
			if stride < 1 {
				t.Fatalf("stride = %d, want >= 1", stride)
			}
			limit := tt.maxCells
			if limit <= 0 {
				limit = defaultMaxCells
			}
			cells := (tt.w/stride + 1) * (tt.h/stride + 1)
			if cells > limit {
				t.Errorf("stride %d leaves %d cells, budget %d", stride, cells, limit)
			}
		})
	}
}

func TestPrepareHeatmapData(t *testing.T) {
	f := rampField(t, 4, 3)
	data := PrepareHeatmapData(f, 1000)

	if data.Stride != 1 {
		t.Errorf("stride = %d, want 1", data.Stride)
	}
	if len(data.Cells) != 12 {
		t.Errorf("cells = %d, want 12", len(data.Cells))
	}
	if len(data.XLabels) != 4 || len(data.YLabels) != 3 {
		t.Errorf("labels = %dx%d, want 4x3", len(data.XLabels), len(data.YLabels))
	}
	if data.MinValue != 0 {
		t.Errorf("min = %g, want 0", data.MinValue)
	}
	// Corner cell (3, 2) holds x+y = 5.
	if data.MaxValue != 5 {
		t.Errorf("max = %g, want 5", data.MaxValue)
	}
}

func TestPrepareSurfaceData(t *testing.T) {
	f := rampField(t, 5, 5)
	data := PrepareSurfaceData(f, 1000)

	if len(data.Points) != 25 {
		t.Fatalf("points = %d, want 25", len(data.Points))
	}
	if data.MinValue != 0 || data.MaxValue != 8 {
		t.Errorf("range = [%g, %g], want [0, 8]", data.MinValue, data.MaxValue)
	}
	last := data.Points[len(data.Points)-1]
	if last.X != 4 || last.Y != 4 || last.Z != 8 {
		t.Errorf("last point = %+v, want (4, 4, 8)", last)
	}
}

func TestNewPaletteSteps(t *testing.T) {
	if got := len(NewPalette(64).Colors()); got != 64 {
		t.Errorf("palette steps = %d, want 64", got)
	}
	// Degenerate sizes still yield a usable two-step ramp.
	if got := len(NewPalette(0).Colors()); got != 2 {
		t.Errorf("palette steps = %d, want 2", got)
	}
}

func TestRenderHeatmapPNG(t *testing.T) {
	f := rampField(t, 16, 12)
	var buf bytes.Buffer
	if err := RenderHeatmapPNG(&buf, f, "test"); err != nil {
		t.Fatalf("RenderHeatmapPNG: %v", err)
	}
	// PNG signature.
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("output is not a PNG")
	}
}

func TestRenderHeatmapPNGEmptyField(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderHeatmapPNG(&buf, nil, "test"); err == nil {
		t.Error("nil field accepted, want error")
	}
}

func TestRenderHeatmapHTML(t *testing.T) {
	f := rampField(t, 8, 8)
	var buf bytes.Buffer
	if err := RenderHeatmapHTML(&buf, f, "Intensity", "8x8"); err != nil {
		t.Fatalf("RenderHeatmapHTML: %v", err)
	}
	doc := buf.String()
	if !strings.Contains(doc, "echarts") {
		t.Error("page does not reference echarts")
	}
	if !strings.Contains(doc, "Intensity") {
		t.Error("page missing title")
	}
}

func TestRenderSurfaceHTML(t *testing.T) {
	f := rampField(t, 8, 8)
	var buf bytes.Buffer
	if err := RenderSurfaceHTML(&buf, f, "Surface", "8x8"); err != nil {
		t.Fatalf("RenderSurfaceHTML: %v", err)
	}
	if !strings.Contains(buf.String(), "echarts") {
		t.Error("page does not reference echarts")
	}
}
