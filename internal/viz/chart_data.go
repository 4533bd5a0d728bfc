// Package viz renders scalar fields and gradient magnitudes as charts:
// browser-side heatmap and 3D surface pages via go-echarts, and a PNG
// heatmap via gonum/plot. Data preparation is separated from chart
// rendering for testability.
package viz

import (
	"strconv"

	"github.com/topovision/topovision/internal/field"
)

// defaultMaxCells bounds chart payload size; fields larger than this are
// downsampled by stride.
const defaultMaxCells = 10000

// HeatmapCell is one chart cell: column, row and value.
type HeatmapCell struct {
	X     int     `json:"x"`
	Y     int     `json:"y"`
	Value float64 `json:"value"`
}

// HeatmapData holds prepared data for rendering a heatmap chart.
type HeatmapData struct {
	Cells    []HeatmapCell `json:"cells"`
	XLabels  []string      `json:"x_labels"`
	YLabels  []string      `json:"y_labels"`
	MinValue float64       `json:"min_value"`
	MaxValue float64       `json:"max_value"`
	Stride   int           `json:"stride"`
}

// SurfacePoint is one (x, y, z) sample of a surface chart.
type SurfacePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// SurfaceData holds prepared data for rendering a 3D surface chart.
type SurfaceData struct {
	Points   []SurfacePoint `json:"points"`
	MinValue float64        `json:"min_value"`
	MaxValue float64        `json:"max_value"`
	Stride   int            `json:"stride"`
}

// strideFor picks the sampling stride that keeps the downsampled cell
// count at or below maxCells.
func strideFor(f *field.Field, maxCells int) int {
	if maxCells <= 0 {
		maxCells = defaultMaxCells
	}
	stride := 1
	for (f.Width/stride+1)*(f.Height/stride+1) > maxCells {
		stride++
	}
	return stride
}

// PrepareHeatmapData downsamples a field into heatmap chart cells.
func PrepareHeatmapData(f *field.Field, maxCells int) *HeatmapData {
	stride := strideFor(f, maxCells)

	data := &HeatmapData{Stride: stride}
	first := true
	for y := 0; y < f.Height; y += stride {
		data.YLabels = append(data.YLabels, strconv.Itoa(y))
	}
	for x := 0; x < f.Width; x += stride {
		data.XLabels = append(data.XLabels, strconv.Itoa(x))
	}
	for yi, y := 0, 0; y < f.Height; yi, y = yi+1, y+stride {
		for xi, x := 0, 0; x < f.Width; xi, x = xi+1, x+stride {
			v := f.At(y, x)
			if first || v < data.MinValue {
				data.MinValue = v
			}
			if first || v > data.MaxValue {
				data.MaxValue = v
			}
			first = false
			data.Cells = append(data.Cells, HeatmapCell{X: xi, Y: yi, Value: v})
		}
	}
	return data
}

// PrepareSurfaceData downsamples a field into 3D surface samples with z
// as the cell value.
func PrepareSurfaceData(f *field.Field, maxCells int) *SurfaceData {
	stride := strideFor(f, maxCells)

	data := &SurfaceData{Stride: stride}
	first := true
	for y := 0; y < f.Height; y += stride {
		for x := 0; x < f.Width; x += stride {
			v := f.At(y, x)
			if first || v < data.MinValue {
				data.MinValue = v
			}
			if first || v > data.MaxValue {
				data.MaxValue = v
			}
			first = false
			data.Points = append(data.Points, SurfacePoint{X: float64(x), Y: float64(y), Z: v})
		}
	}
	return data
}
