package calculus

import (
	"fmt"
	"math"

	"github.com/topovision/topovision/internal/field"
)

// ArcLength sums the Euclidean lengths of the segments of an ordered
// polyline. Fewer than two points is a degenerate path with length 0.
// math.Hypot keeps individual segment lengths stable for coordinates
// large enough to overflow a naive squared sum.
func ArcLength(points []field.Point) float64 {
	if len(points) < 2 {
		return 0
	}
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += math.Hypot(points[i].X-points[i-1].X, points[i].Y-points[i-1].Y)
	}
	return total
}

// PointsFromPairs converts an Nx2 coordinate array into an ordered point
// sequence. Rows that are not exactly two columns wide are rejected.
func PointsFromPairs(pairs [][]float64) ([]field.Point, error) {
	points := make([]field.Point, len(pairs))
	for i, pair := range pairs {
		if len(pair) != 2 {
			return nil, fmt.Errorf("%w: row %d has %d columns, want 2", ErrInvalidShape, i, len(pair))
		}
		points[i] = field.Point{X: pair[0], Y: pair[1]}
	}
	return points, nil
}

// PathFromColumn builds a cross-section polyline from a single field
// column: x is the row index, y is the sampled height. Useful for arc
// length of a vertical profile through a height map.
func PathFromColumn(f *field.Field, col int) ([]field.Point, error) {
	if err := checkField(f); err != nil {
		return nil, err
	}
	if col < 0 || col >= f.Width {
		return nil, fmt.Errorf("%w: column %d outside [0, %d)", ErrInvalidParameter, col, f.Width)
	}
	points := make([]field.Point, f.Height)
	for y := 0; y < f.Height; y++ {
		points[y] = field.Point{X: float64(y), Y: f.At(y, col)}
	}
	return points, nil
}
