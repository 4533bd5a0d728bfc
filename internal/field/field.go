// Package field provides the scalar field data model shared by the
// capture, calculus and visualization layers.
//
// A Field is a dense 2D grid of float64 heights stored row-major in a
// flat slice. Fields are treated as immutable once handed to a
// calculator; nothing in this package mutates a field it did not create.
package field

import (
	"fmt"
	"image"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Field is a height/intensity surface of Height rows by Width columns.
// Values is row-major: Values[y*Width+x].
type Field struct {
	Width  int
	Height int
	Values []float64
}

// Point is a real-valued 2D coordinate. Ordered sequences of points form
// a polyline for arc-length calculation.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// New returns a zeroed field of the given dimensions.
// Returns an error if either dimension is not positive.
func New(width, height int) (*Field, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("field dimensions must be positive, got %dx%d", width, height)
	}
	return &Field{
		Width:  width,
		Height: height,
		Values: make([]float64, width*height),
	}, nil
}

// FromRows builds a field from a slice of equal-length rows.
// Ragged or empty input is rejected.
func FromRows(rows [][]float64) (*Field, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("field requires at least one row and one column")
	}
	width := len(rows[0])
	f, err := New(width, len(rows))
	if err != nil {
		return nil, err
	}
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("ragged rows: row %d has %d values, want %d", y, len(row), width)
		}
		copy(f.Values[y*width:(y+1)*width], row)
	}
	return f, nil
}

// FromImage converts an image to an intensity field using ITU-R BT.601
// luminance weights. Pixel values land in [0, 255].
func FromImage(img image.Image) (*Field, error) {
	bounds := img.Bounds()
	f, err := New(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, fmt.Errorf("image has empty bounds %v", bounds)
	}
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			lum := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
			f.Values[y*f.Width+x] = lum
		}
	}
	return f, nil
}

// Fill sets every cell to v and returns the field for chaining.
func (f *Field) Fill(v float64) *Field {
	for i := range f.Values {
		f.Values[i] = v
	}
	return f
}

// Idx maps (y, x) to the flat index. No bounds check.
func (f *Field) Idx(y, x int) int { return y*f.Width + x }

// At returns the value at (y, x). No bounds check.
func (f *Field) At(y, x int) float64 { return f.Values[y*f.Width+x] }

// Set writes the value at (y, x). No bounds check.
func (f *Field) Set(y, x int, v float64) { f.Values[y*f.Width+x] = v }

// Clone returns a deep copy of the field.
func (f *Field) Clone() *Field {
	out := &Field{Width: f.Width, Height: f.Height, Values: make([]float64, len(f.Values))}
	copy(out.Values, f.Values)
	return out
}

// SubField extracts the cells covered by region, which must already be
// normalized and clipped to the field bounds. An empty region yields a
// nil field.
func (f *Field) SubField(r Region) *Field {
	if r.Empty() {
		return nil
	}
	out := &Field{
		Width:  r.Width(),
		Height: r.Height(),
		Values: make([]float64, r.Width()*r.Height()),
	}
	for y := r.Y1; y < r.Y2; y++ {
		src := f.Values[f.Idx(y, r.X1):f.Idx(y, r.X2)]
		copy(out.Values[(y-r.Y1)*out.Width:], src)
	}
	return out
}

// Sum returns the total of all cell values.
func (f *Field) Sum() float64 { return floats.Sum(f.Values) }

// FieldStats summarises the value distribution of a field.
type FieldStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// Stats computes min/max/mean/stddev over the field values.
func (f *Field) Stats() FieldStats {
	return FieldStats{
		Min:    floats.Min(f.Values),
		Max:    floats.Max(f.Values),
		Mean:   stat.Mean(f.Values, nil),
		StdDev: stat.StdDev(f.Values, nil),
	}
}
