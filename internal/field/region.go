package field

import "fmt"

// Region is a half-open rectangle [X1, X2) x [Y1, Y2) in field
// coordinates. A user selection arrives in display coordinates and is
// run through Normalize and ClipTo before any slicing happens.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Normalize orders both axes so X1 <= X2 and Y1 <= Y2. A selection
// dragged right-to-left or bottom-to-top becomes equivalent to the
// forward drag.
func (r Region) Normalize() Region {
	if r.X1 > r.X2 {
		r.X1, r.X2 = r.X2, r.X1
	}
	if r.Y1 > r.Y2 {
		r.Y1, r.Y2 = r.Y2, r.Y1
	}
	return r
}

// ClipTo clamps the region to [0, width] x [0, height]. The result may
// be empty when the region lies entirely outside the bounds; that is
// not an error (an empty slice has volume zero).
func (r Region) ClipTo(width, height int) Region {
	r = r.Normalize()
	r.X1 = clamp(r.X1, 0, width)
	r.X2 = clamp(r.X2, 0, width)
	r.Y1 = clamp(r.Y1, 0, height)
	r.Y2 = clamp(r.Y2, 0, height)
	return r
}

// Validate rejects zero-area regions. Callers that tolerate empty
// intersections (volume over a clipped region) skip this and test
// Empty() instead.
func (r Region) Validate() error {
	n := r.Normalize()
	if n.Width() <= 0 || n.Height() <= 0 {
		return fmt.Errorf("region %+v has zero area", r)
	}
	return nil
}

// Width returns X2-X1 in cells.
func (r Region) Width() int { return r.X2 - r.X1 }

// Height returns Y2-Y1 in cells.
func (r Region) Height() int { return r.Y2 - r.Y1 }

// Empty reports whether the region covers no cells.
func (r Region) Empty() bool { return r.Width() <= 0 || r.Height() <= 0 }

// Area returns the number of cells covered.
func (r Region) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width() * r.Height()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
