package field

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// referenceViewPx is the pixel extent of the longest edge of the
// rectified top-down view.
const referenceViewPx = 1000

// PerspectiveCorrector maps points from the camera's oblique view to an
// orthographic top-down view using a four-point homography. The
// homography is solved once at construction from the correspondence
// between the four source corners and a synthetic target rectangle with
// a known physical scale.
type PerspectiveCorrector struct {
	matrix  *mat.Dense // 3x3 forward homography
	inverse *mat.Dense // 3x3 inverse homography

	// DstWidthPx and DstHeightPx are the dimensions of the rectified view.
	DstWidthPx  int
	DstHeightPx int

	// PixelsPerMeter is the scale of the rectified view.
	PixelsPerMeter float64
}

// NewPerspectiveCorrector builds a corrector from the four image-space
// corners of a reference rectangle (ordered top-left, top-right,
// bottom-right, bottom-left) and its real-world dimensions in meters.
func NewPerspectiveCorrector(src [4]Point, realWidth, realHeight float64) (*PerspectiveCorrector, error) {
	if realWidth <= 0 || realHeight <= 0 {
		return nil, fmt.Errorf("real-world dimensions must be positive, got %gx%g", realWidth, realHeight)
	}

	// Pin the longest real edge to the reference pixel extent so the
	// rectified view keeps the aspect ratio of the physical rectangle.
	var dstW, dstH int
	if realWidth >= realHeight {
		dstW = referenceViewPx
		dstH = int(referenceViewPx * realHeight / realWidth)
	} else {
		dstH = referenceViewPx
		dstW = int(referenceViewPx * realWidth / realHeight)
	}

	dst := [4]Point{
		{0, 0},
		{float64(dstW - 1), 0},
		{float64(dstW - 1), float64(dstH - 1)},
		{0, float64(dstH - 1)},
	}

	fwd, err := solveHomography(src, dst)
	if err != nil {
		return nil, fmt.Errorf("forward homography: %w", err)
	}
	inv, err := solveHomography(dst, src)
	if err != nil {
		return nil, fmt.Errorf("inverse homography: %w", err)
	}

	return &PerspectiveCorrector{
		matrix:         fwd,
		inverse:        inv,
		DstWidthPx:     dstW,
		DstHeightPx:    dstH,
		PixelsPerMeter: float64(dstW) / realWidth,
	}, nil
}

// TransformPoint maps an image-space point into the rectified top-down view.
func (pc *PerspectiveCorrector) TransformPoint(p Point) Point {
	return applyHomography(pc.matrix, p)
}

// InverseTransformPoint maps a rectified point back to image space.
func (pc *PerspectiveCorrector) InverseTransformPoint(p Point) Point {
	return applyHomography(pc.inverse, p)
}

// TransformPath maps an ordered point sequence into the rectified view,
// preserving order.
func (pc *PerspectiveCorrector) TransformPath(path []Point) []Point {
	out := make([]Point, len(path))
	for i, p := range path {
		out[i] = pc.TransformPoint(p)
	}
	return out
}

// solveHomography finds the 3x3 projective transform taking each src[i]
// to dst[i], with the bottom-right element fixed at 1. The four
// correspondences give an 8x8 linear system in the remaining entries.
func solveHomography(src, dst [4]Point) (*mat.Dense, error) {
	a := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)

	for i := 0; i < 4; i++ {
		x, y := src[i].X, src[i].Y
		u, v := dst[i].X, dst[i].Y

		a.SetRow(2*i, []float64{x, y, 1, 0, 0, 0, -u * x, -u * y})
		a.SetRow(2*i+1, []float64{0, 0, 0, x, y, 1, -v * x, -v * y})
		b.SetVec(2*i, u)
		b.SetVec(2*i+1, v)
	}

	var h mat.VecDense
	if err := h.SolveVec(a, b); err != nil {
		return nil, fmt.Errorf("degenerate point configuration: %w", err)
	}

	return mat.NewDense(3, 3, []float64{
		h.AtVec(0), h.AtVec(1), h.AtVec(2),
		h.AtVec(3), h.AtVec(4), h.AtVec(5),
		h.AtVec(6), h.AtVec(7), 1,
	}), nil
}

func applyHomography(m *mat.Dense, p Point) Point {
	u := m.At(0, 0)*p.X + m.At(0, 1)*p.Y + m.At(0, 2)
	v := m.At(1, 0)*p.X + m.At(1, 1)*p.Y + m.At(1, 2)
	w := m.At(2, 0)*p.X + m.At(2, 1)*p.Y + m.At(2, 2)
	if w == 0 {
		// Point at infinity; keep the caller out of NaN territory.
		return Point{}
	}
	return Point{X: u / w, Y: v / w}
}
