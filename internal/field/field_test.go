package field

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestNewRejectsBadDimensions(t *testing.T) {
	for _, dims := range [][2]int{{0, 5}, {5, 0}, {-1, 3}, {0, 0}} {
		if _, err := New(dims[0], dims[1]); err == nil {
			t.Errorf("New(%d, %d) succeeded, want error", dims[0], dims[1])
		}
	}
}

func TestFromRows(t *testing.T) {
	f, err := FromRows([][]float64{
		{1, 2, 3},
		{4, 5, 6},
	})
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	if f.Width != 3 || f.Height != 2 {
		t.Fatalf("shape = %dx%d, want 3x2", f.Width, f.Height)
	}
	if f.At(1, 2) != 6 {
		t.Errorf("At(1,2) = %g, want 6", f.At(1, 2))
	}
	if f.Idx(1, 0) != 3 {
		t.Errorf("Idx(1,0) = %d, want 3", f.Idx(1, 0))
	}

	if _, err := FromRows([][]float64{{1, 2}, {3}}); err == nil {
		t.Error("ragged rows accepted, want error")
	}
	if _, err := FromRows(nil); err == nil {
		t.Error("nil rows accepted, want error")
	}
}

func TestFromImageLuminance(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	img.Set(1, 0, color.RGBA{A: 255})

	f, err := FromImage(img)
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	if math.Abs(f.At(0, 0)-255) > 1 {
		t.Errorf("white pixel = %g, want ~255", f.At(0, 0))
	}
	if f.At(0, 1) != 0 {
		t.Errorf("black pixel = %g, want 0", f.At(0, 1))
	}
}

func TestSubField(t *testing.T) {
	f, _ := New(4, 4)
	for i := range f.Values {
		f.Values[i] = float64(i)
	}

	sub := f.SubField(Region{X1: 1, Y1: 1, X2: 3, Y2: 3})
	if sub.Width != 2 || sub.Height != 2 {
		t.Fatalf("sub shape = %dx%d, want 2x2", sub.Width, sub.Height)
	}
	want := []float64{5, 6, 9, 10}
	for i, w := range want {
		if sub.Values[i] != w {
			t.Errorf("sub.Values[%d] = %g, want %g", i, sub.Values[i], w)
		}
	}

	if got := f.SubField(Region{X1: 2, Y1: 2, X2: 2, Y2: 4}); got != nil {
		t.Errorf("SubField(empty region) = %+v, want nil", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	f, _ := New(2, 2)
	f.Fill(1.0)
	c := f.Clone()
	c.Set(0, 0, 99)
	if f.At(0, 0) != 1.0 {
		t.Errorf("mutating clone changed original: %g", f.At(0, 0))
	}
}

func TestStats(t *testing.T) {
	f, _ := FromRows([][]float64{{1, 2}, {3, 4}})
	s := f.Stats()
	if s.Min != 1 || s.Max != 4 {
		t.Errorf("min/max = %g/%g, want 1/4", s.Min, s.Max)
	}
	if math.Abs(s.Mean-2.5) > 1e-12 {
		t.Errorf("mean = %g, want 2.5", s.Mean)
	}
	if s.StdDev <= 0 {
		t.Errorf("stddev = %g, want > 0", s.StdDev)
	}
	if f.Sum() != 10 {
		t.Errorf("sum = %g, want 10", f.Sum())
	}
}
