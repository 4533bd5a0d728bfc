package calculus

import (
	"errors"
	"math"
	"testing"

	"github.com/topovision/topovision/internal/field"
)

func TestSetStrategySelectsCalculator(t *testing.T) {
	ctx := NewAnalysisContext()

	for _, name := range StrategyNames() {
		if err := ctx.SetStrategy(name); err != nil {
			t.Fatalf("SetStrategy(%q): %v", name, err)
		}
		if got := ctx.Strategy().Name(); got != name {
			t.Errorf("Strategy().Name() = %q, want %q", got, name)
		}
	}
}

func TestSetStrategyRejectsUnknownNames(t *testing.T) {
	ctx := NewAnalysisContext()

	for _, name := range []string{"", "Gradient", "arclength", "arc-length", "surface", "volume "} {
		if err := ctx.SetStrategy(name); !errors.Is(err, ErrInvalidStrategy) {
			t.Errorf("SetStrategy(%q) error = %v, want ErrInvalidStrategy", name, err)
		}
	}
}

func TestInvalidStrategyKeepsPreviousSelection(t *testing.T) {
	ctx := NewAnalysisContext()
	if err := ctx.SetStrategy(StrategyVolume); err != nil {
		t.Fatalf("SetStrategy: %v", err)
	}

	if err := ctx.SetStrategy("bogus"); !errors.Is(err, ErrInvalidStrategy) {
		t.Fatalf("SetStrategy(bogus) error = %v, want ErrInvalidStrategy", err)
	}

	// The volume strategy must still be active after the failed switch.
	f, _ := field.New(2, 2)
	f.Fill(1.0)
	res, err := ctx.Calculate(f, DefaultParams())
	if err != nil {
		t.Fatalf("Calculate after failed switch: %v", err)
	}
	if res.Method() != StrategyVolume {
		t.Errorf("active strategy = %q, want %q", res.Method(), StrategyVolume)
	}
}

func TestCalculateWithoutStrategy(t *testing.T) {
	ctx := NewAnalysisContext()
	f, _ := field.New(2, 2)

	if _, err := ctx.Calculate(f, DefaultParams()); !errors.Is(err, ErrNoStrategy) {
		t.Errorf("Calculate before SetStrategy error = %v, want ErrNoStrategy", err)
	}
}

func TestCalculateDelegatesByStrategy(t *testing.T) {
	ctx := NewAnalysisContext()
	f := mustField(t, [][]float64{{1, 2}, {3, 4}})

	if err := ctx.SetStrategy(StrategyGradient); err != nil {
		t.Fatalf("SetStrategy: %v", err)
	}
	res, err := ctx.Calculate(f, DefaultParams())
	if err != nil {
		t.Fatalf("Calculate(gradient): %v", err)
	}
	if _, ok := res.(GradientResult); !ok {
		t.Errorf("gradient result type = %T, want GradientResult", res)
	}

	if err := ctx.SetStrategy(StrategyVolume); err != nil {
		t.Fatalf("SetStrategy: %v", err)
	}
	res, err = ctx.Calculate(f, DefaultParams())
	if err != nil {
		t.Fatalf("Calculate(volume): %v", err)
	}
	if _, ok := res.(VolumeResult); !ok {
		t.Errorf("volume result type = %T, want VolumeResult", res)
	}

	if err := ctx.SetStrategy(StrategyArcLength); err != nil {
		t.Fatalf("SetStrategy: %v", err)
	}
	res, err = ctx.Calculate([]field.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}, DefaultParams())
	if err != nil {
		t.Fatalf("Calculate(arc_length): %v", err)
	}
	if _, ok := res.(ArcLengthResult); !ok {
		t.Errorf("arc length result type = %T, want ArcLengthResult", res)
	}
}

func TestVolumeEndToEnd(t *testing.T) {
	ctx := NewAnalysisContext()
	if err := ctx.SetStrategy(StrategyVolume); err != nil {
		t.Fatalf("SetStrategy: %v", err)
	}

	f, _ := field.New(5, 5)
	f.Fill(10.0)

	res, err := ctx.Calculate(f, Params{ZFactor: 2.0})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	vr, ok := res.(VolumeResult)
	if !ok {
		t.Fatalf("result type = %T, want VolumeResult", res)
	}
	if math.Abs(vr.Volume-500.0) > tol {
		t.Errorf("volume = %g, want 500", vr.Volume)
	}
	if vr.Units != "cubic_pixels" {
		t.Errorf("units = %q, want cubic_pixels", vr.Units)
	}
}

func TestGradientEndToEndOnTiledRamp(t *testing.T) {
	// Each row is linspace(0, 255, 10); rows are identical.
	f, _ := field.New(10, 10)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			f.Set(y, x, 255.0*float64(x)/9.0)
		}
	}

	ctx := NewAnalysisContext()
	if err := ctx.SetStrategy(StrategyGradient); err != nil {
		t.Fatalf("SetStrategy: %v", err)
	}
	res, err := ctx.Calculate(f, DefaultParams())
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	gr := res.(GradientResult)

	if gr.DzDx.Width != 10 || gr.DzDx.Height != 10 {
		t.Fatalf("dzdx shape = %dx%d, want 10x10", gr.DzDx.Width, gr.DzDx.Height)
	}
	for i, v := range gr.DzDy.Values {
		if math.Abs(v) > 1e-5 {
			t.Errorf("dzdy[%d] = %g, want ~0 for tiled ramp", i, v)
		}
	}
	meanAbs := 0.0
	for _, v := range gr.DzDx.Values {
		meanAbs += math.Abs(v)
	}
	meanAbs /= float64(len(gr.DzDx.Values))
	if meanAbs <= 0 {
		t.Errorf("mean |dzdx| = %g, want > 0", meanAbs)
	}
}

func TestStrategyShapeAndParameterErrors(t *testing.T) {
	ctx := NewAnalysisContext()

	if err := ctx.SetStrategy(StrategyGradient); err != nil {
		t.Fatalf("SetStrategy: %v", err)
	}
	if _, err := ctx.Calculate([]field.Point{{X: 0, Y: 0}}, DefaultParams()); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("gradient on points error = %v, want ErrInvalidShape", err)
	}

	if err := ctx.SetStrategy(StrategyVolume); err != nil {
		t.Fatalf("SetStrategy: %v", err)
	}
	f, _ := field.New(2, 2)
	if _, err := ctx.Calculate(f, Params{ZFactor: -1}); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("volume with z_factor<0 error = %v, want ErrInvalidParameter", err)
	}

	if err := ctx.SetStrategy(StrategyArcLength); err != nil {
		t.Fatalf("SetStrategy: %v", err)
	}
	if _, err := ctx.Calculate(f, DefaultParams()); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("arc length on field error = %v, want ErrInvalidShape", err)
	}
}
