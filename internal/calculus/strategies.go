package calculus

import (
	"fmt"

	"github.com/topovision/topovision/internal/field"
)

// Params carries the scalar parameters a strategy may consume. Each
// strategy reads the parameters it understands and ignores the rest, so
// callers can pass the same Params to any strategy.
type Params struct {
	// ZFactor scales heights before volume integration. Must be positive.
	ZFactor float64 `json:"z_factor"`

	// StepSize is the grid spacing for finite differences.
	StepSize float64 `json:"step_size"`
}

// DefaultParams returns unit scaling: z_factor 1.0, step size 1 pixel.
func DefaultParams() Params {
	return Params{ZFactor: 1.0, StepSize: 1.0}
}

// Strategy is one interchangeable topographic calculation. Analyze never
// mutates data and returns either a tagged Result or an error from the
// taxonomy in errors.go.
type Strategy interface {
	Name() string
	Analyze(data any, p Params) (Result, error)
}

// GradientStrategy computes the rate of change of a height field. The
// result magnitude indicates the steepness of the surface at each cell.
type GradientStrategy struct{}

// Name implements Strategy.
func (GradientStrategy) Name() string { return StrategyGradient }

// Analyze implements Strategy. data must be a *field.Field.
func (GradientStrategy) Analyze(data any, p Params) (Result, error) {
	z, ok := data.(*field.Field)
	if !ok {
		return nil, fmt.Errorf("%w: gradient strategy expects a 2D field, got %T", ErrInvalidShape, data)
	}
	h := p.StepSize
	if h == 0 {
		h = 1.0
	}
	dzdx, dzdy, magnitude, _, err := ComputeGradient(z, h)
	if err != nil {
		return nil, err
	}
	return GradientResult{DzDx: dzdx, DzDy: dzdy, Magnitude: magnitude}, nil
}

// VolumeInput pairs a height field with an optional region restriction.
// The region is clipped inside the calculator, so an empty intersection
// integrates to exactly 0 rather than falling back to the whole field.
type VolumeInput struct {
	Field  *field.Field
	Region *field.Region
}

// VolumeStrategy approximates the volume under a height surface via a
// scaled Riemann sum with unit pixel area. Physically calibrated volumes
// go through RiemannVolumeCalculator directly.
type VolumeStrategy struct{}

// Name implements Strategy.
func (VolumeStrategy) Name() string { return StrategyVolume }

// Analyze implements Strategy. data is either a *field.Field (whole
// surface) or a VolumeInput restricting integration to a region;
// p.ZFactor must be positive (a zero value means the caller skipped
// DefaultParams and is rejected rather than silently treated as 1.0).
func (VolumeStrategy) Analyze(data any, p Params) (Result, error) {
	var z *field.Field
	var region *field.Region
	switch v := data.(type) {
	case *field.Field:
		z = v
	case VolumeInput:
		z = v.Field
		region = v.Region
	default:
		return nil, fmt.Errorf("%w: volume strategy expects a 2D field, got %T", ErrInvalidShape, data)
	}
	if p.ZFactor <= 0 {
		return nil, fmt.Errorf("%w: z_factor must be positive, got %g", ErrInvalidParameter, p.ZFactor)
	}
	calc, err := NewRiemannVolumeCalculator(1.0, p.ZFactor)
	if err != nil {
		return nil, err
	}
	volume, err := calc.CalculateVolume(z, region)
	if err != nil {
		return nil, err
	}
	return VolumeResult{Volume: volume, Units: "cubic_pixels"}, nil
}

// ArcLengthStrategy measures the length of an ordered polyline.
type ArcLengthStrategy struct{}

// Name implements Strategy.
func (ArcLengthStrategy) Name() string { return StrategyArcLength }

// Analyze implements Strategy. data is either a []field.Point or an Nx2
// [][]float64 coordinate array.
func (ArcLengthStrategy) Analyze(data any, p Params) (Result, error) {
	var points []field.Point
	switch v := data.(type) {
	case []field.Point:
		points = v
	case [][]float64:
		converted, err := PointsFromPairs(v)
		if err != nil {
			return nil, err
		}
		points = converted
	default:
		return nil, fmt.Errorf("%w: arc length strategy expects a point sequence, got %T", ErrInvalidShape, data)
	}
	return ArcLengthResult{Length: ArcLength(points), Points: points}, nil
}
