package calculus

import (
	"fmt"

	"github.com/topovision/topovision/internal/field"
)

// RiemannVolumeCalculator approximates the integral of a height field as
// a Riemann sum: each cell contributes value * scaleZ * dx * dy. The
// scale parameters are fixed at construction so a physically calibrated
// calculator can be shared across calls without hidden global state.
type RiemannVolumeCalculator struct {
	dx     float64
	dy     float64
	scaleZ float64
}

// NewRiemannVolumeCalculator returns a calculator with the given
// horizontal cell size and height scale. Both must be positive; pass
// 1.0, 1.0 for unit pixel volumes.
func NewRiemannVolumeCalculator(scaleXY, scaleZ float64) (*RiemannVolumeCalculator, error) {
	if scaleXY <= 0 {
		return nil, fmt.Errorf("%w: scaleXY must be positive, got %g", ErrInvalidParameter, scaleXY)
	}
	if scaleZ <= 0 {
		return nil, fmt.Errorf("%w: scaleZ must be positive, got %g", ErrInvalidParameter, scaleZ)
	}
	return &RiemannVolumeCalculator{dx: scaleXY, dy: scaleXY, scaleZ: scaleZ}, nil
}

// CalculateVolume integrates the field, optionally restricted to a
// region. The region is normalized and clipped to the field bounds
// first; an empty intersection integrates to exactly 0.
func (c *RiemannVolumeCalculator) CalculateVolume(f *field.Field, region *field.Region) (float64, error) {
	if err := checkField(f); err != nil {
		return 0, err
	}

	values := f
	if region != nil {
		clipped := region.ClipTo(f.Width, f.Height)
		if clipped.Empty() {
			return 0, nil
		}
		values = f.SubField(clipped)
	}

	return values.Sum() * c.scaleZ * c.dx * c.dy, nil
}
