package calculus

import (
	"math"

	"github.com/topovision/topovision/internal/field"
)

// ComputeGradient returns the partial derivatives of z along with the
// elementwise gradient magnitude and direction. h is the grid spacing.
// All four outputs share the shape of z.
//
// Accumulation is float64 throughout, so 8-bit intensity input cannot
// wrap around.
func ComputeGradient(z *field.Field, h float64) (dzdx, dzdy, magnitude, direction *field.Field, err error) {
	dzdx, err = DiffX(z, h)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	dzdy, err = DiffY(z, h)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	magnitude, _ = field.New(z.Width, z.Height)
	direction, _ = field.New(z.Width, z.Height)
	for i := range magnitude.Values {
		magnitude.Values[i] = math.Hypot(dzdx.Values[i], dzdy.Values[i])
		direction.Values[i] = math.Atan2(dzdy.Values[i], dzdx.Values[i])
	}
	return dzdx, dzdy, magnitude, direction, nil
}
