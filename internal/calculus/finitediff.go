package calculus

import (
	"fmt"

	"github.com/topovision/topovision/internal/field"
)

// DiffX computes dz/dx over a field using centered differences on
// interior columns and one-sided differences on the two boundary
// columns. h is the grid spacing and must be positive.
//
// A field one column wide has no x direction to differentiate; the
// result is all zeros rather than an error.
func DiffX(z *field.Field, h float64) (*field.Field, error) {
	if err := checkField(z); err != nil {
		return nil, err
	}
	if h <= 0 {
		return nil, fmt.Errorf("%w: step size must be positive, got %g", ErrInvalidParameter, h)
	}

	out, _ := field.New(z.Width, z.Height)
	if z.Width == 1 {
		return out, nil
	}

	for y := 0; y < z.Height; y++ {
		out.Set(y, 0, (z.At(y, 1)-z.At(y, 0))/h)
		for x := 1; x < z.Width-1; x++ {
			out.Set(y, x, (z.At(y, x+1)-z.At(y, x-1))/(2*h))
		}
		out.Set(y, z.Width-1, (z.At(y, z.Width-1)-z.At(y, z.Width-2))/h)
	}
	return out, nil
}

// DiffY computes dz/dy with the same boundary policy as DiffX applied to
// rows. A field one row tall yields an all-zero derivative.
func DiffY(z *field.Field, h float64) (*field.Field, error) {
	if err := checkField(z); err != nil {
		return nil, err
	}
	if h <= 0 {
		return nil, fmt.Errorf("%w: step size must be positive, got %g", ErrInvalidParameter, h)
	}

	out, _ := field.New(z.Width, z.Height)
	if z.Height == 1 {
		return out, nil
	}

	for x := 0; x < z.Width; x++ {
		out.Set(0, x, (z.At(1, x)-z.At(0, x))/h)
		for y := 1; y < z.Height-1; y++ {
			out.Set(y, x, (z.At(y+1, x)-z.At(y-1, x))/(2*h))
		}
		out.Set(z.Height-1, x, (z.At(z.Height-1, x)-z.At(z.Height-2, x))/h)
	}
	return out, nil
}

func checkField(z *field.Field) error {
	if z == nil || z.Width <= 0 || z.Height <= 0 || len(z.Values) != z.Width*z.Height {
		return fmt.Errorf("%w: expected a non-empty 2D field", ErrInvalidShape)
	}
	return nil
}
