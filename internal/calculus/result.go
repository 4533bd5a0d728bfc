package calculus

import "github.com/topovision/topovision/internal/field"

// Strategy name constants. These are the only values SetStrategy accepts.
const (
	StrategyGradient  = "gradient"
	StrategyVolume    = "volume"
	StrategyArcLength = "arc_length"
)

// Result is a calculation outcome tagged by the strategy that produced
// it. The visualization layer switches on Method to decide rendering.
type Result interface {
	Method() string
}

// GradientResult carries the partial derivatives and magnitude of a
// field gradient. All three fields share the input shape.
type GradientResult struct {
	DzDx      *field.Field `json:"-"`
	DzDy      *field.Field `json:"-"`
	Magnitude *field.Field `json:"-"`
}

// Method implements Result.
func (GradientResult) Method() string { return StrategyGradient }

// VolumeResult carries a Riemann-sum volume and its unit label.
type VolumeResult struct {
	Volume float64 `json:"volume"`
	Units  string  `json:"units"`
}

// Method implements Result.
func (VolumeResult) Method() string { return StrategyVolume }

// ArcLengthResult carries a polyline length together with the point
// sequence it was computed from.
type ArcLengthResult struct {
	Length float64       `json:"length"`
	Points []field.Point `json:"points"`
}

// Method implements Result.
func (ArcLengthResult) Method() string { return StrategyArcLength }
