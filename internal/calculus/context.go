package calculus

import "fmt"

// strategyRegistry maps strategy names to their calculators. Lookup miss
// is the invalid-strategy check; there is no fallback default.
var strategyRegistry = map[string]Strategy{
	StrategyGradient:  GradientStrategy{},
	StrategyVolume:    VolumeStrategy{},
	StrategyArcLength: ArcLengthStrategy{},
}

// StrategyNames returns the accepted strategy names in a fixed order.
func StrategyNames() []string {
	return []string{StrategyGradient, StrategyVolume, StrategyArcLength}
}

// AnalysisContext selects one Strategy by name and delegates calculation
// calls to it. It holds no result cache and performs no numeric work
// itself; every Calculate recomputes from scratch.
//
// The zero value has no strategy selected. AnalysisContext is not safe
// for concurrent use; the analysis worker owns one per goroutine.
type AnalysisContext struct {
	strategy Strategy
}

// NewAnalysisContext returns a context with no strategy selected.
func NewAnalysisContext() *AnalysisContext {
	return &AnalysisContext{}
}

// SetStrategy selects the calculator for name. An unrecognized name
// (including the empty string) returns ErrInvalidStrategy and leaves any
// previously selected strategy active.
func (c *AnalysisContext) SetStrategy(name string) error {
	s, ok := strategyRegistry[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidStrategy, name)
	}
	c.strategy = s
	return nil
}

// Strategy returns the currently selected strategy, or nil.
func (c *AnalysisContext) Strategy() Strategy {
	return c.strategy
}

// Calculate delegates to the selected strategy, passing data and params
// through unmodified. Calling before SetStrategy returns ErrNoStrategy.
func (c *AnalysisContext) Calculate(data any, p Params) (Result, error) {
	if c.strategy == nil {
		return nil, ErrNoStrategy
	}
	return c.strategy.Analyze(data, p)
}
