// Package calculus owns the numerical analysis engine.
//
// Responsibilities: finite-difference gradients, Riemann-sum volume
// integration, polyline arc length, and the named-strategy dispatcher
// that fronts them. Calculators are stateless per call and never mutate
// their input field.
//
// Dependency rule: calculus may depend on field, but never on capture,
// analysis, store or any HTTP code.
package calculus
