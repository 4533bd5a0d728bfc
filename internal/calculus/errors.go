package calculus

import "errors"

// ErrInvalidShape reports input data with the wrong rank or column count
// for the selected calculator.
var ErrInvalidShape = errors.New("invalid input shape")

// ErrInvalidParameter reports a calculation parameter outside its domain.
var ErrInvalidParameter = errors.New("invalid parameter")

// ErrInvalidStrategy reports an unrecognized strategy name.
var ErrInvalidStrategy = errors.New("invalid strategy")

// ErrNoStrategy reports a calculation requested before any strategy was
// selected.
var ErrNoStrategy = errors.New("no strategy selected")
