package network

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Callers match them with errors.Is.
var (
	ErrValidation     = errors.New("invalid pass event")
	ErrEmptyInput     = errors.New("empty input")
	ErrDivisionByZero = errors.New("division by zero")
	ErrInvalidConfig  = errors.New("invalid network config")
)

// ValidationError reports the first malformed event found in the input.
type ValidationError struct {
	Index  int // position in the input slice
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("pass %d: %s %s", e.Index, e.Field, e.Reason)
}

// Unwrap lets errors.Is(err, ErrValidation) succeed.
func (e *ValidationError) Unwrap() error { return ErrValidation }
