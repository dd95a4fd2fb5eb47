package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for request validation at the service boundary. The
// normalization core itself never errors: missing or malformed record data
// resolves to "not available" values instead.
var (
	ErrNoBaseRecord       = errors.New("base record is required")
	ErrNoCompetitors      = errors.New("at least one competitor record is required")
	ErrTooManyCompetitors = errors.New("too many competitor records")
	ErrUnknownMode        = errors.New("unknown comparison mode")
)

// MaxCompetitors caps a single comparison request.
const MaxCompetitors = 12

// ValidationError wraps a sentinel with the offending field and value.
type ValidationError struct {
	Field   string
	Value   string
	Wrapped error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s (value=%q)", e.Wrapped, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Wrapped }

// NewValidationError creates a ValidationError.
func NewValidationError(field, value string, wrapped error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Wrapped: wrapped}
}

// ValidateComparison checks a comparison request's shape before the engine
// runs. Record contents are not validated: any field may be absent.
func ValidateComparison(base Record, competitors []Record) error {
	if len(base) == 0 {
		return NewValidationError("base", "", ErrNoBaseRecord)
	}
	if len(competitors) == 0 {
		return NewValidationError("competitors", "", ErrNoCompetitors)
	}
	if len(competitors) > MaxCompetitors {
		return NewValidationError("competitors", fmt.Sprintf("%d", len(competitors)), ErrTooManyCompetitors)
	}
	return nil
}
