package engine

import (
	"errors"
	"fmt"
)

// ValidationError reports a structurally invalid input value.
//
// Validation errors are always returned to the immediate caller and never
// corrected silently. Absent optional data is not a validation error; it
// resolves to a neutral default instead.
type ValidationError struct {
	// Code identifies the error category.
	Code ValidationErrorCode

	// Field names the offending input field.
	Field string

	// Message is a human-readable description.
	Message string
}

// ValidationErrorCode categorizes validation errors.
type ValidationErrorCode string

const (
	// ErrCodeInvalidCycle indicates cycle_days < 1.
	ErrCodeInvalidCycle ValidationErrorCode = "INVALID_CYCLE"

	// ErrCodeInvalidLifespan indicates an explicit designed lifespan <= 0.
	ErrCodeInvalidLifespan ValidationErrorCode = "INVALID_LIFESPAN"

	// ErrCodeInvalidHorizon indicates a projection horizon that is not after now.
	ErrCodeInvalidHorizon ValidationErrorCode = "INVALID_HORIZON"

	// ErrCodeInvalidWarningWindow indicates a negative warning_days.
	ErrCodeInvalidWarningWindow ValidationErrorCode = "INVALID_WARNING_WINDOW"
)

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field=%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsValidationError returns true if err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidationCode returns the code of a wrapped *ValidationError, or "" if
// err is not one.
func ValidationCode(err error) ValidationErrorCode {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}

func newValidationError(code ValidationErrorCode, field, format string, args ...any) *ValidationError {
	return &ValidationError{
		Code:    code,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}
