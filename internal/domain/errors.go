package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidFormat is returned when data is not in the expected format.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidDesignation is returned for a designation outside Admin, Manager, Employee.
	ErrInvalidDesignation = errors.New("invalid designation")

	// ErrInvalidDepartment is returned for a department outside the catalogue.
	ErrInvalidDepartment = errors.New("invalid department")

	// ErrInvalidTaskStatus is returned for a status outside In-Progress, Complete.
	ErrInvalidTaskStatus = errors.New("invalid task status")

	// ErrInvalidDueDate is returned when a due date is not an ISO-8601 date or datetime.
	ErrInvalidDueDate = errors.New("invalid due date")

	// ErrInvalidViewFilter is returned for an unknown listing filter.
	ErrInvalidViewFilter = errors.New("invalid view filter")
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is lets every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
