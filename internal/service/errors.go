package service

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped by the API layer.
var (
	// ErrUnauthenticated indicates the operation needs a logged-in user. Maps to 401.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden indicates the user's designation or relation to the task
	// does not allow the operation. Maps to 403.
	ErrForbidden = errors.New("operation not permitted")
)

// TaskServiceError wraps unexpected failures with the operation that hit them.
type TaskServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
func NewTaskServiceError(operation, message string, err error) *TaskServiceError {
	return &TaskServiceError{Operation: operation, Message: message, Err: err}
}
