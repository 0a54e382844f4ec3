package service

import (
	"errors"
	"fmt"
)

// Common service errors. Callers check for them with errors.Is; the API
// layer maps them to HTTP status codes.
var (
	// ErrNoSession indicates that no study session has been started.
	ErrNoSession = errors.New("no active study session")

	// ErrInvalidSortKey indicates an unknown statistics sort column.
	ErrInvalidSortKey = errors.New("invalid sort key")
)

// ServiceError wraps an unexpected failure with the operation that caused it.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
