package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/fiszki/internal/domain"
)

// ServiceError is a custom error type for unexpected failures inside a
// service operation, usually storage errors.
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

// expected lists the domain errors callers are meant to handle. They are
// returned unwrapped.
var expected = []error{
	domain.ErrValidation,
	domain.ErrSetNotFound,
	domain.ErrNotOwner,
	domain.ErrCardIndex,
	domain.ErrNoCards,
	domain.ErrNothingDue,
	domain.ErrInvalidCredentials,
	domain.ErrLoginTaken,
}

func isExpected(err error) bool {
	for _, target := range expected {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
