// Package domain defines the core business entities and errors.
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

	// ErrNotOwner is returned when a user operates on a set they do not own.
	ErrNotOwner = errors.New("set is owned by another user")

	// ErrSetNotFound is returned when no set with the requested ID exists.
	ErrSetNotFound = errors.New("card set not found")

	// ErrCardIndex is returned when a card index is outside the set.
	ErrCardIndex = errors.New("card index out of range")

	// ErrNoCards is returned when a set has no cards to study.
	ErrNoCards = errors.New("set has no cards")

	// ErrNothingDue is returned when a review run finds no card needing review.
	ErrNothingDue = errors.New("no cards need review")

	// ErrInvalidCredentials is returned when a login/password pair does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrLoginTaken is returned when registering a login that already exists.
	ErrLoginTaken = errors.New("login already taken")
)

// ValidationError describes a caller-facing, recoverable validation failure
// on a single field. It wraps ErrValidation so callers can match it with errors.Is.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns ErrValidation or the more specific error it was built with.
func (e *ValidationError) Unwrap() error {
	if e.Err == nil {
		return ErrValidation
	}
	return e.Err
}

// Is reports ErrValidation for every ValidationError regardless of the wrapped error.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}
