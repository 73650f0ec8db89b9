package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all blob backends.
var (
	// ErrNotFound is returned when the requested blob does not exist. Collection
	// callers treat it as an empty collection with NoVersion.
	ErrNotFound = errors.New("blob not found")

	// ErrVersionMismatch is returned by a Blob when a conditional write is
	// rejected because another writer committed first. VersionedStore retries
	// these and never returns them to its callers.
	ErrVersionMismatch = errors.New("blob version mismatch")

	// ErrConcurrencyConflict is returned when a conditional write is still
	// rejected after the retry budget is spent. Callers reload and reapply
	// their mutation or report the failure.
	ErrConcurrencyConflict = errors.New("concurrent modification conflict")

	// ErrStorageUnavailable is returned for transport and backend failures that
	// are not version conflicts.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrDecryption is returned when an encrypted payload cannot be opened,
	// for example with the wrong key or a corrupted ciphertext. It is never
	// treated as an empty collection.
	ErrDecryption = errors.New("payload decryption failed")

	// ErrCorruptPayload is returned when a payload is not valid JSON for the
	// collection it should hold.
	ErrCorruptPayload = errors.New("corrupt payload")
)

// IsConflict reports whether err is a version mismatch or an exhausted
// concurrency retry.
func IsConflict(err error) bool {
	return errors.Is(err, ErrVersionMismatch) || errors.Is(err, ErrConcurrencyConflict)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Blob      string // The blob name (e.g., "sets.json")
	Operation string // The operation that failed (e.g., "load", "save")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation on %s failed: %s: %v", e.Operation, e.Blob, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Blob, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given blob, operation, message, and wrapped error.
func NewStoreError(blob, operation, message string, err error) *StoreError {
	return &StoreError{
		Blob:      blob,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// Unavailable wraps a backend failure so that it matches ErrStorageUnavailable
// while keeping the original error in the chain.
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}
