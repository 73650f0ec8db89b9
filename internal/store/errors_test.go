package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsConflict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("some error"), false},
		{"version mismatch", ErrVersionMismatch, true},
		{"wrapped conflict", NewStoreError("sets.json", "save", "retries exhausted", ErrConcurrencyConflict), true},
		{"unavailable", Unavailable(errors.New("dial tcp")), false},
		{"not found", fmt.Errorf("load: %w", ErrNotFound), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsConflict(tt.err))
		})
	}
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	originalErr := errors.New("bucket unreachable")
	storeErr := NewStoreError("sets.json", "save", "write failed", originalErr)

	assert.Equal(t, "save operation on sets.json failed: write failed: bucket unreachable", storeErr.Error())
	assert.ErrorIs(t, storeErr, originalErr)

	bare := NewStoreError("users.json", "load", "blob does not exist", nil)
	assert.Equal(t, "load operation on users.json failed: blob does not exist", bare.Error())

	var target *StoreError
	assert.True(t, errors.As(fmt.Errorf("outer: %w", storeErr), &target))
	assert.Equal(t, "save", target.Operation)
}

func TestUnavailable(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := Unavailable(cause)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.NoError(t, Unavailable(nil))
}

func TestVersionString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "none", NoVersion.String())
	assert.Equal(t, "42", Version(42).String())
}
