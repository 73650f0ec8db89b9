package mocks

import (
	"strings"

	"github.com/phrazzld/fiszki/internal/service/auth"
)

// MockPasswordHasher implements auth.PasswordHasher with a reversible
// "hashed:" prefix so tests run without bcrypt's cost.
type MockPasswordHasher struct {
	HashErr error

	// CompareCallCount tracks how many times Compare was called.
	CompareCallCount int
}

// Hash implements auth.PasswordHasher.
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashErr != nil {
		return "", m.HashErr
	}
	return "hashed:" + password, nil
}

// Compare implements auth.PasswordHasher.
func (m *MockPasswordHasher) Compare(hash, password string) error {
	m.CompareCallCount++
	if stored, ok := strings.CutPrefix(hash, "hashed:"); ok && stored == password {
		return nil
	}
	return auth.ErrPasswordMismatch
}
