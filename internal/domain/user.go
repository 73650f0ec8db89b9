package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	minLoginLength    = 3
	maxLoginLength    = 64
	minPasswordLength = 8
	// bcrypt ignores input beyond 72 bytes
	maxPasswordLength = 72
)

// User is a registered account. Users are persisted in the encrypted users blob.
type User struct {
	Login        string    `json:"login"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ValidateCredentials checks a login/password pair supplied at registration.
func ValidateCredentials(login, password string) error {
	login = strings.TrimSpace(login)
	if login == "" {
		return NewValidationError("login", "is required", nil)
	}
	if n := utf8.RuneCountInString(login); n < minLoginLength || n > maxLoginLength {
		return NewValidationError("login", "must be between 3 and 64 characters", nil)
	}
	if password == "" {
		return NewValidationError("password", "is required", nil)
	}
	if len(password) < minPasswordLength {
		return NewValidationError("password", "must be at least 8 characters long", nil)
	}
	if len(password) > maxPasswordLength {
		return NewValidationError("password", "must be at most 72 bytes long", nil)
	}
	return nil
}

// FindUser returns the index of the user with the given login, or -1.
func FindUser(users []User, login string) int {
	for i := range users {
		if users[i].Login == login {
			return i
		}
	}
	return -1
}
