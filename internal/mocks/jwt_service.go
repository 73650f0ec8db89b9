package mocks

import (
	"context"

	"github.com/phrazzld/fiszki/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing.
type MockJWTService struct {
	GenerateTokenFn func(ctx context.Context, login string) (string, error)
	ValidateTokenFn func(ctx context.Context, token string) (*auth.Claims, error)

	// Defaults used when the function fields are nil.
	Token       string
	Err         error
	ValidateErr error
	Claims      *auth.Claims

	// GeneratedFor records the logins tokens were issued for.
	GeneratedFor []string
}

// GenerateToken implements auth.JWTService.
func (m *MockJWTService) GenerateToken(ctx context.Context, login string) (string, error) {
	m.GeneratedFor = append(m.GeneratedFor, login)
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, login)
	}
	return m.Token, m.Err
}

// ValidateToken implements auth.JWTService.
func (m *MockJWTService) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, token)
	}
	return m.Claims, m.ValidateErr
}

// ClaimsFor returns a ValidateTokenFn accepting exactly token for login.
func ClaimsFor(token, login string) func(ctx context.Context, got string) (*auth.Claims, error) {
	return func(_ context.Context, got string) (*auth.Claims, error) {
		if got != token {
			return nil, auth.ErrInvalidToken
		}
		return &auth.Claims{Login: login}, nil
	}
}
