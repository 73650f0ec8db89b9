package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/phrazzld/fiszki/internal/domain"
)

// MockUserService is an in-memory account service for handler tests.
type MockUserService struct {
	RegisterFn     func(ctx context.Context, login, password string) (*domain.User, error)
	AuthenticateFn func(ctx context.Context, login, password string) (*domain.User, error)

	mu        sync.Mutex
	passwords map[string]string
}

// NewMockUserService creates an empty MockUserService.
func NewMockUserService() *MockUserService {
	return &MockUserService{passwords: make(map[string]string)}
}

// Register stores the login, failing with domain.ErrLoginTaken for duplicates.
func (m *MockUserService) Register(ctx context.Context, login, password string) (*domain.User, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, login, password)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.passwords[login]; ok {
		return nil, domain.ErrLoginTaken
	}
	m.passwords[login] = password
	return &domain.User{Login: login, CreatedAt: time.Now().UTC()}, nil
}

// Authenticate accepts registered logins with their password.
func (m *MockUserService) Authenticate(ctx context.Context, login, password string) (*domain.User, error) {
	if m.AuthenticateFn != nil {
		return m.AuthenticateFn(ctx, login, password)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if stored, ok := m.passwords[login]; !ok || stored != password {
		return nil, domain.ErrInvalidCredentials
	}
	return &domain.User{Login: login}, nil
}
