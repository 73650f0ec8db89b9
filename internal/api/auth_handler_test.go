package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/fiszki/internal/api/shared"
	"github.com/phrazzld/fiszki/internal/config"
	"github.com/phrazzld/fiszki/internal/domain"
	"github.com/phrazzld/fiszki/internal/mocks"
	"github.com/phrazzld/fiszki/internal/platform/logger"
	"github.com/phrazzld/fiszki/internal/platform/memblob"
	"github.com/phrazzld/fiszki/internal/service"
	"github.com/phrazzld/fiszki/internal/store"
)

var testAuthConfig = config.AuthConfig{TokenLifetimeMinutes: 60}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestRegister(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		payload    map[string]any
		wantStatus int
		wantToken  bool
	}{
		{
			name:       "valid registration",
			payload:    map[string]any{"login": "alice", "password": "correct horse"},
			wantStatus: http.StatusCreated,
			wantToken:  true,
		},
		{
			name:       "password too short",
			payload:    map[string]any{"login": "bob", "password": "short"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "login too short",
			payload:    map[string]any{"login": "ab", "password": "correct horse"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing login",
			payload:    map[string]any{"password": "correct horse"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing password",
			payload:    map[string]any{"login": "carol"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			jwtService := &mocks.MockJWTService{Token: "test-token"}
			handler := NewAuthHandler(mocks.NewMockUserService(), jwtService, testAuthConfig)

			rec := postJSON(t, handler.Register, "/api/auth/register", tt.payload)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if !tt.wantToken {
				assert.Empty(t, jwtService.GeneratedFor)
				return
			}
			resp := decodeBody[AuthResponse](t, rec)
			assert.Equal(t, "alice", resp.Login)
			assert.Equal(t, "test-token", resp.Token)
			assert.WithinDuration(t, time.Now().Add(time.Hour), resp.ExpiresAt, time.Minute)
		})
	}
}

func TestRegister_LoginTaken(t *testing.T) {
	t.Parallel()
	users := mocks.NewMockUserService()
	handler := NewAuthHandler(users, &mocks.MockJWTService{Token: "t"}, testAuthConfig)
	payload := RegisterRequest{Login: "alice", Password: "correct horse"}

	require.Equal(t, http.StatusCreated, postJSON(t, handler.Register, "/api/auth/register", payload).Code)
	rec := postJSON(t, handler.Register, "/api/auth/register", payload)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Login already taken", decodeBody[shared.ErrorResponse](t, rec).Error)
}

func TestLogin(t *testing.T) {
	t.Parallel()
	users := mocks.NewMockUserService()
	_, err := users.Register(context.Background(), "alice", "correct horse")
	require.NoError(t, err)
	handler := NewAuthHandler(users, &mocks.MockJWTService{Token: "login-token"}, testAuthConfig)

	t.Run("valid credentials", func(t *testing.T) {
		rec := postJSON(t, handler.Login, "/api/auth/login", LoginRequest{Login: "alice", Password: "correct horse"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "login-token", decodeBody[AuthResponse](t, rec).Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := postJSON(t, handler.Login, "/api/auth/login", LoginRequest{Login: "alice", Password: "battery staple"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid login or password", decodeBody[shared.ErrorResponse](t, rec).Error)
	})

	t.Run("unknown login gets the same answer", func(t *testing.T) {
		rec := postJSON(t, handler.Login, "/api/auth/login", LoginRequest{Login: "mallory", Password: "correct horse"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid login or password", decodeBody[shared.ErrorResponse](t, rec).Error)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(`{"login":`))
		rec := httptest.NewRecorder()
		handler.Login(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLogin_TokenGenerationFailure(t *testing.T) {
	t.Parallel()
	users := mocks.NewMockUserService()
	_, err := users.Register(context.Background(), "alice", "correct horse")
	require.NoError(t, err)
	jwtService := &mocks.MockJWTService{Err: errors.New("signing key unavailable")}
	handler := NewAuthHandler(users, jwtService, testAuthConfig)

	rec := postJSON(t, handler.Login, "/api/auth/login", LoginRequest{Login: "alice", Password: "correct horse"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "signing key")
}

func TestAuthHandler_WithUserService(t *testing.T) {
	t.Parallel()
	log, _ := logger.GetTestLogger(t)
	vs := store.NewVersionedStore(memblob.New(), store.Options{MaxRetries: 3, BackoffBase: time.Millisecond}, log)
	users := service.NewUserService(
		store.NewCollection[domain.User](vs, "users.json", "users"),
		&mocks.MockPasswordHasher{},
		func() time.Time { return fixedNow },
		log,
	)
	handler := NewAuthHandler(users, &mocks.MockJWTService{Token: "t"}, testAuthConfig)

	rec := postJSON(t, handler.Register, "/api/auth/register", RegisterRequest{Login: "alice", Password: "correct horse"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = postJSON(t, handler.Login, "/api/auth/login", LoginRequest{Login: "alice", Password: "correct horse"})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = postJSON(t, handler.Login, "/api/auth/login", LoginRequest{Login: "alice", Password: "wrong password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
