package api

import (
	"context"
	"net/http"
	"time"

	"github.com/phrazzld/fiszki/internal/api/shared"
	"github.com/phrazzld/fiszki/internal/config"
	"github.com/phrazzld/fiszki/internal/domain"
	"github.com/phrazzld/fiszki/internal/service/auth"
)

// UserService is what the auth handlers need from the account service.
type UserService interface {
	Register(ctx context.Context, login, password string) (*domain.User, error)
	Authenticate(ctx context.Context, login, password string) (*domain.User, error)
}

// AuthHandler handles registration and login.
type AuthHandler struct {
	users         UserService
	jwtService    auth.JWTService
	tokenLifetime time.Duration
	timeFunc      func() time.Time
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(users UserService, jwtService auth.JWTService, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{
		users:         users,
		jwtService:    jwtService,
		tokenLifetime: time.Duration(cfg.TokenLifetimeMinutes) * time.Minute,
		timeFunc:      time.Now,
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), req.Login, req.Password)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	h.respondWithToken(w, r, http.StatusCreated, user.Login)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Login, req.Password)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	h.respondWithToken(w, r, http.StatusOK, user.Login)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, r *http.Request, status int, login string) {
	issued := h.timeFunc()
	token, err := h.jwtService.GenerateToken(r.Context(), login)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}
	shared.RespondWithJSON(w, r, status, AuthResponse{
		Login:     login,
		Token:     token,
		ExpiresAt: issued.Add(h.tokenLifetime).UTC(),
	})
}
