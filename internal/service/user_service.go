package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/phrazzld/fiszki/internal/domain"
	"github.com/phrazzld/fiszki/internal/platform/logger"
	"github.com/phrazzld/fiszki/internal/service/auth"
)

// UserService registers and authenticates accounts stored in the users blob.
type UserService struct {
	users  Collection[domain.User]
	hasher auth.PasswordHasher
	now    Clock
	logger *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(
	users Collection[domain.User],
	hasher auth.PasswordHasher,
	now Clock,
	log *slog.Logger,
) *UserService {
	if log == nil {
		log = slog.Default()
	}
	return &UserService{
		users:  users,
		hasher: hasher,
		now:    now,
		logger: log.With(slog.String("component", "user_service")),
	}
}

// Register creates an account. It returns domain.ErrLoginTaken when the
// login exists already.
func (s *UserService) Register(ctx context.Context, login, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	login = strings.TrimSpace(login)
	if err := domain.ValidateCredentials(login, password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, NewServiceError("register", "failed to hash password", err)
	}
	user := domain.User{Login: login, PasswordHash: hash, CreatedAt: s.now().UTC()}

	_, _, err = s.users.Update(ctx, func(users []domain.User) ([]domain.User, error) {
		if domain.FindUser(users, login) >= 0 {
			return nil, domain.ErrLoginTaken
		}
		return append(users, user), nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrLoginTaken) {
			log.Debug("login already taken", slog.String("login", login))
			return nil, err
		}
		log.Error("failed to save user", slog.String("login", login), slog.String("error", err.Error()))
		return nil, NewServiceError("register", "failed to save user", err)
	}

	log.Info("user registered", slog.String("login", login))
	return &user, nil
}

// Authenticate checks a login and password. Unknown logins and wrong
// passwords both return domain.ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, login, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	login = strings.TrimSpace(login)

	users, _, err := s.users.Load(ctx)
	if err != nil {
		log.Error("failed to load users", slog.String("error", err.Error()))
		return nil, NewServiceError("authenticate", "failed to load users", err)
	}

	i := domain.FindUser(users, login)
	if i < 0 {
		log.Debug("authentication failed: unknown login", slog.String("login", login))
		return nil, domain.ErrInvalidCredentials
	}
	if err := s.hasher.Compare(users[i].PasswordHash, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			log.Warn("stored password hash is unusable", slog.String("login", login), slog.String("error", err.Error()))
		}
		return nil, domain.ErrInvalidCredentials
	}
	return &users[i], nil
}

// legacyUser is one entry of the login-keyed users layout.
type legacyUser struct {
	Hash      string `json:"haslo"`
	Password  string `json:"password"`
	CreatedAt string `json:"data_utworzenia"`
}

// DecodeLegacyUsers reads the older users layout keyed by login,
// {"<login>": {"haslo": ..., "data_utworzenia": ...}}. It reports false for
// anything else.
func DecodeLegacyUsers(raw json.RawMessage) ([]domain.User, bool) {
	var byLogin map[string]legacyUser
	if err := json.Unmarshal(raw, &byLogin); err != nil || len(byLogin) == 0 {
		return nil, false
	}
	users := make([]domain.User, 0, len(byLogin))
	for login, info := range byLogin {
		hash := info.Hash
		if hash == "" {
			hash = info.Password
		}
		if hash == "" {
			return nil, false
		}
		u := domain.User{Login: login, PasswordHash: hash}
		if t, err := time.Parse(time.RFC3339Nano, info.CreatedAt); err == nil {
			u.CreatedAt = t.UTC()
		}
		users = append(users, u)
	}
	slices.SortFunc(users, func(a, b domain.User) int { return strings.Compare(a.Login, b.Login) })
	return users, true
}
