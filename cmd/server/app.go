package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/phrazzld/fiszki/internal/config"
	"github.com/phrazzld/fiszki/internal/domain"
	"github.com/phrazzld/fiszki/internal/domain/srs"
	"github.com/phrazzld/fiszki/internal/platform/sealer"
	"github.com/phrazzld/fiszki/internal/service"
	"github.com/phrazzld/fiszki/internal/service/auth"
	"github.com/phrazzld/fiszki/internal/store"
)

// Envelope keys of the two stored collections.
const (
	setsKey  = "sets"
	usersKey = "users"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	storage *storage
	store   *store.VersionedStore

	jwtService       auth.JWTService
	userService      *service.UserService
	setService       *service.SetService
	studyService     *service.StudyService
	quizService      *service.QuizService
	dashboardService *service.DashboardService
}

// newApplication opens storage and wires the services.
func newApplication(ctx context.Context, cfg *config.Config, log *slog.Logger) (*application, error) {
	st, err := openStorage(ctx, cfg.Storage, log)
	if err != nil {
		return nil, err
	}
	app, err := buildApplication(cfg, log, st, time.Now, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
	if err != nil {
		_ = st.close()
		return nil, err
	}
	return app, nil
}

// buildApplication wires the services over an opened blob backend.
func buildApplication(
	cfg *config.Config,
	log *slog.Logger,
	st *storage,
	now service.Clock,
	rng *rand.Rand,
) (*application, error) {
	app := &application{config: cfg, logger: log, storage: st}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	log.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	usersKeyring, err := sealer.FromBase64(cfg.Crypto.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize users encryption: %w", err)
	}

	scheduler, err := srs.NewDefaultService()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduling service: %w", err)
	}

	app.store = store.NewVersionedStore(st.blob, store.Options{
		MaxRetries:  cfg.Storage.MaxRetries,
		BackoffBase: time.Duration(cfg.Storage.BackoffBaseMS) * time.Millisecond,
	}, log)

	sets := store.NewCollection[domain.CardSet](app.store, cfg.Storage.SetsBlob, setsKey)
	users := store.NewCollection[domain.User](app.store, cfg.Storage.UsersBlob, usersKey,
		store.WithCodec[domain.User](usersKeyring),
		store.WithLegacyDecoder[domain.User](service.DecodeLegacyUsers),
	)

	random := service.NewRandom(rng)
	app.userService = service.NewUserService(users, auth.NewBcryptHasher(bcrypt.DefaultCost), now, log)
	app.setService = service.NewSetService(sets, scheduler, now, log)
	app.studyService = service.NewStudyService(app.setService, random)
	app.quizService = service.NewQuizService(app.setService, random, cfg.Study.DefaultTestQuestions)
	app.dashboardService = service.NewDashboardService(app.setService)

	log.Info("Application initialized successfully",
		slog.String("sets_blob", cfg.Storage.SetsBlob),
		slog.Bool("conditional_writes", app.store.MultiWriter()),
		slog.Int("max_retries", app.store.MaxRetries()))
	return app, nil
}

// Run serves HTTP until ctx is cancelled.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases the storage backend.
func (app *application) cleanup() {
	if app.storage != nil {
		if err := app.storage.close(); err != nil {
			app.logger.Error("Error closing storage", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("Application shutdown completed")
}
