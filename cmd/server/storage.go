package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/fiszki/internal/config"
	"github.com/phrazzld/fiszki/internal/platform/gcs"
	"github.com/phrazzld/fiszki/internal/platform/localfs"
	"github.com/phrazzld/fiszki/internal/platform/memblob"
	"github.com/phrazzld/fiszki/internal/platform/postgres"
	"github.com/phrazzld/fiszki/internal/store"
)

// storage is the opened blob backend and whatever must be closed with it.
type storage struct {
	blob  store.Blob
	close func() error
}

// openStorage opens the configured blob backend. The postgres backend is
// migrated before use.
func openStorage(ctx context.Context, cfg config.StorageConfig, log *slog.Logger) (*storage, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return &storage{blob: memblob.New(), close: noClose}, nil

	case config.BackendLocal:
		blob, err := localfs.New(cfg.LocalDir)
		if err != nil {
			return nil, err
		}
		return &storage{blob: blob, close: noClose}, nil

	case config.BackendGCS:
		blob, err := gcs.New(ctx, cfg.Bucket, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open bucket: %w", err)
		}
		return &storage{blob: blob, close: blob.Close}, nil

	case config.BackendPostgres:
		db, err := openDatabase(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db, log); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
		return &storage{blob: postgres.NewBlob(db, log), close: db.Close}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func openDatabase(ctx context.Context, cfg config.StorageConfig, log *slog.Logger) (*sql.DB, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := postgres.Open(connectCtx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established")
	return db, nil
}

// migrateDatabase applies the postgres migrations and closes the connection.
func migrateDatabase(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	db, err := openDatabase(ctx, cfg.Storage, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database connection", slog.String("error", err.Error()))
		}
	}()
	return postgres.Migrate(ctx, db, log)
}

func noClose() error { return nil }
