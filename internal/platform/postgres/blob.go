package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/fiszki/internal/platform/logger"
	"github.com/phrazzld/fiszki/internal/store"
)

const (
	selectBlobQuery = `SELECT payload, version FROM blobs WHERE name = $1`

	insertBlobQuery = `
		INSERT INTO blobs (name, payload, version, updated_at)
		VALUES ($1, $2, 1, now())
		ON CONFLICT (name) DO NOTHING
		RETURNING version`

	updateBlobQuery = `
		UPDATE blobs
		SET payload = $2, version = version + 1, updated_at = now()
		WHERE name = $1 AND version = $3
		RETURNING version`
)

// DBTX is the subset of *sql.DB and *sql.Tx the blob queries need.
type DBTX interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Blob is a store.Blob backed by the blobs table.
type Blob struct {
	db     DBTX
	logger *slog.Logger
}

// NewBlob creates a Blob over an open database or transaction. The schema
// must already be migrated.
func NewBlob(db DBTX, log *slog.Logger) *Blob {
	if log == nil {
		log = slog.Default()
	}
	return &Blob{
		db:     db,
		logger: log.With(slog.String("component", "postgres_blob")),
	}
}

// Conditional implements store.Blob.
func (b *Blob) Conditional() bool {
	return true
}

// Read implements store.Blob.
func (b *Blob) Read(ctx context.Context, name string) ([]byte, store.Version, error) {
	var (
		payload []byte
		version int64
	)
	err := b.db.QueryRowContext(ctx, selectBlobQuery, name).Scan(&payload, &version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.NoVersion, store.ErrNotFound
		}
		logger.FromContextOrDefault(ctx, b.logger).Error("failed to read blob",
			slog.String("blob", name),
			slog.String("error", err.Error()))
		return nil, store.NoVersion, MapError(err)
	}
	return payload, store.Version(version), nil
}

// Write implements store.Blob. NoVersion inserts a new row and fails when
// one exists; any other version must match the stored one.
func (b *Blob) Write(ctx context.Context, name string, data []byte, expected store.Version) (store.Version, error) {
	var (
		version int64
		err     error
	)
	if expected == store.NoVersion {
		err = b.db.QueryRowContext(ctx, insertBlobQuery, name, data).Scan(&version)
	} else {
		err = b.db.QueryRowContext(ctx, updateBlobQuery, name, data, int64(expected)).Scan(&version)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return store.NoVersion, store.ErrVersionMismatch
	}
	if err != nil {
		return store.NoVersion, MapError(err)
	}

	logger.FromContextOrDefault(ctx, b.logger).Debug("blob written",
		slog.String("blob", name),
		slog.Int64("version", version))
	return store.Version(version), nil
}
