package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/phrazzld/fiszki/internal/store"
)

// PostgreSQL error codes
const (
	// uniqueViolationCode is raised when two instances create the same blob at once
	uniqueViolationCode = "23505"

	// serializationFailureCode is raised when concurrent transactions conflict
	serializationFailureCode = "40001"
)

// MapError maps a database error onto the store error kinds. The original
// error stays in the chain for logging.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode, serializationFailureCode:
			return fmt.Errorf("%w: %w", store.ErrVersionMismatch, err)
		}
	}
	return store.Unavailable(err)
}
