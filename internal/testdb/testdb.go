// Package testdb provides helpers for tests that need a real postgres
// database. Tests skip when no database URL is configured.
package testdb

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/phrazzld/fiszki/internal/ciutil"
	"github.com/phrazzld/fiszki/internal/platform/logger"
	"github.com/phrazzld/fiszki/internal/platform/postgres"
)

// TestTimeout bounds connecting and migrating.
const TestTimeout = 10 * time.Second

// GetTestDatabaseURL returns DATABASE_URL, or FISZKI_TEST_DB_URL when the
// former is unset.
func GetTestDatabaseURL() string {
	return ciutil.GetEnvWithFallbacks(
		[]string{ciutil.EnvDatabaseURL, ciutil.EnvFiszkiTestDBURL}, "", nil)
}

// IsIntegrationTestEnvironment reports whether a test database is configured.
func IsIntegrationTestEnvironment() bool {
	return GetTestDatabaseURL() != ""
}

// Open connects to the test database and applies the migrations. Without a
// configured database the test is skipped, or fails in CI.
func Open(t *testing.T) *sql.DB {
	t.Helper()
	url := GetTestDatabaseURL()
	if url == "" {
		if ciutil.IsCI() {
			t.Fatal("DATABASE_URL or FISZKI_TEST_DB_URL must be set in CI")
		}
		t.Skip("DATABASE_URL or FISZKI_TEST_DB_URL must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, err := postgres.Open(ctx, url)
	require.NoError(t, err, "Failed to connect to test database")
	t.Cleanup(func() { _ = db.Close() })

	log, _ := logger.GetTestLogger(t)
	require.NoError(t, postgres.Migrate(ctx, db, log), "Failed to run migrations")
	return db
}

// WithTx runs fn inside a transaction that is always rolled back, so tests
// leave no rows behind.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "Failed to begin transaction")
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}
