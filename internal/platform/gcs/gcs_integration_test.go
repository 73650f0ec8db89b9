//go:build integration

package gcs

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/fiszki/internal/store"
)

// Requires STORAGE_EMULATOR_HOST (for example fake-gcs-server) and
// FISZKI_TEST_BUCKET naming an existing bucket.
func TestBlobAgainstEmulator(t *testing.T) {
	bucket := os.Getenv("FISZKI_TEST_BUCKET")
	if os.Getenv("STORAGE_EMULATOR_HOST") == "" || bucket == "" {
		t.Skip("STORAGE_EMULATOR_HOST and FISZKI_TEST_BUCKET must be set")
	}

	ctx := context.Background()
	b, err := New(ctx, bucket, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	name := fmt.Sprintf("test-%d.json", time.Now().UnixNano())

	v1, err := b.Write(ctx, name, []byte(`{"sets":[]}`), store.NoVersion)
	require.NoError(t, err)

	_, err = b.Write(ctx, name, []byte(`{}`), store.NoVersion)
	assert.ErrorIs(t, err, store.ErrVersionMismatch)

	v2, err := b.Write(ctx, name, []byte(`{"sets":[1]}`), v1)
	require.NoError(t, err)
	assert.Greater(t, v2, v1)

	_, err = b.Write(ctx, name, []byte(`{}`), v1)
	assert.ErrorIs(t, err, store.ErrVersionMismatch)

	data, v, err := b.Read(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, v2, v)
	assert.JSONEq(t, `{"sets":[1]}`, string(data))

	_, _, err = b.Read(ctx, name+".missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
