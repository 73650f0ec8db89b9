package memblob

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/fiszki/internal/store"
)

func TestConditionalWrites(t *testing.T) {
	t.Parallel()
	b := New()
	ctx := context.Background()

	_, _, err := b.Read(ctx, "x")
	assert.ErrorIs(t, err, store.ErrNotFound)

	v1, err := b.Write(ctx, "x", []byte("1"), store.NoVersion)
	require.NoError(t, err)

	_, err = b.Write(ctx, "x", []byte("2"), store.NoVersion)
	assert.ErrorIs(t, err, store.ErrVersionMismatch, "create-only write on existing blob")

	v2, err := b.Write(ctx, "x", []byte("2"), v1)
	require.NoError(t, err)
	assert.Greater(t, v2, v1)

	_, err = b.Write(ctx, "x", []byte("3"), v1)
	assert.ErrorIs(t, err, store.ErrVersionMismatch)

	_, err = b.Write(ctx, "y", []byte("1"), v2)
	assert.ErrorIs(t, err, store.ErrVersionMismatch, "expected version on a missing blob")

	data, v, err := b.Read(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "2", string(data))
	assert.Equal(t, v2, v)
	assert.Equal(t, 4, b.Writes("x"))
}

func TestSingleWriter(t *testing.T) {
	t.Parallel()
	b := NewSingleWriter()
	ctx := context.Background()

	v, err := b.Write(ctx, "x", []byte("1"), store.Version(7))
	require.NoError(t, err)
	assert.Equal(t, store.NoVersion, v)

	_, v, err = b.Read(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, store.NoVersion, v)
	assert.False(t, b.Conditional())
}

func TestCancelledContext(t *testing.T) {
	t.Parallel()
	b := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Write(ctx, "x", nil, store.NoVersion)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, b.Writes("x"))
}
