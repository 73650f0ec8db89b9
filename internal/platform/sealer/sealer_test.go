package sealer

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/fiszki/internal/store"
)

func key(b byte) []byte {
	return bytes.Repeat([]byte{b}, 32)
}

func TestSealOpen(t *testing.T) {
	t.Parallel()

	s, err := New(key(1))
	require.NoError(t, err)

	plain := []byte(`{"users":[]}`)
	sealed, err := s.Seal(plain)
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "users")

	again, err := s.Seal(plain)
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonce must differ per seal")

	opened, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, plain, opened)
}

func TestOpenFailures(t *testing.T) {
	t.Parallel()

	s, err := New(key(1))
	require.NoError(t, err)
	other, err := New(key(2))
	require.NoError(t, err)

	sealed, err := s.Seal([]byte("secret"))
	require.NoError(t, err)

	_, err = other.Open(sealed)
	assert.ErrorIs(t, err, store.ErrDecryption, "wrong key")

	tampered := bytes.Clone(sealed)
	tampered[len(tampered)-1] ^= 0xff
	_, err = s.Open(tampered)
	assert.ErrorIs(t, err, store.ErrDecryption, "corrupted ciphertext")

	_, err = s.Open([]byte("short"))
	assert.ErrorIs(t, err, store.ErrDecryption, "truncated payload")
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	_, err := New(make([]byte, 16))
	assert.Error(t, err)

	_, err = FromBase64("%%%")
	assert.Error(t, err)

	s, err := FromBase64(base64.StdEncoding.EncodeToString(key(3)))
	require.NoError(t, err)
	assert.NotNil(t, s)
}
