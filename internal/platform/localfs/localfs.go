// Package localfs stores blobs as files in one directory. It is a
// single-writer backend: writes are unconditional and versions are not
// tracked.
package localfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/phrazzld/fiszki/internal/store"
)

// Blob stores each named blob as a file under Dir.
type Blob struct {
	dir string
	mu  sync.Mutex
}

// New creates the directory if needed and returns a Blob rooted there.
func New(dir string) (*Blob, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return &Blob{dir: dir}, nil
}

// Conditional implements store.Blob.
func (b *Blob) Conditional() bool {
	return false
}

// Read implements store.Blob.
func (b *Blob) Read(ctx context.Context, name string) ([]byte, store.Version, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.NoVersion, err
	}
	path, err := b.path(name)
	if err != nil {
		return nil, store.NoVersion, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, store.NoVersion, store.ErrNotFound
		}
		return nil, store.NoVersion, store.Unavailable(err)
	}
	return data, store.NoVersion, nil
}

// Write implements store.Blob. The file is replaced atomically so readers
// never see a partial payload.
func (b *Blob) Write(ctx context.Context, name string, data []byte, _ store.Version) (store.Version, error) {
	if err := ctx.Err(); err != nil {
		return store.NoVersion, err
	}
	path, err := b.path(name)
	if err != nil {
		return store.NoVersion, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	tmp, err := os.CreateTemp(b.dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return store.NoVersion, store.Unavailable(err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op after a successful rename
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return store.NoVersion, store.Unavailable(err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return store.NoVersion, store.Unavailable(err)
	}
	if err := tmp.Close(); err != nil {
		return store.NoVersion, store.Unavailable(err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return store.NoVersion, store.Unavailable(err)
	}
	return store.NoVersion, nil
}

func (b *Blob) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid blob name %q", name)
	}
	return filepath.Join(b.dir, name), nil
}
