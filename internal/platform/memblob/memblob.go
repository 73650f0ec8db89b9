// Package memblob is an in-process Blob backend. The conditional variant
// behaves like a shared object store with generation preconditions and is
// used for tests and the "memory" storage backend.
package memblob

import (
	"bytes"
	"context"
	"sync"

	"github.com/phrazzld/fiszki/internal/store"
)

type object struct {
	data    []byte
	version store.Version
}

// Blob keeps named blobs in memory.
type Blob struct {
	mu          sync.Mutex
	conditional bool
	objects     map[string]object
	generation  int64
	writes      map[string]int
	beforeWrite func(name string)
}

// New returns a conditional in-memory blob store.
func New() *Blob {
	return &Blob{
		conditional: true,
		objects:     make(map[string]object),
		writes:      make(map[string]int),
	}
}

// NewSingleWriter returns an in-memory blob store that ignores versions.
func NewSingleWriter() *Blob {
	b := New()
	b.conditional = false
	return b
}

// Conditional implements store.Blob.
func (b *Blob) Conditional() bool {
	return b.conditional
}

// Read implements store.Blob.
func (b *Blob) Read(ctx context.Context, name string) ([]byte, store.Version, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.NoVersion, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	obj, ok := b.objects[name]
	if !ok {
		return nil, store.NoVersion, store.ErrNotFound
	}
	if !b.conditional {
		return bytes.Clone(obj.data), store.NoVersion, nil
	}
	return bytes.Clone(obj.data), obj.version, nil
}

// Write implements store.Blob.
func (b *Blob) Write(ctx context.Context, name string, data []byte, expected store.Version) (store.Version, error) {
	if err := ctx.Err(); err != nil {
		return store.NoVersion, err
	}

	b.mu.Lock()
	hook := b.beforeWrite
	b.writes[name]++
	b.mu.Unlock()

	if hook != nil {
		hook(name)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conditional {
		current, exists := b.objects[name]
		switch {
		case expected == store.NoVersion && exists:
			return store.NoVersion, store.ErrVersionMismatch
		case expected != store.NoVersion && (!exists || current.version != expected):
			return store.NoVersion, store.ErrVersionMismatch
		}
	}

	version := b.commit(name, data)
	if !b.conditional {
		return store.NoVersion, nil
	}
	return version, nil
}

// Put writes data unconditionally, as another instance would, and returns
// the new version.
func (b *Blob) Put(name string, data []byte) store.Version {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.commit(name, data)
}

// Writes returns the number of Write calls made for name.
func (b *Blob) Writes(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writes[name]
}

// BeforeWrite installs a hook run at the start of every Write, outside the
// lock, so that it may call Put to simulate a concurrent writer.
func (b *Blob) BeforeWrite(fn func(name string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.beforeWrite = fn
}

func (b *Blob) commit(name string, data []byte) store.Version {
	b.generation++
	version := store.Version(b.generation)
	b.objects[name] = object{data: bytes.Clone(data), version: version}
	return version
}
