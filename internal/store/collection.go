package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sethvargo/go-retry"

	"github.com/phrazzld/fiszki/internal/platform/logger"
)

// Codec transforms payloads at rest. Open must return an error wrapping
// ErrDecryption for a wrong key or corrupted input.
type Codec interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(ciphertext []byte) ([]byte, error)
}

// LegacyDecoder converts an older payload layout into items. It reports
// false when it does not recognise the payload.
type LegacyDecoder[T any] func(raw json.RawMessage) ([]T, bool)

// Collection stores a list of T as one JSON document {"<key>": [...]} in a
// named blob.
type Collection[T any] struct {
	store  *VersionedStore
	name   string
	key    string
	codec  Codec
	legacy LegacyDecoder[T]
}

// CollectionOption configures a Collection.
type CollectionOption[T any] func(*Collection[T])

// WithCodec encrypts the payload at rest.
func WithCodec[T any](codec Codec) CollectionOption[T] {
	return func(c *Collection[T]) {
		c.codec = codec
	}
}

// WithLegacyDecoder accepts payloads that are neither the current envelope
// nor a bare list.
func WithLegacyDecoder[T any](fn LegacyDecoder[T]) CollectionOption[T] {
	return func(c *Collection[T]) {
		c.legacy = fn
	}
}

// NewCollection creates a collection stored in blob name under envelope key.
func NewCollection[T any](store *VersionedStore, name, key string, opts ...CollectionOption[T]) *Collection[T] {
	c := &Collection[T]{store: store, name: name, key: key}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the blob name.
func (c *Collection[T]) Name() string {
	return c.name
}

// Load returns the items and the version they were read at. A missing or
// empty blob is an empty collection.
func (c *Collection[T]) Load(ctx context.Context) ([]T, Version, error) {
	data, version, err := c.store.Load(ctx, c.name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []T{}, NoVersion, nil
		}
		return nil, NoVersion, err
	}

	items, err := c.decode(data)
	if err != nil {
		return nil, NoVersion, err
	}
	return items, version, nil
}

// Save commits items conditioned on expected using the store retry budget.
func (c *Collection[T]) Save(ctx context.Context, items []T, expected Version) (Version, error) {
	return c.save(ctx, items, expected, c.store.MaxRetries())
}

// Update loads the collection, applies fn and saves the result conditioned
// on the version it read. When another writer commits in between, the whole
// sequence is repeated on fresh data, up to the store retry budget.
// An error from fn aborts the update without saving. On single-writer
// backends updates of the same store run one at a time.
func (c *Collection[T]) Update(ctx context.Context, fn func(items []T) ([]T, error)) ([]T, Version, error) {
	log := logger.FromContextOrDefault(ctx, c.store.logger).With(slog.String("blob", c.name))
	budget := c.store.MaxRetries()
	defer c.store.exclusive()()
	backoff := retry.WithMaxRetries(uint64(budget-1), LinearBackoff(c.store.opts.BackoffBase))

	var (
		result  []T
		version Version
		attempt int
	)
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		items, expected, err := c.Load(ctx)
		if err != nil {
			return err
		}
		updated, err := fn(items)
		if err != nil {
			return err
		}
		committed, err := c.save(ctx, updated, expected, 1)
		if IsConflict(err) {
			log.Info("collection changed concurrently, reapplying update", slog.Int("attempt", attempt))
			return retry.RetryableError(err)
		}
		if err != nil {
			return err
		}
		result, version = updated, committed
		return nil
	})
	if err != nil {
		return nil, NoVersion, err
	}
	return result, version, nil
}

func (c *Collection[T]) save(ctx context.Context, items []T, expected Version, maxRetries int) (Version, error) {
	payload, err := c.encode(items)
	if err != nil {
		return NoVersion, err
	}
	return c.store.Save(ctx, c.name, payload, expected, maxRetries)
}

func (c *Collection[T]) encode(items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(map[string][]T{c.key: items}, "", "  ")
	if err != nil {
		return nil, NewStoreError(c.name, "encode", "failed to marshal collection", err)
	}
	if c.codec == nil {
		return data, nil
	}
	sealed, err := c.codec.Seal(data)
	if err != nil {
		return nil, NewStoreError(c.name, "encode", "failed to encrypt collection", err)
	}
	return sealed, nil
}

func (c *Collection[T]) decode(data []byte) ([]T, error) {
	if c.codec != nil && len(data) > 0 {
		plain, err := c.codec.Open(data)
		if err != nil {
			if !errors.Is(err, ErrDecryption) {
				err = fmt.Errorf("%w: %w", ErrDecryption, err)
			}
			return nil, NewStoreError(c.name, "decode", "failed to decrypt collection", err)
		}
		data = plain
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []T{}, nil
	}

	if data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, c.corrupt(err)
		}
		return nonNil(items), nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, c.corrupt(err)
	}
	if raw, ok := envelope[c.key]; ok {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, c.corrupt(err)
		}
		return nonNil(items), nil
	}
	if c.legacy != nil {
		if items, ok := c.legacy(data); ok {
			return nonNil(items), nil
		}
	}
	return nil, c.corrupt(fmt.Errorf("missing %q key", c.key))
}

func (c *Collection[T]) corrupt(err error) error {
	return NewStoreError(c.name, "decode", "unexpected payload layout", fmt.Errorf("%w: %w", ErrCorruptPayload, err))
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
