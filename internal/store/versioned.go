package store

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/phrazzld/fiszki/internal/platform/logger"
)

// Options configures the conflict retry policy of a VersionedStore.
type Options struct {
	// MaxRetries is the number of write attempts made before giving up with
	// ErrConcurrencyConflict. Values below 1 mean a single attempt.
	MaxRetries int

	// BackoffBase is the delay before the second attempt. The n-th retry
	// waits n times this value.
	BackoffBase time.Duration
}

type snapshot struct {
	data    []byte
	version Version
}

// VersionedStore implements the load/conditional-save protocol over a Blob.
// It is safe for concurrent use.
type VersionedStore struct {
	blob   Blob
	opts   Options
	logger *slog.Logger

	mu    sync.RWMutex
	cache map[string]snapshot

	// writeMu serializes read-modify-write cycles on single-writer backends.
	writeMu sync.Mutex
}

// NewVersionedStore creates a VersionedStore over blob.
func NewVersionedStore(blob Blob, opts Options, logger *slog.Logger) *VersionedStore {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 1
	}
	return &VersionedStore{
		blob:   blob,
		opts:   opts,
		logger: logger.With(slog.String("component", "versioned_store")),
		cache:  make(map[string]snapshot),
	}
}

// MaxRetries returns the configured retry budget.
func (s *VersionedStore) MaxRetries() int {
	return s.opts.MaxRetries
}

// MultiWriter reports whether the underlying blob enforces conditional writes.
func (s *VersionedStore) MultiWriter() bool {
	return s.blob.Conditional()
}

// exclusive holds the writer lock when the backend cannot detect concurrent
// writes itself. The returned func releases it.
func (s *VersionedStore) exclusive() func() {
	if s.blob.Conditional() {
		return func() {}
	}
	s.writeMu.Lock()
	return s.writeMu.Unlock
}

// Load returns the payload and version of the named blob, or an error
// matching ErrNotFound when it does not exist.
//
// With a single-writer backend the last committed payload of this process is
// authoritative and is served from memory. Shared backends are always read.
func (s *VersionedStore) Load(ctx context.Context, name string) ([]byte, Version, error) {
	if !s.blob.Conditional() {
		if snap, ok := s.Cached(name); ok {
			return snap, NoVersion, nil
		}
	}

	data, version, err := s.blob.Read(ctx, name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, NoVersion, NewStoreError(name, "load", "blob does not exist", err)
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to read blob",
			slog.String("blob", name),
			slog.String("error", err.Error()))
		return nil, NoVersion, NewStoreError(name, "load", "read failed", err)
	}

	s.remember(name, data, version)
	return data, version, nil
}

// Save writes payload to the named blob.
//
// Single-writer backends are written unconditionally. Shared backends only
// accept the write while the blob is still at expected; a rejected write is
// retried with the same expected version up to maxRetries attempts in total,
// waiting base, 2*base, ... between attempts, and then fails with
// ErrConcurrencyConflict. On success the returned version is what subsequent
// loads observe.
func (s *VersionedStore) Save(
	ctx context.Context,
	name string,
	payload []byte,
	expected Version,
	maxRetries int,
) (Version, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("blob", name))

	if !s.blob.Conditional() {
		version, err := s.blob.Write(ctx, name, payload, NoVersion)
		if err != nil {
			log.Error("failed to write blob", slog.String("error", err.Error()))
			return NoVersion, NewStoreError(name, "save", "write failed", err)
		}
		s.remember(name, payload, version)
		return version, nil
	}

	if maxRetries < 1 {
		maxRetries = 1
	}

	attempt := 0
	backoff := retry.WithMaxRetries(uint64(maxRetries-1), LinearBackoff(s.opts.BackoffBase))
	backoff = logConflicts(log, backoff, expected, &attempt, maxRetries)

	var committed Version
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		version, err := s.blob.Write(ctx, name, payload, expected)
		if errors.Is(err, ErrVersionMismatch) {
			return retry.RetryableError(err)
		}
		if err != nil {
			return err
		}
		committed = version
		return nil
	})

	switch {
	case err == nil:
		s.remember(name, payload, committed)
		log.Debug("blob saved",
			slog.String("version", committed.String()),
			slog.Int("attempts", attempt))
		return committed, nil
	case errors.Is(err, ErrVersionMismatch):
		return NoVersion, NewStoreError(name, "save", "retries exhausted", ErrConcurrencyConflict)
	default:
		log.Error("failed to write blob",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
		return NoVersion, NewStoreError(name, "save", "write failed", err)
	}
}

// Cached returns a copy of the last payload this process read or committed
// for name. It is never authoritative for shared backends.
func (s *VersionedStore) Cached(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.cache[name]
	if !ok {
		return nil, false
	}
	return bytes.Clone(snap.data), true
}

// CachedVersion returns the version of the cached payload for name.
func (s *VersionedStore) CachedVersion(name string) (Version, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.cache[name]
	return snap.version, ok
}

func (s *VersionedStore) remember(name string, data []byte, version Version) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.cache[name]; ok && version != NoVersion && prev.version > version {
		return
	}
	s.cache[name] = snapshot{data: bytes.Clone(data), version: version}
}

// LinearBackoff returns a backoff whose n-th delay is n times base.
func LinearBackoff(base time.Duration) retry.Backoff {
	var n int64
	return retry.BackoffFunc(func() (time.Duration, bool) {
		n++
		return time.Duration(n) * base, false
	})
}

func logConflicts(log *slog.Logger, next retry.Backoff, expected Version, attempt *int, budget int) retry.Backoff {
	return retry.BackoffFunc(func() (time.Duration, bool) {
		delay, stop := next.Next()
		if stop {
			log.Warn("blob write conflict, giving up",
				slog.Int("attempt", *attempt),
				slog.Int("max_attempts", budget),
				slog.String("expected_version", expected.String()))
			return delay, true
		}
		log.Warn("blob write conflict, retrying",
			slog.Int("attempt", *attempt),
			slog.Int("max_attempts", budget),
			slog.Duration("backoff", delay),
			slog.String("expected_version", expected.String()))
		return delay, false
	})
}
