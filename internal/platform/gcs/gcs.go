// Package gcs stores blobs as Google Cloud Storage objects. Object
// generations serve as versions, and writes carry generation preconditions,
// so several server instances can share one bucket safely.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/phrazzld/fiszki/internal/platform/logger"
	"github.com/phrazzld/fiszki/internal/store"
)

// Blob is a store.Blob backed by one bucket.
type Blob struct {
	client      *storage.Client
	bucket      *storage.BucketHandle
	contentType string
	logger      *slog.Logger
}

// New connects to Cloud Storage. Credentials and the STORAGE_EMULATOR_HOST
// override are resolved by the client library.
func New(ctx context.Context, bucket string, log *slog.Logger, opts ...option.ClientOption) (*Blob, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Blob{
		client:      client,
		bucket:      client.Bucket(bucket),
		contentType: "application/octet-stream",
		logger:      log.With(slog.String("component", "gcs_blob"), slog.String("bucket", bucket)),
	}, nil
}

// Close releases the underlying client.
func (b *Blob) Close() error {
	return b.client.Close()
}

// Conditional implements store.Blob.
func (b *Blob) Conditional() bool {
	return true
}

// Read implements store.Blob.
func (b *Blob) Read(ctx context.Context, name string) ([]byte, store.Version, error) {
	r, err := b.bucket.Object(name).NewReader(ctx)
	if err != nil {
		return nil, store.NoVersion, classify(err)
	}
	defer func() {
		if cerr := r.Close(); cerr != nil {
			logger.FromContextOrDefault(ctx, b.logger).Warn("failed to close object reader",
				slog.String("object", name),
				slog.String("error", cerr.Error()))
		}
	}()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, store.NoVersion, classify(err)
	}
	return data, store.Version(r.Attrs.Generation), nil
}

// Write implements store.Blob. NoVersion requires that the object does not
// exist; any other version must equal the current generation.
func (b *Blob) Write(ctx context.Context, name string, data []byte, expected store.Version) (store.Version, error) {
	obj := b.bucket.Object(name).If(preconditions(expected))

	// Cancelling ctx aborts an in-flight upload without committing it.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := obj.NewWriter(ctx)
	w.ContentType = b.contentType
	if _, err := w.Write(data); err != nil {
		cancel()
		_ = w.Close()
		return store.NoVersion, classify(err)
	}
	if err := w.Close(); err != nil {
		return store.NoVersion, classify(err)
	}

	generation := w.Attrs().Generation
	logger.FromContextOrDefault(ctx, b.logger).Debug("object written",
		slog.String("object", name),
		slog.Int64("generation", generation))
	return store.Version(generation), nil
}

func preconditions(expected store.Version) storage.Conditions {
	if expected == store.NoVersion {
		return storage.Conditions{DoesNotExist: true}
	}
	return storage.Conditions{GenerationMatch: int64(expected)}
}

// classify maps client errors onto store errors.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, storage.ErrObjectNotExist) {
		return store.ErrNotFound
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusPreconditionFailed:
			return fmt.Errorf("%w: %w", store.ErrVersionMismatch, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %w", store.ErrNotFound, err)
		}
	}
	return store.Unavailable(err)
}
