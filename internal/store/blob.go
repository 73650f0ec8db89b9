package store

import (
	"context"
	"strconv"
)

// Version identifies one committed state of a blob. Backends guarantee that
// every successful conditional write produces a larger version.
type Version int64

// NoVersion means the blob does not exist yet, or that the backend does not
// track versions.
const NoVersion Version = 0

// String implements fmt.Stringer.
func (v Version) String() string {
	if v == NoVersion {
		return "none"
	}
	return strconv.FormatInt(int64(v), 10)
}

// Blob is a named byte store.
type Blob interface {
	// Read returns the blob contents and current version, or ErrNotFound.
	Read(ctx context.Context, name string) ([]byte, Version, error)

	// Write stores data. Conditional backends only accept the write when the
	// current version equals expected, where NoVersion means "must not exist";
	// otherwise they return ErrVersionMismatch. Single-writer backends ignore
	// expected and return NoVersion.
	Write(ctx context.Context, name string, data []byte, expected Version) (Version, error)

	// Conditional reports whether Write enforces expected versions.
	Conditional() bool
}
