// Package store implements optimistic-concurrency persistence of whole
// collections stored as named blobs.
//
// A Blob backend reads and writes raw bytes together with a Version. Shared
// backends reject a write whose expected version is stale; VersionedStore
// retries such writes with a linear backoff and reports ErrConcurrencyConflict
// when the budget runs out. Collection layers JSON encoding, optional
// encryption and a reload-and-reapply update loop on top.
package store
