// Package postgres provides a PostgreSQL blob backend for the store package.
// Each blob is one row in the blobs table with an integer version column;
// conditional writes compare that column, so several server instances can
// share one database safely.
package postgres
