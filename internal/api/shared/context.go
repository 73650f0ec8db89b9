package shared

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

// ContextKey is the type of request context keys set by the API layer.
type ContextKey string

// Context keys for request-scoped values.
const (
	// LoginContextKey holds the authenticated login.
	LoginContextKey ContextKey = "login"

	// TraceIDKey holds the request trace ID.
	TraceIDKey ContextKey = "traceID"

	// TraceIDLength is the number of random bytes in a trace ID.
	TraceIDLength = 16
)

// SetTraceID adds a fresh trace ID to ctx.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID returns the trace ID in ctx, or "".
func GetTraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}

// WithLogin stores the authenticated login in ctx.
func WithLogin(ctx context.Context, login string) context.Context {
	return context.WithValue(ctx, LoginContextKey, login)
}

// GetLogin returns the authenticated login in ctx.
func GetLogin(ctx context.Context) (string, bool) {
	login, ok := ctx.Value(LoginContextKey).(string)
	return login, ok && login != ""
}

func generateTraceID() string {
	b := make([]byte, TraceIDLength)
	// crypto/rand.Read never returns an error on supported platforms
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
