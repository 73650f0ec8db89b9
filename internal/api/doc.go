// Package api implements the JSON HTTP handlers. Handlers decode and
// validate requests, call the services and map their errors to status codes
// with sanitized messages; raw error text only reaches the logs, redacted.
package api
