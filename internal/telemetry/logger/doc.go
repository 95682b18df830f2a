// Package logger provides structured logging for ViewGate.
//
// The package wraps log/slog behind a small Logger interface and runs
// every attribute through token redaction before it reaches the
// handler, so a session token can never leak into log output whole:
// values with the token prefix are partially masked, and attributes
// whose keys look credential-like are fully redacted. Request and
// client IDs travel in the context (see context.go) and are attached
// automatically by WithContext.
package logger
