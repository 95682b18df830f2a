// Package main provides the entry point for viewgate-server.
//
// The server exposes the session overlay over HTTP:
//
//   - GET  /               initial view for the session
//   - POST /login          credential submission
//   - POST /logout         session invalidation
//   - POST /probe          status check against the oracle
//   - POST /callback/{name} protected application callbacks
//   - GET  /healthz        liveness
//   - GET  /metrics        Prometheus metrics
//
// Usage:
//
//	viewgate-server [flags]
//	viewgate-server --config /path/to/config.yaml
//
// Configuration comes from defaults, the optional config file, and
// VIEWGATE_-prefixed environment variables, in that order.
package main
