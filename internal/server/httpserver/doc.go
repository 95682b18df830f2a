// Package httpserver exposes the ViewGate session controller over
// HTTP.
//
// Routes:
//
//	GET  /                 render the view for the current session
//	POST /login            button click with credentials
//	POST /logout           button click while logged in
//	POST /probe            explicit status probe
//	POST /callback/{name}  registered application callback, probe-wrapped
//	GET  /healthz          liveness
//	GET  /metrics          Prometheus metrics
//
// Each client is identified by a ULID session cookie; the slot pair for
// that session lives in the configured slots.Store. All session
// endpoints answer with the controller's decision: new state, control
// label, and the rebuilt view tree when one was produced.
package httpserver
