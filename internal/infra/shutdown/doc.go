// Package shutdown provides graceful shutdown for the ViewGate server.
//
// A Handler waits for SIGINT, SIGTERM, or a programmatic Trigger, then
// runs registered cleanup hooks in reverse registration order under a
// single timeout. The HTTP server, slot store, and timed prober all
// register their teardown here.
package shutdown
