// Package httpserver provides the HTTP server for ViewGate.
package httpserver

import (
	"net/http"

	"github.com/edvros/viewgate-go/internal/telemetry/logger"
)

// NewRouter wraps the handler in the standard middleware chain.
// Order, outermost first: Recover, RequestID, RequestLog.
func NewRouter(h *Handler, log logger.Logger) http.Handler {
	if log == nil {
		log = logger.Default()
	}
	return Chain(h,
		Recover(log),
		RequestID(),
		RequestLog(log),
	)
}
