// Package httpserver provides the HTTP server for ViewGate.
package httpserver

import (
	"time"

	"github.com/edvros/viewgate-go/internal/core/view"
)

// Response is the standard API response envelope. All JSON responses
// use this format, except /metrics which uses the Prometheus format.
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Details   any    `json:"details,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string, details any) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Details:   details,
	}
}

// LoginRequest is the request body for POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionResponse describes the session decision returned by all
// session endpoints. View is omitted on pass-through.
type SessionResponse struct {
	State   string     `json:"state"`
	Label   string     `json:"label"`
	Changed bool       `json:"changed"`
	Reason  string     `json:"reason"`
	View    *view.Tree `json:"view,omitempty"`
}

// CallbackRequest is the request body for POST /callback/{name}.
type CallbackRequest struct {
	Input any `json:"input"`
}

// CallbackResponse wraps a callback's output with the trailing probe's
// session decision.
type CallbackResponse struct {
	Output  any             `json:"output"`
	Session SessionResponse `json:"session"`
}
