// Package domain defines the core domain models for ViewGate.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured
// error code.
type DomainError struct {
	Code    string // Error code (e.g., "VG-AUTH-4010")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Authentication errors (AUTH).
//
// The controller absorbs all of these: they surface to the user only as
// "still on the login screen" or "returned to the login screen".
var (
	// ErrAuthenticationFailed indicates the oracle rejected the credentials.
	ErrAuthenticationFailed = NewDomainError("VG-AUTH-4010", "authentication failed")

	// ErrSessionInvalid indicates a mid-session token re-check came back negative.
	ErrSessionInvalid = NewDomainError("VG-AUTH-4011", "session invalid or expired")

	// ErrOracleUnavailable indicates an oracle operation failed outright.
	ErrOracleUnavailable = NewDomainError("VG-AUTH-5030", "auth oracle unavailable")

	// ErrRateLimited indicates too many login attempts.
	ErrRateLimited = NewDomainError("VG-AUTH-4290", "too many login attempts")
)

// Collaborator errors (VIEW). These are integration errors, expected to
// be caught during integration testing rather than handled at runtime.
var (
	// ErrMalformedCollaborator indicates a view builder does not satisfy
	// the addressable-field contract.
	ErrMalformedCollaborator = NewDomainError("VG-VIEW-4000", "view builder missing required fields")

	// ErrViewBuildFailed indicates a view builder returned an error.
	ErrViewBuildFailed = NewDomainError("VG-VIEW-5000", "view builder failed")
)

// System errors (SYS).
var (
	// ErrInternalServer indicates an internal error.
	ErrInternalServer = NewDomainError("VG-SYS-5000", "internal server error")

	// ErrStorageError indicates a token slot storage error.
	ErrStorageError = NewDomainError("VG-SYS-5001", "slot storage error")

	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewDomainError("VG-ARG-1001", "invalid argument")
)
