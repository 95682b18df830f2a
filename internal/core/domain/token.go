// Package domain defines the core domain models for ViewGate.
package domain

import "strings"

// Token is an opaque session credential issued by the auth oracle.
//
// The zero-session sentinel is NullToken, not the empty string: the
// surrounding application persists token slots in client-side storage,
// which round-trips "null" more reliably than an absent value.
type Token string

// NullToken is the sentinel token meaning "no active session".
const NullToken Token = "null"

// TokenPrefix is the prefix oracles in this repository put on issued
// tokens (foreign oracles may issue any opaque string).
const TokenPrefix = "vgtk_"

// IsNull reports whether the token is the no-session sentinel.
// An empty string is treated as null so that uninitialized storage
// slots fail closed.
func (t Token) IsNull() bool {
	return t == NullToken || t == ""
}

// Normalize maps empty and sentinel values to NullToken and returns
// any other token unchanged.
func (t Token) Normalize() Token {
	if t.IsNull() {
		return NullToken
	}
	return t
}

// SessionState is the derived login state. It is never stored; it is a
// pure function of the current token slot.
type SessionState int

const (
	// LoggedOut means the current token slot holds the sentinel.
	LoggedOut SessionState = iota

	// LoggedIn means the current token slot holds a live token.
	LoggedIn
)

// String returns the state name for logs and labels.
func (s SessionState) String() string {
	if s == LoggedIn {
		return "logged_in"
	}
	return "logged_out"
}

// StateOf derives the session state from the current token slot.
func StateOf(current Token) SessionState {
	if current.IsNull() {
		return LoggedOut
	}
	return LoggedIn
}

// MaskToken masks a token for safe logging.
// Example: vgtk_ABC...xyz
func MaskToken(t Token) string {
	s := string(t)
	if t.IsNull() {
		return string(NullToken)
	}
	if strings.HasPrefix(s, TokenPrefix) {
		body := s[len(TokenPrefix):]
		if len(body) > 6 {
			return TokenPrefix + body[:3] + "..." + body[len(body)-3:]
		}
		return TokenPrefix + "***"
	}
	return "***REDACTED***"
}
