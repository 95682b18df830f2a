// Package domain defines the core domain models for ViewGate.
package domain

// Credentials is the ephemeral username/password pair read from the
// login form at the moment of a login attempt. It is handed to the
// oracle and then discarded; the core never persists it.
type Credentials struct {
	Username string
	Password string
}

// IsZero reports whether neither field was filled in.
func (c Credentials) IsZero() bool {
	return c.Username == "" && c.Password == ""
}
