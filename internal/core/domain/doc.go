// Package domain defines the core domain models for ViewGate.
//
// Domain models are pure value objects without any IO dependencies or
// framework coupling: the opaque session Token with its no-session
// sentinel, the derived SessionState, the ephemeral login Credentials,
// and the structured DomainError taxonomy.
package domain
