// Package slots persists the per-session token slot pair between
// evaluations.
package slots

import (
	"context"
	"time"

	"github.com/edvros/viewgate-go/internal/core/domain"
)

// DefaultTTL is how long a stored pair survives without being touched.
const DefaultTTL = 24 * time.Hour

// Pair is the persisted form of the two token slots.
type Pair struct {
	Current domain.Token `json:"current"`
	Last    domain.Token `json:"last"`
}

// NullPair is the logged-out pair.
func NullPair() Pair {
	return Pair{Current: domain.NullToken, Last: domain.NullToken}
}

// Normalize maps empty slots to the sentinel.
func (p Pair) Normalize() Pair {
	return Pair{Current: p.Current.Normalize(), Last: p.Last.Normalize()}
}

// Store persists slot pairs keyed by session ID. Load on a missing key
// returns the null pair, not an error: an unknown session is simply
// logged out.
type Store interface {
	Load(ctx context.Context, sessionID string) (Pair, error)
	Save(ctx context.Context, sessionID string, p Pair) error
	Delete(ctx context.Context, sessionID string) error
	Close() error
}
