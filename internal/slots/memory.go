package slots

import (
	"context"
	"sync"
	"time"

	"github.com/edvros/viewgate-go/internal/core/domain"
)

type memoryEntry struct {
	pair      Pair
	expiresAt time.Time
}

// MemoryStore is an in-process Store, for single-instance deployments
// and tests.
type MemoryStore struct {
	ttl time.Duration

	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryStore creates a MemoryStore. Zero ttl means DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
	}
}

// Load implements Store.
func (s *MemoryStore) Load(_ context.Context, sessionID string) (Pair, error) {
	s.mu.RLock()
	entry, exists := s.entries[sessionID]
	s.mu.RUnlock()

	if !exists {
		return NullPair(), nil
	}
	if time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, sessionID)
		s.mu.Unlock()
		return NullPair(), nil
	}
	return entry.pair.Normalize(), nil
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, sessionID string, p Pair) error {
	if sessionID == "" {
		return domain.ErrInvalidArgument.WithDetails("session ID is required")
	}

	s.mu.Lock()
	s.entries[sessionID] = memoryEntry{
		pair:      p.Normalize(),
		expiresAt: time.Now().Add(s.ttl),
	}
	s.mu.Unlock()
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.entries, sessionID)
	s.mu.Unlock()
	return nil
}

// Sweep removes expired entries and returns how many were dropped.
func (s *MemoryStore) Sweep() int {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored pairs, expired included until the
// next sweep.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.entries = make(map[string]memoryEntry)
	s.mu.Unlock()
	return nil
}
