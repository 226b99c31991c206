// Package revocation remembers access tokens that were given up before they
// expired, so a signed-out or deleted account cannot keep using them.
package revocation

import (
	"context"
	"sync"
	"time"
)

type Store interface {
	// Revoke marks the token id as revoked until the token's own expiry.
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

var now = time.Now

// MemoryStore is a process-local Store for single-instance deployments.
type MemoryStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{revoked: make(map[string]time.Time)}
}

func (s *MemoryStore) Revoke(ctx context.Context, jti string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gc()
	if until.After(now()) {
		s.revoked[jti] = until
	}
	return nil
}

func (s *MemoryStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.revoked[jti]
	if !ok {
		return false, nil
	}
	if !until.After(now()) {
		delete(s.revoked, jti)
		return false, nil
	}
	return true, nil
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.revoked)
}

// gc drops entries whose tokens have expired on their own. Callers hold mu.
func (s *MemoryStore) gc() {
	t := now()
	for k, until := range s.revoked {
		if !until.After(t) {
			delete(s.revoked, k)
		}
	}
}
