package revocation

import (
	"context"
	"sync"
	"time"

	"classtrack/backend/internal/security"
)

type entry struct {
	subjectID string
	expiresAt time.Time
}

// MemoryStore is an in-memory Store implementation. Suitable for
// single-instance deployments and tests; entries are reaped lazily on read.
type MemoryStore struct {
	mu   sync.RWMutex
	m    map[string]entry
	nowF func() time.Time
}

// NewMemoryStore returns a new in-memory allow-list store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		m:    make(map[string]entry),
		nowF: func() time.Time { return time.Now().UTC() },
	}
}

// Activate marks the token active until now + ttl.
func (s *MemoryStore) Activate(ctx context.Context, token, subjectID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[security.TokenDigest(token)] = entry{subjectID: subjectID, expiresAt: s.nowF().Add(ttl)}
	return nil
}

// IsActive reports whether the token has a live entry. Expired entries are
// deleted on the way out.
func (s *MemoryStore) IsActive(ctx context.Context, token string) (bool, error) {
	key := security.TokenDigest(token)
	s.mu.RLock()
	e, ok := s.m[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if !e.expiresAt.After(s.nowF()) {
		s.mu.Lock()
		delete(s.m, key)
		s.mu.Unlock()
		return false, nil
	}
	return true, nil
}

// Revoke deletes the token's entry. Idempotent.
func (s *MemoryStore) Revoke(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, security.TokenDigest(token))
	return nil
}
