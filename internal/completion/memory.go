package completion

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store for single-instance deployments and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	sets map[string]map[string]struct{} // taskID -> set of viewerIDs
}

// NewMemoryStore returns a new in-memory completion store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sets: make(map[string]map[string]struct{})}
}

// MarkDone adds viewerID to the task's set.
func (s *MemoryStore) MarkDone(ctx context.Context, taskID, viewerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[taskID]
	if !ok {
		set = make(map[string]struct{})
		s.sets[taskID] = set
	}
	set[viewerID] = struct{}{}
	return nil
}

// MarkUndone removes viewerID from the task's set.
func (s *MemoryStore) MarkUndone(ctx context.Context, taskID, viewerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if set, ok := s.sets[taskID]; ok {
		delete(set, viewerID)
	}
	return nil
}

// IsDone reports membership.
func (s *MemoryStore) IsDone(ctx context.Context, taskID, viewerID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.sets[taskID]
	if !ok {
		return false, nil
	}
	_, done := set[viewerID]
	return done, nil
}

// CascadeDelete drops the task's whole set.
func (s *MemoryStore) CascadeDelete(ctx context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sets, taskID)
	return nil
}
