package repository

import (
	"context"
	"strings"
	"sync"

	"classtrack/backend/internal/user/domain"
)

// MemoryRepository is an in-memory Repository for single-instance deployments
// and tests.
type MemoryRepository struct {
	mu         sync.RWMutex
	byID       map[string]*domain.User
	byUsername map[string]string // lowercased username -> id
}

// NewMemoryRepository returns an empty in-memory user repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:       make(map[string]*domain.User),
		byUsername: make(map[string]string),
	}
}

// GetByID returns a copy of the user or nil.
func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

// GetByUsername resolves a user case-insensitively, or returns nil.
func (r *MemoryRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byUsername[strings.ToLower(username)]
	if !ok {
		return nil, nil
	}
	c := *r.byID[id]
	return &c, nil
}

// Create stores a copy of the user.
func (r *MemoryRepository) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *u
	r.byID[c.ID] = &c
	r.byUsername[strings.ToLower(c.Username)] = c.ID
	return nil
}
