package repository

import (
	"context"
	"sync"
	"time"

	"classtrack/backend/internal/event/domain"
)

// MemoryRepository is an in-memory event log for single-instance deployments
// and tests. Ids are assigned under the lock so concurrent appends still get
// unique, strictly increasing ids with no gaps.
type MemoryRepository struct {
	mu     sync.RWMutex
	events []*domain.Event
	nextID int64
}

// NewMemoryRepository returns a new in-memory event log.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1}
}

// Append stores a copy of the event with the next id and the current time.
func (r *MemoryRepository) Append(ctx context.Context, e *domain.Event) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *e
	stored.ID = r.nextID
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	r.nextID++
	r.events = append(r.events, &stored)
	e.ID = stored.ID
	e.CreatedAt = stored.CreatedAt
	return stored.ID, nil
}

// Range returns up to limit events with id > fromID in ascending id order.
func (r *MemoryRepository) Range(ctx context.Context, fromID int64, limit int) ([]*domain.Event, error) {
	limit = ClampLimit(limit)
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Event, 0, limit)
	// events is already sorted by id; ids are 1..n with no gaps.
	start := int(fromID)
	if start < 0 {
		start = 0
	}
	for i := start; i < len(r.events) && len(out) < limit; i++ {
		cp := *r.events[i]
		out = append(out, &cp)
	}
	return out, nil
}

// LastID returns the id of the most recent event, or 0 when the log is empty.
func (r *MemoryRepository) LastID(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.events) == 0 {
		return 0, nil
	}
	return r.events[len(r.events)-1].ID, nil
}
