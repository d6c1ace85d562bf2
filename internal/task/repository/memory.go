package repository

import (
	"context"
	"sort"
	"sync"

	"classtrack/backend/internal/task/domain"
)

// MemoryRepository is an in-memory Repository for single-instance deployments
// and tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	tasks map[string]*domain.Task
}

// NewMemoryRepository returns an empty in-memory task repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{tasks: make(map[string]*domain.Task)}
}

// GetByID returns a copy of the task or nil.
func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, nil
	}
	return t.Clone(), nil
}

// ListVisible returns copies of shared tasks plus the viewer's own, newest first.
func (r *MemoryRepository) ListVisible(ctx context.Context, viewerID string) ([]*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var tasks []*domain.Task
	for _, t := range r.tasks {
		if t.Shared || t.OwnerID == viewerID {
			tasks = append(tasks, t.Clone())
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
		return tasks[i].ID > tasks[j].ID
	})
	if len(tasks) > maxVisible {
		tasks = tasks[:maxVisible]
	}
	return tasks, nil
}

// Create stores a copy of the task.
func (r *MemoryRepository) Create(ctx context.Context, t *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[t.ID] = t.Clone()
	return nil
}

// Update overwrites the stored task.
func (r *MemoryRepository) Update(ctx context.Context, t *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[t.ID] = t.Clone()
	return nil
}

// Delete removes the task.
func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tasks, id)
	return nil
}
