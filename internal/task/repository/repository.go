package repository

import (
	"context"

	"classtrack/backend/internal/task/domain"
)

// maxVisible caps a single listing; the feed shows at most this many shared
// and personal tasks combined.
const maxVisible = 400

// Repository defines task persistence.
type Repository interface {
	// GetByID returns the task or nil if it does not exist.
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	// ListVisible returns shared tasks plus viewerID's own tasks, newest
	// first, capped at maxVisible.
	ListVisible(ctx context.Context, viewerID string) ([]*domain.Task, error)
	Create(ctx context.Context, t *domain.Task) error
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
}
