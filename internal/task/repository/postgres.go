package repository

import (
	"context"
	"database/sql"
	"errors"

	"classtrack/backend/internal/task/domain"
)

// PostgresRepository is a Repository backed by the tasks table.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a task repository backed by the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const taskColumns = `id, owner_id, title, subject, shared, completed, finish_date, created_at, updated_at`

// GetByID returns the task or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListVisible returns shared tasks plus the viewer's own, newest first.
func (r *PostgresRepository) ListVisible(ctx context.Context, viewerID string) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE shared OR owner_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`, viewerID, maxVisible)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Create inserts the task.
func (r *PostgresRepository) Create(ctx context.Context, t *domain.Task) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.OwnerID, t.Title, t.Subject, t.Shared, t.Completed,
		t.FinishDate, t.CreatedAt, t.UpdatedAt)
	return err
}

// Update overwrites the task row.
func (r *PostgresRepository) Update(ctx context.Context, t *domain.Task) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET title = $2, subject = $3, shared = $4, completed = $5,
		 finish_date = $6, updated_at = $7 WHERE id = $1`,
		t.ID, t.Title, t.Subject, t.Shared, t.Completed, t.FinishDate, t.UpdatedAt)
	return err
}

// Delete removes the task row.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Subject, &t.Shared,
		&t.Completed, &t.FinishDate, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
