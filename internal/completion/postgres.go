package completion

import (
	"context"
	"database/sql"
	"errors"
)

// PostgresStore is a Store backed by the task_completions table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore returns a completion store backed by the given db.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// MarkDone inserts the membership row; the primary key makes it idempotent.
func (s *PostgresStore) MarkDone(ctx context.Context, taskID, viewerID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO task_completions (task_id, viewer_id) VALUES ($1, $2)
		 ON CONFLICT (task_id, viewer_id) DO NOTHING`, taskID, viewerID)
	return err
}

// MarkUndone deletes the membership row if present.
func (s *PostgresStore) MarkUndone(ctx context.Context, taskID, viewerID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM task_completions WHERE task_id = $1 AND viewer_id = $2`, taskID, viewerID)
	return err
}

// IsDone reports whether the membership row exists.
func (s *PostgresStore) IsDone(ctx context.Context, taskID, viewerID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM task_completions WHERE task_id = $1 AND viewer_id = $2`,
		taskID, viewerID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CascadeDelete removes all membership rows for the task.
func (s *PostgresStore) CascadeDelete(ctx context.Context, taskID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM task_completions WHERE task_id = $1`, taskID)
	return err
}
