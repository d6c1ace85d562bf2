package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"classtrack/backend/internal/event/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an event log backed by the events table.
// Ids come from the table's BIGSERIAL, which Postgres assigns atomically, so
// concurrent appenders get unique, monotonically increasing ids.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Append stores the event and returns its assigned id.
func (r *PostgresRepository) Append(ctx context.Context, e *domain.Event) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO events (type, actor_id, task_id, title, subject, recipient_all, recipient_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		string(e.Type), e.ActorID, e.TaskID, e.Title, e.Subject,
		e.Recipient.All, e.Recipient.SubjectID, createdAt).Scan(&id)
	if err != nil {
		return 0, err
	}
	e.ID = id
	e.CreatedAt = createdAt
	return id, nil
}

// Range returns up to limit events with id > fromID in ascending id order.
func (r *PostgresRepository) Range(ctx context.Context, fromID int64, limit int) ([]*domain.Event, error) {
	limit = ClampLimit(limit)
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, type, actor_id, task_id, title, subject, recipient_all, recipient_id, created_at
		 FROM events WHERE id > $1 ORDER BY id ASC LIMIT $2`, fromID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Event
	for rows.Next() {
		var e domain.Event
		var typ string
		if err := rows.Scan(&e.ID, &typ, &e.ActorID, &e.TaskID, &e.Title, &e.Subject,
			&e.Recipient.All, &e.Recipient.SubjectID, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Type = domain.Type(typ)
		out = append(out, &e)
	}
	return out, rows.Err()
}

// LastID returns the highest assigned event id, or 0 for an empty log.
func (r *PostgresRepository) LastID(ctx context.Context) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(max(id), 0) FROM events`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}
