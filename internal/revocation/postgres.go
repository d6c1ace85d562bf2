package revocation

import (
	"context"
	"database/sql"
	"time"

	"classtrack/backend/internal/security"
)

// PostgresStore is a Store backed by the active_tokens table, for deployments
// where multiple instances must agree on revocation. Expired rows are filtered
// by predicate; a periodic sweep (or the seed of the next Activate for the
// same digest) keeps the table small.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore returns an allow-list store backed by the given db.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Activate inserts (or refreshes) the token's allow-list row.
func (s *PostgresStore) Activate(ctx context.Context, token, subjectID string, ttl time.Duration) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO active_tokens (token_digest, subject_id, expires_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (token_digest) DO UPDATE SET expires_at = EXCLUDED.expires_at`,
		security.TokenDigest(token), subjectID, time.Now().UTC().Add(ttl))
	return err
}

// IsActive reports whether a non-expired row exists for the token.
func (s *PostgresStore) IsActive(ctx context.Context, token string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM active_tokens WHERE token_digest = $1 AND expires_at > now()`,
		security.TokenDigest(token)).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Revoke deletes the token's row. Idempotent.
func (s *PostgresStore) Revoke(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM active_tokens WHERE token_digest = $1`, security.TokenDigest(token))
	return err
}

// Sweep deletes expired rows. Intended for a periodic maintenance goroutine.
func (s *PostgresStore) Sweep(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM active_tokens WHERE expires_at <= now()`)
	return err
}
