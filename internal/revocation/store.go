// Package revocation implements the session token allow-list. A freshly issued
// token is activated with a TTL matching its lifetime; logout deletes the
// entry. A token is authorized only while its entry exists, so a valid
// signature alone is never enough; absence means "not authorized". This gives
// immediate logout without distributing a deny-list, at the cost of one store
// lookup per authenticated request.
package revocation

import (
	"context"
	"time"
)

// Store tracks which issued tokens are currently active. Entries are keyed by
// SHA-256 digest of the exact token string; the raw token is never stored.
type Store interface {
	// Activate marks a freshly issued token as active until now + ttl.
	Activate(ctx context.Context, token, subjectID string, ttl time.Duration) error
	// IsActive reports whether the token has a live allow-list entry.
	// Expired or revoked entries report false.
	IsActive(ctx context.Context, token string) (bool, error)
	// Revoke deletes the entry. Idempotent: revoking an unknown or
	// already-revoked token is not an error.
	Revoke(ctx context.Context, token string) error
}
