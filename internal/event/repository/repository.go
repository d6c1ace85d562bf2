package repository

import (
	"context"

	"classtrack/backend/internal/event/domain"
)

// MaxRangeLimit caps how many events a single Range call may return.
const MaxRangeLimit = 200

// Repository defines the durable, append-only event log. Appended events get a
// monotonically increasing id that is never reused, so two events appended in
// the same millisecond still sort correctly by id.
type Repository interface {
	// Append stores the event, assigns its id, and returns it. The event's
	// ID field is also set on success.
	Append(ctx context.Context, e *domain.Event) (int64, error)
	// Range returns up to limit events with id > fromID in ascending id
	// order. limit is clamped to [1, MaxRangeLimit]. fromID 0 starts from
	// the beginning of the log.
	Range(ctx context.Context, fromID int64, limit int) ([]*domain.Event, error)
	// LastID returns the id of the most recent event, or 0 for an empty
	// log. Used by live tails that want "only events from now on".
	LastID(ctx context.Context) (int64, error)
}

// ClampLimit applies the [1, MaxRangeLimit] bound shared by implementations.
func ClampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxRangeLimit {
		return MaxRangeLimit
	}
	return limit
}
