// Package bus is the transient fan-out channel bridging task mutations to
// live subscribers. Delivery is best-effort: no persistence, no delivery
// guarantee, no backpressure to publishers. Clients that miss live messages
// catch up through the durable event log.
package bus

import (
	"context"

	"classtrack/backend/internal/event/domain"
)

// Handler is invoked for every event published after subscription.
type Handler func(*domain.Event)

// Bus is a publish/subscribe channel for task events. FIFO ordering holds per
// publisher within one bus instance; across horizontally scaled instances
// only the underlying transport's ordering applies.
type Bus interface {
	// Publish broadcasts the event to all current subscribers. Best-effort;
	// callers log and ignore errors.
	Publish(ctx context.Context, e *domain.Event) error
	// Subscribe registers handler for future events and returns an
	// unsubscribe function. Events published before subscription are not
	// delivered.
	Subscribe(handler Handler) (unsubscribe func(), err error)
	// Close releases resources. Safe to call if already closed.
	Close() error
}
