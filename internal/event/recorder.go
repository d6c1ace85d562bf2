// Package event records domain events for task mutations: one durable append
// to the event log and one best-effort publish to the live bus per mutation.
package event

import (
	"context"
	"log"
	"time"

	"classtrack/backend/internal/event/bus"
	"classtrack/backend/internal/event/domain"
	eventrepo "classtrack/backend/internal/event/repository"
)

// Recorder writes a domain event to both channels. Record is best-effort on
// both: the mutation that produced the event has already committed, so a log
// append failure means a gap in notification history and a publish failure
// means missed live delivery, never a rollback. Failures are logged as
// warnings and not returned.
type Recorder struct {
	repo eventrepo.Repository
	bus  bus.Bus
}

// NewRecorder returns a Recorder using repo for durable history and b for
// live fan-out. Either may be nil; the corresponding channel is skipped.
func NewRecorder(repo eventrepo.Repository, b bus.Bus) *Recorder {
	return &Recorder{repo: repo, bus: b}
}

// Record appends the event to the log and publishes it to the bus. The append
// runs synchronously so the assigned id is visible to pollers immediately
// after the mutation returns; the publish is fire-and-forget.
func (r *Recorder) Record(ctx context.Context, e *domain.Event) {
	if e == nil {
		return
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if err := e.Validate(); err != nil {
		log.Printf("event: dropping invalid event %s/%s: %v", e.Type, e.TaskID, err)
		return
	}
	if r.repo != nil {
		if _, err := r.repo.Append(ctx, e); err != nil {
			log.Printf("event: append failed for %s/%s (history will have a gap): %v", e.Type, e.TaskID, err)
		}
	}
	if r.bus != nil {
		// Detached context with a short timeout so request cancellation does
		// not abort an in-flight publish.
		evt := *e
		go func() {
			pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := r.bus.Publish(pubCtx, &evt); err != nil {
				log.Printf("event: publish failed for %s/%s: %v", evt.Type, evt.TaskID, err)
			}
		}()
	}
}
