package bus

import (
	"context"
	"sync"

	"classtrack/backend/internal/event/domain"
)

const subscriberBuffer = 32

// MemoryBus fans events out to subscribers using per-subscriber buffered
// channels. Slow subscribers drop events rather than block publishers; the
// durable log is the recovery path. Default bus for single-instance
// deployments and tests.
type MemoryBus struct {
	mu          sync.RWMutex
	subscribers map[uint64]chan *domain.Event
	nextID      uint64
	closed      bool
}

// NewMemoryBus returns a new in-process bus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subscribers: make(map[uint64]chan *domain.Event)}
}

// Publish delivers the event to every subscriber's channel, dropping it for
// subscribers whose buffer is full.
func (b *MemoryBus) Publish(ctx context.Context, e *domain.Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}
	for _, ch := range b.subscribers {
		select {
		case ch <- e:
		default:
			// Drop for this subscriber to avoid backpressure.
		}
	}
	return nil
}

// Subscribe registers handler and returns an unsubscribe function. The handler
// runs on a dedicated goroutine, so events arrive in publish order per
// subscriber.
func (b *MemoryBus) Subscribe(handler Handler) (func(), error) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	ch := make(chan *domain.Event, subscriberBuffer)
	b.subscribers[id] = ch
	b.mu.Unlock()

	go func() {
		for e := range ch {
			handler(e)
		}
	}()

	unsubscribe := func() {
		b.mu.Lock()
		if sub, ok := b.subscribers[id]; ok {
			delete(b.subscribers, id)
			close(sub)
		}
		b.mu.Unlock()
	}
	return unsubscribe, nil
}

// Close removes all subscribers and stops delivery.
func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for id, ch := range b.subscribers {
		delete(b.subscribers, id)
		close(ch)
	}
	return nil
}
