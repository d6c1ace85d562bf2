package live

import (
	"classtrack/backend/internal/event/bus"
	eventdomain "classtrack/backend/internal/event/domain"
)

// Router routes events from the bus to registered connections.
type Router struct {
	registry *Registry
}

// NewRouter returns a router over the given registry.
func NewRouter(registry *Registry) *Router {
	return &Router{registry: registry}
}

// Deliver fans the event out: broadcast scope reaches every connection,
// direct scope only the named subject's connections. Never blocks.
func (r *Router) Deliver(e *eventdomain.Event) {
	if e == nil || !e.Recipient.Valid() {
		return
	}
	r.registry.each(e.Recipient, func(c *Conn) {
		c.deliver(e)
	})
}

// BindBus subscribes the router to the bus so every published event is
// delivered to live connections. Returns the unsubscribe function.
func (r *Router) BindBus(b bus.Bus) (func(), error) {
	return b.Subscribe(r.Deliver)
}
