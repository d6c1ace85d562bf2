// Package live fans events out to connected websocket clients. The registry
// tracks open connections per authenticated subject; the router picks the
// connections an event should reach. Delivery is fire-and-forget: a slow or
// closed connection loses frames, the durable log is the recovery path.
package live

import (
	"sync"

	eventdomain "classtrack/backend/internal/event/domain"
)

// connBuffer is the per-connection outbound queue. When it is full the event
// is dropped for that connection rather than blocking the publisher.
const connBuffer = 32

// Conn is one registered live connection. The transport goroutine drains
// Events and writes frames to the socket.
type Conn struct {
	subjectID string

	mu     sync.Mutex
	ch     chan *eventdomain.Event
	closed bool
}

// SubjectID returns the authenticated subject this connection belongs to.
func (c *Conn) SubjectID() string { return c.subjectID }

// Events is the outbound event queue for this connection. The channel is
// closed when the connection is unregistered.
func (c *Conn) Events() <-chan *eventdomain.Event { return c.ch }

// deliver enqueues without blocking; drops when the buffer is full or the
// connection is already closed.
func (c *Conn) deliver(e *eventdomain.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.ch <- e:
	default:
	}
}

func (c *Conn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.ch)
}

// Registry tracks open live connections keyed by subject id. All methods are
// safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]map[*Conn]struct{}
}

// NewRegistry returns an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]map[*Conn]struct{})}
}

// Register adds a connection for the subject and returns it. A subject may
// hold any number of concurrent connections (multiple tabs).
func (r *Registry) Register(subjectID string) *Conn {
	c := &Conn{
		subjectID: subjectID,
		ch:        make(chan *eventdomain.Event, connBuffer),
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.conns[subjectID]
	if !ok {
		set = make(map[*Conn]struct{})
		r.conns[subjectID] = set
	}
	set[c] = struct{}{}
	return c
}

// Unregister removes the connection and closes its queue. Idempotent.
func (r *Registry) Unregister(c *Conn) {
	if c == nil {
		return
	}
	r.mu.Lock()
	if set, ok := r.conns[c.subjectID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(r.conns, c.subjectID)
		}
	}
	r.mu.Unlock()
	c.close()
}

// Connected reports how many connections the subject currently holds.
func (r *Registry) Connected(subjectID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns[subjectID])
}

// each calls fn for every connection matching the recipient scope.
func (r *Registry) each(recipient eventdomain.Recipient, fn func(*Conn)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if recipient.All {
		for _, set := range r.conns {
			for c := range set {
				fn(c)
			}
		}
		return
	}
	for c := range r.conns[recipient.SubjectID] {
		fn(c)
	}
}
