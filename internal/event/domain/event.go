package domain

import (
	"errors"
	"time"
)

// Type is the kind of domain event recorded for a task mutation.
type Type string

const (
	TypeCreated   Type = "created"
	TypeUpdated   Type = "updated"
	TypeDeleted   Type = "deleted"
	TypeCompleted Type = "completed"
)

// Valid reports whether t is one of the known event types.
func (t Type) Valid() bool {
	switch t {
	case TypeCreated, TypeUpdated, TypeDeleted, TypeCompleted:
		return true
	}
	return false
}

// Recipient is the delivery scope of an event: either every connected subject
// (broadcast) or exactly one subject. The zero value is not valid; use
// Broadcast() or Direct().
type Recipient struct {
	// All is true for broadcast events.
	All bool `json:"all"`
	// SubjectID is the single recipient when All is false.
	SubjectID string `json:"subject_id,omitempty"`
}

// Broadcast returns the recipient scope meaning "every connected subject".
func Broadcast() Recipient {
	return Recipient{All: true}
}

// Direct returns the recipient scope targeting a single subject.
func Direct(subjectID string) Recipient {
	return Recipient{SubjectID: subjectID}
}

// Matches reports whether an event with this scope should be visible to
// subjectID.
func (r Recipient) Matches(subjectID string) bool {
	return r.All || (r.SubjectID != "" && r.SubjectID == subjectID)
}

// Valid reports whether the scope is broadcast or names a subject.
func (r Recipient) Valid() bool {
	return r.All || r.SubjectID != ""
}

// Event is a domain event derived from a task mutation. The same event feeds
// two projections: the durable log (ordered, replayable) and the live bus
// (best-effort, not replayable). ID is assigned by the log on append and is 0
// until then.
type Event struct {
	ID        int64     `json:"id"`
	Type      Type      `json:"type"`
	ActorID   string    `json:"actor_id"`
	TaskID    string    `json:"task_id"`
	Title     string    `json:"title,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Recipient Recipient `json:"recipient"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the event shape at the boundary before it enters the log or
// the bus.
func (e *Event) Validate() error {
	if !e.Type.Valid() {
		return errors.New("event type must be one of created, updated, deleted, completed")
	}
	if e.ActorID == "" {
		return errors.New("actor id is required")
	}
	if e.TaskID == "" {
		return errors.New("task id is required")
	}
	if !e.Recipient.Valid() {
		return errors.New("recipient scope must be broadcast or a subject id")
	}
	return nil
}
