package domain

import (
	"errors"
	"strings"
	"time"
)

// Task is a classroom task. Shared tasks are visible to everyone and carry one
// canonical body; their Completed field is always false in storage and is
// projected per viewer from the completion overlay at read time. Private tasks
// are visible only to their owner and store Completed directly.
type Task struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	Title      string    `json:"title"`
	Subject    string    `json:"subject"`
	Shared     bool      `json:"shared"`
	Completed  bool      `json:"completed"`
	FinishDate time.Time `json:"finish_date"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Validate checks required fields.
func (t *Task) Validate() error {
	if t.ID == "" {
		return errors.New("task id is required")
	}
	if t.OwnerID == "" {
		return errors.New("task owner is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("title is required")
	}
	if strings.TrimSpace(t.Subject) == "" {
		return errors.New("subject is required")
	}
	return nil
}

// Clone returns a copy safe to mutate for per-viewer projection.
func (t *Task) Clone() *Task {
	c := *t
	return &c
}
