// Package notification is the read API over the event log: a per-viewer
// timeline of broadcast events plus events addressed directly to the viewer,
// rendered with a human-readable message.
package notification

import (
	"context"
	"time"

	eventdomain "classtrack/backend/internal/event/domain"
	eventrepo "classtrack/backend/internal/event/repository"
)

// Notification is one rendered timeline entry. Name carries the task title at
// the time of the event. ID doubles as the resume cursor: pass the last seen
// id as fromID on the next poll.
type Notification struct {
	ID        int64            `json:"id"`
	Type      eventdomain.Type `json:"type"`
	TaskID    string           `json:"task_id"`
	Message   string           `json:"message"`
	Name      string           `json:"name"`
	Subject   string           `json:"subject"`
	CreatedAt time.Time        `json:"created_at"`
}

// Service lists notifications for a viewer.
type Service struct {
	events eventrepo.Repository
}

// NewService returns a notification service over the given event log.
func NewService(events eventrepo.Repository) *Service {
	return &Service{events: events}
}

// List returns up to count events visible to viewerID with id > fromID,
// oldest first. Count is clamped to the log's range limit. Events addressed
// to other subjects are skipped but still advance the scan, so a page may
// require reading several log pages.
func (s *Service) List(ctx context.Context, viewerID string, fromID int64, count int) ([]Notification, error) {
	count = eventrepo.ClampLimit(count)
	notifications := make([]Notification, 0, count)
	cursor := fromID
	for len(notifications) < count {
		page, err := s.events.Range(ctx, cursor, eventrepo.MaxRangeLimit)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		for _, e := range page {
			cursor = e.ID
			if !e.Recipient.Matches(viewerID) {
				continue
			}
			notifications = append(notifications, render(e))
			if len(notifications) == count {
				break
			}
		}
		if len(page) < eventrepo.MaxRangeLimit {
			break
		}
	}
	return notifications, nil
}

func render(e *eventdomain.Event) Notification {
	return Notification{
		ID:        e.ID,
		Type:      e.Type,
		TaskID:    e.TaskID,
		Message:   message(e.Type),
		Name:      e.Title,
		Subject:   e.Subject,
		CreatedAt: e.CreatedAt,
	}
}

func message(t eventdomain.Type) string {
	switch t {
	case eventdomain.TypeCreated:
		return "Task created."
	case eventdomain.TypeUpdated:
		return "Task updated."
	case eventdomain.TypeDeleted:
		return "Task deleted."
	case eventdomain.TypeCompleted:
		return "Task completed."
	}
	return ""
}
