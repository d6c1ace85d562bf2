package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"classtrack/backend/internal/completion"
	"classtrack/backend/internal/event"
	eventdomain "classtrack/backend/internal/event/domain"
	"classtrack/backend/internal/task/domain"
	"classtrack/backend/internal/task/policy"
	taskrepo "classtrack/backend/internal/task/repository"
)

// Sentinel errors for the task service; the handler maps them to HTTP codes.
var (
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("task not found")
	ErrInvalidInput = errors.New("invalid input")
)

// CreateInput is the body of a task creation request.
type CreateInput struct {
	Title      string
	Subject    string
	FinishDate time.Time
}

// UpdateInput is the body of a task update request. Owners send the full
// body; a non-owner only sends Completed to flip their own flag on a shared
// task.
type UpdateInput struct {
	Title      string
	Subject    string
	Completed  *bool
	FinishDate time.Time
}

// TaskService implements task CRUD with policy checks, the per-viewer
// completion overlay, and one recorded event per successful mutation.
// Authorization is decided before any write; a rejected request leaves no
// partial effects and records nothing.
type TaskService struct {
	tasks    taskrepo.Repository
	overlay  completion.Store
	policy   *policy.Engine
	recorder *event.Recorder
}

// NewTaskService returns a TaskService with the given dependencies.
func NewTaskService(
	tasks taskrepo.Repository,
	overlay completion.Store,
	engine *policy.Engine,
	recorder *event.Recorder,
) *TaskService {
	return &TaskService{
		tasks:    tasks,
		overlay:  overlay,
		policy:   engine,
		recorder: recorder,
	}
}

// Create makes a new shared task. Teachers only; the created event is
// broadcast to the whole class.
func (s *TaskService) Create(ctx context.Context, actor policy.Actor, in CreateInput) (*domain.Task, error) {
	title := strings.TrimSpace(in.Title)
	subject := strings.TrimSpace(in.Subject)
	if title == "" || subject == "" {
		return nil, fmt.Errorf("%w: title and subject are required", ErrInvalidInput)
	}
	allowed, err := s.policy.Allow(ctx, policy.Input{
		Action: policy.ActionCreate,
		Actor:  actor,
	})
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrForbidden
	}
	now := time.Now().UTC()
	t := &domain.Task{
		ID:         uuid.New().String(),
		OwnerID:    actor.ID,
		Title:      title,
		Subject:    subject,
		Shared:     true,
		Completed:  false,
		FinishDate: in.FinishDate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, &eventdomain.Event{
		Type:      eventdomain.TypeCreated,
		ActorID:   actor.ID,
		TaskID:    t.ID,
		Title:     t.Title,
		Subject:   t.Subject,
		Recipient: eventdomain.Broadcast(),
	})
	return t, nil
}

// Update handles PUT on a task. The owner replaces the full body; any other
// caller may only flip their own completion flag on a shared task, which
// mutates the overlay rather than the task itself. The returned task carries
// the caller's view of the completed flag.
func (s *TaskService) Update(ctx context.Context, actor policy.Actor, taskID string, in UpdateInput) (*domain.Task, error) {
	current, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound
	}
	if current.OwnerID == actor.ID {
		return s.updateAsOwner(ctx, actor, current, in)
	}
	return s.toggleCompletion(ctx, actor, current, in)
}

func (s *TaskService) updateAsOwner(ctx context.Context, actor policy.Actor, current *domain.Task, in UpdateInput) (*domain.Task, error) {
	title := strings.TrimSpace(in.Title)
	subject := strings.TrimSpace(in.Subject)
	if title == "" || subject == "" || in.Completed == nil {
		return nil, fmt.Errorf("%w: title, subject and completed are required", ErrInvalidInput)
	}
	allowed, err := s.policy.Allow(ctx, policy.Input{
		Action:         policy.ActionUpdate,
		Actor:          actor,
		Task:           policy.TaskAttrs{OwnerID: current.OwnerID, Shared: current.Shared},
		WantsCompleted: *in.Completed,
	})
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrForbidden
	}
	updated := current.Clone()
	updated.Title = title
	updated.Subject = subject
	updated.Completed = *in.Completed
	updated.FinishDate = in.FinishDate
	updated.UpdatedAt = time.Now().UTC()
	if err := s.tasks.Update(ctx, updated); err != nil {
		return nil, err
	}
	recipient := eventdomain.Direct(actor.ID)
	if updated.Shared {
		recipient = eventdomain.Broadcast()
	}
	s.recorder.Record(ctx, &eventdomain.Event{
		Type:      eventdomain.TypeUpdated,
		ActorID:   actor.ID,
		TaskID:    updated.ID,
		Title:     updated.Title,
		Subject:   updated.Subject,
		Recipient: recipient,
	})
	return updated, nil
}

func (s *TaskService) toggleCompletion(ctx context.Context, actor policy.Actor, current *domain.Task, in UpdateInput) (*domain.Task, error) {
	if in.Completed == nil {
		return nil, ErrForbidden
	}
	allowed, err := s.policy.Allow(ctx, policy.Input{
		Action:         policy.ActionToggleCompletion,
		Actor:          actor,
		Task:           policy.TaskAttrs{OwnerID: current.OwnerID, Shared: current.Shared},
		WantsCompleted: *in.Completed,
	})
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrForbidden
	}
	if *in.Completed {
		err = s.overlay.MarkDone(ctx, current.ID, actor.ID)
	} else {
		err = s.overlay.MarkUndone(ctx, current.ID, actor.ID)
	}
	if err != nil {
		return nil, err
	}
	typ := eventdomain.TypeUpdated
	if *in.Completed {
		typ = eventdomain.TypeCompleted
	}
	s.recorder.Record(ctx, &eventdomain.Event{
		Type:      typ,
		ActorID:   actor.ID,
		TaskID:    current.ID,
		Title:     current.Title,
		Subject:   current.Subject,
		Recipient: eventdomain.Direct(actor.ID),
	})
	view := current.Clone()
	view.Completed = *in.Completed
	return view, nil
}

// Delete removes a task and its completion overlay. Shared tasks may only be
// deleted by their teacher owner; private tasks by their owner.
func (s *TaskService) Delete(ctx context.Context, actor policy.Actor, taskID string) error {
	current, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrNotFound
	}
	allowed, err := s.policy.Allow(ctx, policy.Input{
		Action: policy.ActionDelete,
		Actor:  actor,
		Task:   policy.TaskAttrs{OwnerID: current.OwnerID, Shared: current.Shared},
	})
	if err != nil {
		return err
	}
	if !allowed {
		return ErrForbidden
	}
	if err := s.overlay.CascadeDelete(ctx, current.ID); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, current.ID); err != nil {
		return err
	}
	recipient := eventdomain.Direct(actor.ID)
	if current.Shared {
		recipient = eventdomain.Broadcast()
	}
	s.recorder.Record(ctx, &eventdomain.Event{
		Type:      eventdomain.TypeDeleted,
		ActorID:   actor.ID,
		TaskID:    current.ID,
		Title:     current.Title,
		Subject:   current.Subject,
		Recipient: recipient,
	})
	return nil
}

// List returns shared tasks plus the viewer's own, with the completed flag
// projected for the viewer: teachers always see shared tasks as not
// completed, students see their own overlay membership, private tasks are
// returned as stored.
func (s *TaskService) List(ctx context.Context, viewer policy.Actor) ([]*domain.Task, error) {
	tasks, err := s.tasks.ListVisible(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if !t.Shared {
			continue
		}
		if viewer.Role.IsTeacher() {
			t.Completed = false
			continue
		}
		done, err := s.overlay.IsDone(ctx, t.ID, viewer.ID)
		if err != nil {
			return nil, err
		}
		t.Completed = done
	}
	return tasks, nil
}
