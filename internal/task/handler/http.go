// Package handler exposes the task service over HTTP/JSON.
package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"classtrack/backend/internal/server/middleware"
	"classtrack/backend/internal/task/domain"
	"classtrack/backend/internal/task/policy"
	"classtrack/backend/internal/task/service"
)

// TaskHandler serves /tasks and /tasks/{id}. All routes run behind the auth
// middleware.
type TaskHandler struct {
	tasks *service.TaskService
}

// NewTaskHandler returns a TaskHandler over the given service.
func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

type taskPayload struct {
	Title      string    `json:"title"`
	Subject    string    `json:"subject"`
	Completed  *bool     `json:"completed,omitempty"`
	FinishDate time.Time `json:"finish_date"`
}

// List handles GET /tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	tasks, err := h.tasks.List(r.Context(), actor)
	if err != nil {
		writeTaskError(w, err)
		return
	}
	if tasks == nil {
		tasks = []*domain.Task{} // encode as [] rather than null
	}
	writeJSON(w, http.StatusOK, tasks)
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var body taskPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "title, subject and finish_date are required")
		return
	}
	created, err := h.tasks.Create(r.Context(), actor, service.CreateInput{
		Title:      body.Title,
		Subject:    body.Subject,
		FinishDate: body.FinishDate,
	})
	if err != nil {
		writeTaskError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var body taskPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	updated, err := h.tasks.Update(r.Context(), actor, r.PathValue("id"), service.UpdateInput{
		Title:      body.Title,
		Subject:    body.Subject,
		Completed:  body.Completed,
		FinishDate: body.FinishDate,
	})
	if err != nil {
		writeTaskError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if err := h.tasks.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		writeTaskError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func actorFrom(r *http.Request) (policy.Actor, bool) {
	subject, ok := middleware.GetSubject(r.Context())
	if !ok {
		return policy.Actor{}, false
	}
	return policy.Actor{ID: subject.ID, Role: subject.Role}, true
}

func writeTaskError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		log.Printf("task: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
