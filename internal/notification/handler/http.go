// Package handler exposes the notification timeline over HTTP/JSON.
package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"classtrack/backend/internal/notification"
	"classtrack/backend/internal/server/middleware"
)

const defaultCount = 30

// NotificationHandler serves GET /notifications. Runs behind the auth
// middleware.
type NotificationHandler struct {
	notifications *notification.Service
}

// NewNotificationHandler returns a handler over the given service.
func NewNotificationHandler(svc *notification.Service) *NotificationHandler {
	return &NotificationHandler{notifications: svc}
}

// List handles GET /notifications?from=<id>&count=<n>. from is the last seen
// event id; omit it (or pass 0) to read from the start.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.GetSubject(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}
	fromID, _ := strconv.ParseInt(r.URL.Query().Get("from"), 10, 64)
	count, err := strconv.Atoi(r.URL.Query().Get("count"))
	if err != nil || count <= 0 {
		count = defaultCount
	}
	items, err := h.notifications.List(r.Context(), subject.ID, fromID, count)
	if err != nil {
		log.Printf("notification: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
