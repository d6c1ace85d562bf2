// Package handler serves the health endpoint.
package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

const checkTimeout = 3 * time.Second

// Check is one named readiness probe (database ping, policy compile, ...).
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

// HealthHandler serves GET /health: every check must pass.
type HealthHandler struct {
	checks []Check
}

// NewHealthHandler returns a handler running the given checks in order.
func NewHealthHandler(checks ...Check) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	for _, c := range h.checks {
		if c.Probe == nil {
			continue
		}
		if err := c.Probe(ctx); err != nil {
			log.Printf("health: %s: %v", c.Name, err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]bool{"ok": false})
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}
