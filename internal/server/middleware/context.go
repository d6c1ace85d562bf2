// Package middleware holds the HTTP middleware chain: bearer authentication
// and per-request telemetry.
package middleware

import (
	"context"

	authservice "classtrack/backend/internal/auth/service"
)

type contextKey struct{ name string }

var subjectKey = contextKey{"subject"}

// WithSubject returns a context carrying the authenticated subject. Handlers
// read it back via GetSubject.
func WithSubject(ctx context.Context, s *authservice.Subject) context.Context {
	return context.WithValue(ctx, subjectKey, s)
}

// GetSubject returns the authenticated subject from context and true if set.
func GetSubject(ctx context.Context) (*authservice.Subject, bool) {
	s, ok := ctx.Value(subjectKey).(*authservice.Subject)
	return s, ok
}
