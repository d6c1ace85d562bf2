package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	authservice "classtrack/backend/internal/auth/service"
)

const bearerPrefix = "bearer "

// Authenticator validates a bearer token and returns the subject it belongs
// to. Implemented by the auth service.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*authservice.Subject, error)
}

// Auth wraps next with bearer authentication: the Authorization token is
// verified (signature, expiry, allow-list) and the resulting subject is put
// in the request context. Requests without a valid active token get a 401
// and never reach the handler.
func Auth(auth Authenticator, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearer(r)
		if token == "" {
			writeUnauthorized(w)
			return
		}
		subject, err := auth.Authenticate(r.Context(), token)
		if err != nil {
			writeUnauthorized(w)
			return
		}
		ctx := WithSubject(r.Context(), subject)
		ctx = withToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

var tokenKey = contextKey{"token"}

func withToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// GetToken returns the raw bearer token the request authenticated with.
// Logout needs it to revoke the allow-list entry.
func GetToken(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(tokenKey).(string)
	return v, ok
}

// extractBearer returns the Bearer token from the Authorization header, or ""
// if missing or malformed.
func extractBearer(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
}
