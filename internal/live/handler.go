package live

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"golang.org/x/net/websocket"

	authservice "classtrack/backend/internal/auth/service"
	eventdomain "classtrack/backend/internal/event/domain"
)

// Authenticator validates a handshake token through the full auth path
// (signature, expiry, allow-list).
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*authservice.Subject, error)
}

// Frame is the JSON frame written to live clients.
type Frame struct {
	Type  string             `json:"type"`
	Event *eventdomain.Event `json:"event"`
}

type subjectIDContextKey struct{}

// NewHandler returns the /ws endpoint. The bearer token (Authorization
// header or ?token= query parameter) is authenticated before the websocket
// upgrade; an invalid or revoked token gets a 401 and never joins the
// registry.
func NewHandler(registry *Registry, auth Authenticator) http.Handler {
	wsHandler := websocket.Handler(func(conn *websocket.Conn) {
		handleConn(conn, registry)
	})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		token := tokenFromRequest(r)
		if token == "" {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		subject, err := auth.Authenticate(r.Context(), token)
		if err != nil {
			log.Printf("live: websocket unauthorized: remote=%s err=%v", r.RemoteAddr, err)
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), subjectIDContextKey{}, subject.ID)
		wsHandler.ServeHTTP(w, r.WithContext(ctx))
	})
}

func tokenFromRequest(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "bearer") {
		if token = strings.TrimSpace(token); token != "" {
			return token
		}
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}

func handleConn(conn *websocket.Conn, registry *Registry) {
	defer func() {
		_ = conn.Close()
	}()

	subjectID, _ := conn.Request().Context().Value(subjectIDContextKey{}).(string)
	if subjectID == "" {
		return
	}

	c := registry.Register(subjectID)
	defer registry.Unregister(c)

	encoder := json.NewEncoder(conn)

	done := make(chan struct{})
	// Drain inbound frames only to notice the client going away; the live
	// channel is write-only.
	go func() {
		defer close(done)
		if _, err := io.Copy(io.Discard, conn); err != nil && err != io.EOF {
			log.Printf("live: read loop for subject %s: %v", subjectID, err)
		}
	}()

	for {
		select {
		case e, ok := <-c.Events():
			if !ok {
				return
			}
			if err := encoder.Encode(Frame{Type: "task.event", Event: e}); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
