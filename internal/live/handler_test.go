package live

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/websocket"

	authservice "classtrack/backend/internal/auth/service"
	eventdomain "classtrack/backend/internal/event/domain"
	userdomain "classtrack/backend/internal/user/domain"
)

type fakeAuthenticator struct{}

func (fakeAuthenticator) Authenticate(ctx context.Context, token string) (*authservice.Subject, error) {
	if token != "good-token" {
		return nil, authservice.ErrUnauthenticated
	}
	return &authservice.Subject{ID: "student-a", Name: "ana", Role: userdomain.RoleStudent}, nil
}

func TestHandler_RejectsBadToken(t *testing.T) {
	srv := httptest.NewServer(NewHandler(NewRegistry(), fakeAuthenticator{}))
	defer srv.Close()

	for _, url := range []string{srv.URL, srv.URL + "?token=wrong"} {
		resp, err := http.Get(url)
		if err != nil {
			t.Fatalf("GET %s: %v", url, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("GET %s: status %d, want 401", url, resp.StatusCode)
		}
	}
}

func TestHandler_DeliversFramesToAuthenticatedClient(t *testing.T) {
	reg := NewRegistry()
	router := NewRouter(reg)
	srv := httptest.NewServer(NewHandler(reg, fakeAuthenticator{}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "?token=good-token"
	conn, err := websocket.Dial(wsURL, "", srv.URL)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	// Registration happens after the upgrade; wait for it.
	deadline := time.Now().Add(2 * time.Second)
	for reg.Connected("student-a") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("connection never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	router.Deliver(&eventdomain.Event{
		ID: 42, Type: eventdomain.TypeCreated, ActorID: "teacher-1", TaskID: "t1",
		Title: "Homework", Subject: "Math", Recipient: eventdomain.Broadcast(),
	})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame Frame
	if err := json.NewDecoder(conn).Decode(&frame); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if frame.Type != "task.event" {
		t.Errorf("frame type = %q", frame.Type)
	}
	if frame.Event == nil || frame.Event.ID != 42 {
		t.Errorf("frame event = %+v", frame.Event)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	srv := httptest.NewServer(NewHandler(NewRegistry(), fakeAuthenticator{}))
	defer srv.Close()

	resp, err := http.Post(srv.URL, "application/json", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}
