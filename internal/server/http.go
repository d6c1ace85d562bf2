// Package server assembles the HTTP API: routes, auth middleware, and
// telemetry.
package server

import (
	"net/http"

	authhandler "classtrack/backend/internal/auth/handler"
	authservice "classtrack/backend/internal/auth/service"
	healthhandler "classtrack/backend/internal/health/handler"
	"classtrack/backend/internal/live"
	"classtrack/backend/internal/notification"
	notificationhandler "classtrack/backend/internal/notification/handler"
	"classtrack/backend/internal/server/middleware"
	taskhandler "classtrack/backend/internal/task/handler"
	taskservice "classtrack/backend/internal/task/service"
)

// Deps are the services the HTTP API is built from.
type Deps struct {
	Auth          *authservice.AuthService
	Tasks         *taskservice.TaskService
	Notifications *notification.Service
	Registry      *live.Registry
	HealthChecks  []healthhandler.Check
}

// NewHandler wires all routes. /auth/register, /auth/login, and /health are
// public; everything else requires a valid active bearer token.
func NewHandler(d Deps) http.Handler {
	authH := authhandler.NewAuthHandler(d.Auth)
	taskH := taskhandler.NewTaskHandler(d.Tasks)
	notificationH := notificationhandler.NewNotificationHandler(d.Notifications)
	healthH := healthhandler.NewHealthHandler(d.HealthChecks...)

	protected := func(h http.HandlerFunc) http.Handler {
		return middleware.Auth(d.Auth, h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/register", authH.Register)
	mux.HandleFunc("POST /auth/login", authH.Login)
	mux.Handle("POST /auth/logout", protected(authH.Logout))

	mux.Handle("GET /tasks", protected(taskH.List))
	mux.Handle("POST /tasks", protected(taskH.Create))
	mux.Handle("PUT /tasks/{id}", protected(taskH.Update))
	mux.Handle("DELETE /tasks/{id}", protected(taskH.Delete))

	mux.Handle("GET /notifications", protected(notificationH.List))

	// The websocket handshake authenticates the token itself (query param or
	// header) before upgrading.
	mux.Handle("GET /ws", live.NewHandler(d.Registry, d.Auth))

	mux.HandleFunc("GET /health", healthH.Health)

	return middleware.Telemetry(mux)
}
