// Server runs the classtrack HTTP API: auth, tasks, notifications, and the
// live websocket feed. With no DATABASE_URL it runs fully in memory; with no
// KAFKA_BROKERS the live feed is bridged in-process.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	authservice "classtrack/backend/internal/auth/service"
	"classtrack/backend/internal/completion"
	"classtrack/backend/internal/config"
	"classtrack/backend/internal/db"
	"classtrack/backend/internal/db/migrate"
	"classtrack/backend/internal/event"
	"classtrack/backend/internal/event/bus"
	eventrepo "classtrack/backend/internal/event/repository"
	healthhandler "classtrack/backend/internal/health/handler"
	"classtrack/backend/internal/live"
	"classtrack/backend/internal/notification"
	"classtrack/backend/internal/revocation"
	"classtrack/backend/internal/security"
	"classtrack/backend/internal/server"
	"classtrack/backend/internal/task/policy"
	taskrepo "classtrack/backend/internal/task/repository"
	taskservice "classtrack/backend/internal/task/service"
	"classtrack/backend/internal/telemetry/otel"
	userrepo "classtrack/backend/internal/user/repository"
)

// devSecret signs tokens when JWT_SECRET is unset outside production.
const devSecret = "classtrack-dev-secret-do-not-use"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	secretSource := cfg.JWTSecret
	if secretSource == "" {
		log.Println("server: JWT_SECRET not set; using the built-in development secret")
		secretSource = devSecret
	}
	secret, err := security.LoadSecret(secretSource)
	if err != nil {
		log.Fatalf("secret: %v", err)
	}
	tokens := security.NewTokenProvider(secret)
	hasher := security.NewHasher(cfg.BcryptCost)

	var (
		conn     *sql.DB
		users    authservice.UserRepo
		tasks    taskrepo.Repository
		events   eventrepo.Repository
		overlay  completion.Store
		sessions revocation.Store
	)
	if cfg.DatabaseURL != "" {
		if err := migrate.Run(cfg.DatabaseURL, "up"); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("migrate: %v", err)
		}
		conn, err = db.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer conn.Close()
		users = userrepo.NewPostgresRepository(conn)
		tasks = taskrepo.NewPostgresRepository(conn)
		events = eventrepo.NewPostgresRepository(conn)
		overlay = completion.NewPostgresStore(conn)
		pgSessions := revocation.NewPostgresStore(conn)
		sessions = pgSessions
		go revocation.RunSweeper(ctx, pgSessions, time.Hour)
	} else {
		log.Println("server: DATABASE_URL not set; using in-memory stores")
		users = userrepo.NewMemoryRepository()
		tasks = taskrepo.NewMemoryRepository()
		events = eventrepo.NewMemoryRepository()
		overlay = completion.NewMemoryStore()
		sessions = revocation.NewMemoryStore()
	}

	var eventBus bus.Bus
	if brokers := cfg.KafkaBrokersList(); len(brokers) > 0 {
		log.Printf("server: bridging events over Kafka topic %s", cfg.EventsKafkaTopic)
		eventBus = bus.NewKafkaBus(brokers, cfg.EventsKafkaTopic, cfg.KafkaGroupID)
	} else {
		eventBus = bus.NewMemoryBus()
	}
	defer eventBus.Close()

	engine, err := policy.NewEngine(ctx)
	if err != nil {
		log.Fatalf("policy: %v", err)
	}

	recorder := event.NewRecorder(events, eventBus)
	authSvc := authservice.NewAuthService(users, hasher, tokens, sessions, cfg.TokenTTL())
	taskSvc := taskservice.NewTaskService(tasks, overlay, engine, recorder)
	notificationSvc := notification.NewService(events)

	registry := live.NewRegistry()
	router := live.NewRouter(registry)
	unsubscribe, err := router.BindBus(eventBus)
	if err != nil {
		log.Fatalf("live: %v", err)
	}
	defer unsubscribe()

	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "classtrack-backend", cfg.Env != "production")
	if err != nil {
		log.Fatalf("otel: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	checks := []healthhandler.Check{
		{Name: "policy", Probe: engine.HealthCheck},
	}
	if conn != nil {
		checks = append(checks, healthhandler.Check{Name: "db", Probe: conn.PingContext})
	}

	handler := server.NewHandler(server.Deps{
		Auth:          authSvc,
		Tasks:         taskSvc,
		Notifications: notificationSvc,
		Registry:      registry,
		HealthChecks:  checks,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
