// seed inserts development sample data for local testing: one teacher, two
// students, a shared task, and a private student task.
// Idempotent: skips inserts if the teacher (mrs-hill) already exists.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"classtrack/backend/internal/config"
	"classtrack/backend/internal/db"
	"classtrack/backend/internal/security"
	taskdomain "classtrack/backend/internal/task/domain"
	taskrepo "classtrack/backend/internal/task/repository"
	userdomain "classtrack/backend/internal/user/domain"
	userrepo "classtrack/backend/internal/user/repository"
)

const (
	teacherUsername = "mrs-hill"
	studentUsername = "ana"
	student2Name    = "ben"
	devPassword     = "password123"

	teacherID  = "seed-teacher-001"
	studentID  = "seed-student-001"
	student2ID = "seed-student-002"

	sharedTaskID  = "seed-task-001"
	privateTaskID = "seed-task-002"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	users := userrepo.NewPostgresRepository(conn)
	tasks := taskrepo.NewPostgresRepository(conn)

	existing, err := users.GetByUsername(ctx, teacherUsername)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Println("Seed already applied (mrs-hill exists). Skipping.")
		os.Exit(0)
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	passwordHash, err := hasher.Hash([]byte(devPassword))
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	now := time.Now().UTC()

	for _, u := range []*userdomain.User{
		{ID: teacherID, Username: teacherUsername, Role: userdomain.RoleTeacher, PasswordHash: passwordHash, CreatedAt: now},
		{ID: studentID, Username: studentUsername, Role: userdomain.RoleStudent, PasswordHash: passwordHash, CreatedAt: now},
		{ID: student2ID, Username: student2Name, Role: userdomain.RoleStudent, PasswordHash: passwordHash, CreatedAt: now},
	} {
		if err := users.Create(ctx, u); err != nil {
			log.Fatalf("create user %s: %v", u.Username, err)
		}
	}

	if err := tasks.Create(ctx, &taskdomain.Task{
		ID:         sharedTaskID,
		OwnerID:    teacherID,
		Title:      "Read chapter 4",
		Subject:    "History",
		Shared:     true,
		FinishDate: now.AddDate(0, 0, 7),
		CreatedAt:  now,
		UpdatedAt:  now,
	}); err != nil {
		log.Fatalf("create shared task: %v", err)
	}

	if err := tasks.Create(ctx, &taskdomain.Task{
		ID:         privateTaskID,
		OwnerID:    studentID,
		Title:      "Practice violin",
		Subject:    "Music",
		Shared:     false,
		FinishDate: now.AddDate(0, 0, 3),
		CreatedAt:  now,
		UpdatedAt:  now,
	}); err != nil {
		log.Fatalf("create private task: %v", err)
	}

	log.Println("Seed completed successfully.")
	fmt.Printf("Teacher login: %s / %s\n", teacherUsername, devPassword)
	fmt.Printf("Student logins: %s, %s / %s\n", studentUsername, student2Name, devPassword)
}
