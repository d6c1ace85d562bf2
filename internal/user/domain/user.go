package domain

import (
	"errors"
	"time"
)

// User is the core user entity. PasswordHash is the bcrypt hash of the login
// password; never expose it outside the auth path.
type User struct {
	ID           string
	Username     string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
}

// Role is the classroom role carried in session tokens and checked by the
// task access policy.
type Role string

const (
	// RoleTeacher may create, update, and delete shared (broadcast) tasks but
	// never toggles completion on them.
	RoleTeacher Role = "teacher"
	// RoleStudent may toggle their own completion membership on shared tasks
	// and manage their own private tasks.
	RoleStudent Role = "student"
)

// IsTeacher reports whether the role is teacher.
func (r Role) IsTeacher() bool { return r == RoleTeacher }

// ParseRole maps s to a Role, defaulting to student for unknown or empty input.
func ParseRole(s string) Role {
	if s == string(RoleTeacher) {
		return RoleTeacher
	}
	return RoleStudent
}

// Validate validates the user for persistence. Returns an error describing the
// first validation failure.
func (u *User) Validate() error {
	if u.Username == "" {
		return errors.New("username is required")
	}
	if u.Role != RoleTeacher && u.Role != RoleStudent {
		return errors.New("role must be teacher or student")
	}
	return nil
}

// Public is the representation of a user safe to return to clients.
type Public struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Public returns the client-safe view of the user.
func (u *User) Public() Public {
	return Public{ID: u.ID, Username: u.Username, Role: u.Role}
}
