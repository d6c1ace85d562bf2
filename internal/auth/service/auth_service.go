package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"classtrack/backend/internal/revocation"
	"classtrack/backend/internal/security"
	userdomain "classtrack/backend/internal/user/domain"
)

// Sentinel errors for the auth service; the handler maps them to HTTP codes.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidInput       = errors.New("invalid input")
)

const minPasswordLen = 4

// Subject is the authenticated identity derived from a verified, active
// session token. It is what middleware puts in the request context.
type Subject struct {
	ID   string
	Name string
	Role userdomain.Role
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      userdomain.Public
}

// UserRepo is the minimal user repository needed by the auth service.
type UserRepo interface {
	GetByUsername(ctx context.Context, username string) (*userdomain.User, error)
	Create(ctx context.Context, u *userdomain.User) error
}

// AuthService implements register, login, logout, and per-request
// authentication over the token provider and the revocation allow-list.
type AuthService struct {
	users    UserRepo
	hasher   *security.Hasher
	tokens   *security.TokenProvider
	sessions revocation.Store
	tokenTTL time.Duration
}

// NewAuthService returns an AuthService with the given dependencies.
func NewAuthService(
	users UserRepo,
	hasher *security.Hasher,
	tokens *security.TokenProvider,
	sessions revocation.Store,
	tokenTTL time.Duration,
) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		sessions: sessions,
		tokenTTL: tokenTTL,
	}
}

// Register creates a user with the given username, password, and role.
// Unknown roles default to student.
func (s *AuthService) Register(ctx context.Context, username, password, role string) (*userdomain.Public, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLen)
	}
	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}
	hashed, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return nil, err
	}
	user := &userdomain.User{
		ID:           uuid.New().String(),
		Username:     username,
		Role:         userdomain.ParseRole(role),
		PasswordHash: hashed,
		CreatedAt:    time.Now().UTC(),
	}
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	pub := user.Public()
	return &pub, nil
}

// Login verifies credentials, issues a session token, and activates it in the
// allow-list with a TTL matching the token lifetime.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	token, expiresAt, err := s.tokens.Issue(user.ID, user.Username, string(user.Role), s.tokenTTL)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Activate(ctx, token, user.ID, s.tokenTTL); err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user.Public()}, nil
}

// Logout revokes the token's allow-list entry. Idempotent; logging out an
// unknown or already-revoked token is not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Revoke(ctx, token)
}

// Authenticate verifies the token signature and expiry, then checks the
// allow-list. Both must pass: a cryptographically valid token whose entry was
// revoked (or never activated) is rejected.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Subject, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	active, err := s.sessions.IsActive(ctx, token)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrUnauthenticated
	}
	return &Subject{
		ID:   claims.Subject,
		Name: claims.Name,
		Role: userdomain.ParseRole(claims.Role),
	}, nil
}
