package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"classtrack/backend/internal/revocation"
	"classtrack/backend/internal/security"
	userdomain "classtrack/backend/internal/user/domain"
)

type fakeUserRepo struct {
	byUsername map[string]*userdomain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byUsername: make(map[string]*userdomain.User)}
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*userdomain.User, error) {
	u, ok := r.byUsername[strings.ToLower(username)]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, u *userdomain.User) error {
	r.byUsername[strings.ToLower(u.Username)] = u
	return nil
}

func newService(t *testing.T) *AuthService {
	t.Helper()
	tokens := security.NewTokenProvider([]byte("test-secret-at-least-16-bytes"))
	return NewAuthService(
		newFakeUserRepo(),
		security.NewHasher(4),
		tokens,
		revocation.NewMemoryStore(),
		time.Hour,
	)
}

func TestRegister_Validation(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	if _, err := s.Register(ctx, "  ", "secret", ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("blank username: err = %v, want ErrInvalidInput", err)
	}
	if _, err := s.Register(ctx, "ana", "abc", ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("short password: err = %v, want ErrInvalidInput", err)
	}
}

func TestRegister_RolesAndUniqueness(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	pub, err := s.Register(ctx, "ms-frizzle", "magic", "teacher")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if pub.Role != userdomain.RoleTeacher {
		t.Errorf("role = %s, want teacher", pub.Role)
	}

	pub, err = s.Register(ctx, "arnold", "ohno", "janitor")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if pub.Role != userdomain.RoleStudent {
		t.Errorf("unknown role must default to student, got %s", pub.Role)
	}

	if _, err := s.Register(ctx, "arnold", "again", ""); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("duplicate: err = %v, want ErrUsernameTaken", err)
	}
}

func TestLogin_WrongCredentials(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	if _, err := s.Register(ctx, "ana", "secret", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := s.Login(ctx, "nobody", "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := s.Login(ctx, "ana", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogin_Authenticate_Logout(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	if _, err := s.Register(ctx, "ana", "secret", "teacher"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	res, err := s.Login(ctx, "ana", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token == "" {
		t.Fatal("empty token")
	}
	if res.ExpiresAt.Before(time.Now()) {
		t.Error("token already expired")
	}

	sub, err := s.Authenticate(ctx, res.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if sub.ID != res.User.ID || sub.Name != "ana" || sub.Role != userdomain.RoleTeacher {
		t.Errorf("subject = %+v", sub)
	}

	if err := s.Logout(ctx, res.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	// Same token, still cryptographically valid, must now be rejected.
	if _, err := s.Authenticate(ctx, res.Token); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("after logout: err = %v, want ErrUnauthenticated", err)
	}

	// Logout is idempotent.
	if err := s.Logout(ctx, res.Token); err != nil {
		t.Errorf("second Logout: %v", err)
	}
}

func TestAuthenticate_UnactivatedTokenRejected(t *testing.T) {
	tokens := security.NewTokenProvider([]byte("test-secret-at-least-16-bytes"))
	s := NewAuthService(newFakeUserRepo(), security.NewHasher(4), tokens,
		revocation.NewMemoryStore(), time.Hour)

	// Forge a signed token outside of Login: valid signature, no allow-list
	// entry.
	token, _, err := tokens.Issue("u1", "ana", "student", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := s.Authenticate(context.Background(), token); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("err = %v, want ErrUnauthenticated", err)
	}
}

func TestAuthenticate_GarbageToken(t *testing.T) {
	s := newService(t)
	if _, err := s.Authenticate(context.Background(), "not.a.token"); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("err = %v, want ErrUnauthenticated", err)
	}
}
