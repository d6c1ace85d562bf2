package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token is malformed, has a bad
	// signature, fails to decode, or has expired.
	ErrInvalidToken = errors.New("invalid token")
)

// SessionClaims holds the JWT claims for a session token: subject id (sub),
// display name, role, and expiry.
type SessionClaims struct {
	jwt.RegisteredClaims
	Name string `json:"name"`
	Role string `json:"role"`
}

// TokenProvider issues and verifies compact HS256 session tokens signed with a
// process-wide secret. Verification needs no external state; revocation is a
// separate allow-list check (internal/revocation).
type TokenProvider struct {
	secret []byte
}

// NewTokenProvider returns a TokenProvider that signs with the given HMAC secret.
// The secret is loaded once at process start (see LoadSecret) and never rotated
// at runtime.
func NewTokenProvider(secret []byte) *TokenProvider {
	return &TokenProvider{secret: secret}
}

// Issue signs a session token for the given subject. exp is wall-clock seconds
// since epoch, now + ttl. Deterministic given identical inputs and clock.
func (p *TokenProvider) Issue(subjectID, name, role string, ttl time.Duration) (token string, expiresAt time.Time, err error) {
	now := time.Now().UTC()
	expiresAt = now.Add(ttl)
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Name: name,
		Role: role,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err = t.SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Verify parses and verifies the token: three dot-separated segments, HMAC
// signature match (constant-time inside the library), claims decode, and exp
// in the future. Returns the claims or ErrInvalidToken. Purely computational;
// callers that need revocation status must also consult the revocation store.
func (p *TokenProvider) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
