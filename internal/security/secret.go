package security

import (
	"errors"
	"os"
	"strings"
)

// ErrInvalidSecret is returned when the signing secret is empty or unreadable.
var ErrInvalidSecret = errors.New("invalid signing secret")

// minSecretLen guards against trivially brute-forceable HMAC secrets.
const minSecretLen = 16

// LoadSecret resolves the HMAC signing secret from s: if s names a readable
// file, the file's trimmed contents are used; otherwise s itself is the secret.
// Returns ErrInvalidSecret for empty or too-short secrets.
func LoadSecret(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrInvalidSecret
	}
	if b, err := os.ReadFile(s); err == nil {
		s = strings.TrimSpace(string(b))
	}
	if len(s) < minSecretLen {
		return nil, ErrInvalidSecret
	}
	return []byte(s), nil
}
