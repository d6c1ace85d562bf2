package security

import (
	"crypto/sha256"
	"encoding/hex"
)

// TokenDigest returns a SHA-256 hash of the token string, hex-encoded.
// The revocation store keys entries by digest so raw bearer tokens are never
// persisted.
func TokenDigest(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}
