package accesstoken

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/guardkit/guardkit/pkg/scopes"
)

// secretLength is the number of random bytes in a raw token secret.
const secretLength = 64

// Token is a persisted personal access token. Only the SHA-256 hash of the
// raw secret is ever stored; the secret itself is handed to the caller once,
// inside a NewToken, at creation time.
type Token struct {
	ID         int64
	UserID     int64
	Name       string
	TokenHash  string // sha256 hex of the raw secret, unique
	Scopes     []string
	LastUsedAt *time.Time
	CreatedAt  time.Time
}

// Can reports whether the token grants the given scope. A token with the
// wildcard scope grants everything; otherwise membership is an exact match.
// A token without scopes grants nothing.
func (t *Token) Can(scope string) bool {
	if t == nil {
		return false
	}
	return scopes.Contains(t.Scopes, scope)
}

// Cant is the negation of Can. Note the empty-scopes case: Can reports false
// and Cant reports true at the same time — no scopes means deny by default.
func (t *Token) Cant(scope string) bool {
	return !t.Can(scope)
}

// NewToken couples a freshly created token with its one-time raw secret.
// The PlainText value is not recoverable from any later lookup.
type NewToken struct {
	Token     *Token
	PlainText string
}

// GenerateSecret returns a new raw token secret: 64 random bytes,
// base64url-encoded.
func GenerateSecret() (string, error) {
	buf := make([]byte, secretLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("accesstoken: secret generation: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Hash returns the hex-encoded SHA-256 digest of a raw token secret. The
// same transformation is applied at creation and lookup time.
func Hash(plainText string) string {
	sum := sha256.Sum256([]byte(plainText))
	return hex.EncodeToString(sum[:])
}
