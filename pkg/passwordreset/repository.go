package passwordreset

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/guardkit/guardkit/pkg/user"
)

// TokenRepository stores at most one pending reset token per email address.
// The raw token is returned once from Create and only a hash of it is ever
// persisted.
type TokenRepository interface {
	// Create replaces any pending token for the user and returns the raw
	// token to embed in the reset link.
	Create(ctx context.Context, u *user.User) (string, error)

	// Exists reports whether the raw token matches the user's pending
	// token and has not expired.
	Exists(ctx context.Context, u *user.User, token string) (bool, error)

	// RecentlyCreated reports whether a token was created within the
	// throttle period, in which case another link must not be sent yet.
	RecentlyCreated(ctx context.Context, u *user.User) (bool, error)

	// Destroy removes the user's pending token.
	Destroy(ctx context.Context, u *user.User) error

	// DestroyExpired removes all expired tokens.
	DestroyExpired(ctx context.Context) error
}

const rawTokenBytes = 20

// generateToken derives the raw reset token: random bytes keyed through
// HMAC-SHA256 with the application secret, hex encoded. Keying ties tokens
// to the deployment so a leaked database alone cannot mint valid links.
func generateToken(appKey string) (string, error) {
	buf := make([]byte, rawTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("passwordreset: generate token: %w", err)
	}

	mac := hmac.New(sha256.New, []byte(appKey))
	mac.Write(buf)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

type record struct {
	email     string
	tokenHash string
	createdAt time.Time
}

func (r record) expired(ttl time.Duration, now time.Time) bool {
	return now.Sub(r.createdAt) >= ttl
}

func (r record) recentlyCreated(throttle time.Duration, now time.Time) bool {
	return throttle > 0 && now.Sub(r.createdAt) < throttle
}
