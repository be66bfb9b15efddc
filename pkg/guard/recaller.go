package guard

import (
	"crypto/rand"
	"fmt"
	"strconv"
	"strings"
)

// Recaller is the decrypted payload of a remember-me cookie: the user id,
// the remember token and the password hash at login time. The hash segment
// invalidates outstanding cookies when the password changes.
type Recaller struct {
	ID    int64
	Token string
	Hash  string
}

// parseRecaller decodes the "id|token|hash" cookie payload.
func parseRecaller(value string) (Recaller, bool) {
	parts := strings.SplitN(value, "|", 3)
	if len(parts) != 3 {
		return Recaller{}, false
	}

	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return Recaller{}, false
	}

	r := Recaller{ID: id, Token: parts[1], Hash: parts[2]}
	return r, r.Valid()
}

// Valid reports whether all three segments are present.
func (r Recaller) Valid() bool {
	return r.ID != 0 && r.Token != "" && r.Hash != ""
}

// String encodes the payload for encryption into the cookie.
func (r Recaller) String() string {
	return fmt.Sprintf("%d|%s|%s", r.ID, r.Token, r.Hash)
}

const rememberTokenLength = 60

const alnum = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// newRememberToken returns a random alphanumeric remember token.
func newRememberToken() (string, error) {
	buf := make([]byte, rememberTokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("guard: generate remember token: %w", err)
	}
	for i, b := range buf {
		buf[i] = alnum[int(b)%len(alnum)]
	}
	return string(buf), nil
}
