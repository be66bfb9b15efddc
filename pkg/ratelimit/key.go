package ratelimit

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// maxKeyLength caps generated keys to keep backend storage keys short.
const maxKeyLength = 64

// LoginKey builds the throttle key for a login attempt from the lowercased
// identifier and the client address. Long keys are hashed to 32 hex chars.
func LoginKey(identifier, ip string) string {
	key := strings.ToLower(strings.TrimSpace(identifier)) + "|" + ip
	if len(key) > maxKeyLength {
		sum := sha256.Sum256([]byte(key))
		return hex.EncodeToString(sum[:16])
	}
	return key
}
