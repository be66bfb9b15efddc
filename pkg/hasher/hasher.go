package hasher

import (
	"crypto/sha512"
	"encoding/base64"
)

// Hasher hashes and verifies passwords.
//
// Check reports whether the value matches the hash. Passing a hash produced
// by a different algorithm family is a programmer error and fails fast with
// ErrAlgorithmMismatch rather than silently returning false.
type Hasher interface {
	Make(value string) (string, error)
	Check(value, hash string) (bool, error)

	// NeedsRehash reports whether the hash was created with parameters that
	// differ from the currently configured ones and should be regenerated on
	// the next successful login.
	NeedsRehash(hash string) bool
}

// prehash normalizes the raw password before it reaches the underlying
// algorithm: SHA-384 digest, base64-encoded. The result is a fixed 64-byte
// string, which keeps arbitrarily long passwords within bcrypt's 72-byte
// input limit. It must be applied identically on the Make and Check paths —
// changing it invalidates every stored hash.
func prehash(value string) []byte {
	sum := sha512.Sum384([]byte(value))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}
