package hasher

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2 variant identifiers as they appear in PHC-encoded hashes.
const (
	VariantArgon2i  = "argon2i"
	VariantArgon2id = "argon2id"
)

// Argon2Params control the cost of the argon2 key derivation. Zero fields
// are filled with OWASP-recommended defaults.
type Argon2Params struct {
	Memory  uint32 // KiB
	Time    uint32 // iterations
	Threads uint8
}

func (p Argon2Params) withDefaults() Argon2Params {
	if p.Memory == 0 {
		p.Memory = 64 * 1024
	}
	if p.Time == 0 {
		p.Time = 1
	}
	if p.Threads == 0 {
		p.Threads = 4
	}
	return p
}

const (
	argon2SaltLength = 16
	argon2KeyLength  = 32
)

// Argon2 implements Hasher using argon2i or argon2id with PHC string
// encoding: $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>.
type Argon2 struct {
	variant string
	params  Argon2Params
}

// NewArgon2i creates an argon2i hasher.
func NewArgon2i(params Argon2Params) *Argon2 {
	return &Argon2{variant: VariantArgon2i, params: params.withDefaults()}
}

// NewArgon2id creates an argon2id hasher.
func NewArgon2id(params Argon2Params) *Argon2 {
	return &Argon2{variant: VariantArgon2id, params: params.withDefaults()}
}

func (h *Argon2) Make(value string) (string, error) {
	salt := make([]byte, argon2SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("hasher: salt generation: %w", err)
	}

	key := h.deriveKey(prehash(value), salt, h.params, argon2KeyLength)

	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		h.variant,
		argon2.Version,
		h.params.Memory,
		h.params.Time,
		h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (h *Argon2) Check(value, hash string) (bool, error) {
	variant, params, salt, expected, err := parseArgon2Hash(hash)
	if err != nil {
		return false, err
	}
	if variant != h.variant {
		return false, fmt.Errorf("%w: expected %s, hash is %s", ErrAlgorithmMismatch, h.variant, variant)
	}

	// Verify with the parameters embedded in the stored hash, not the
	// configured ones, so old hashes stay checkable after a cost change.
	computed := h.deriveKey(prehash(value), salt, params, uint32(len(expected)))

	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}

func (h *Argon2) NeedsRehash(hash string) bool {
	variant, params, _, _, err := parseArgon2Hash(hash)
	if err != nil || variant != h.variant {
		return true
	}
	return params != h.params
}

func (h *Argon2) deriveKey(value, salt []byte, params Argon2Params, keyLen uint32) []byte {
	if h.variant == VariantArgon2i {
		return argon2.Key(value, salt, params.Time, params.Memory, params.Threads, keyLen)
	}
	return argon2.IDKey(value, salt, params.Time, params.Memory, params.Threads, keyLen)
}

func parseArgon2Hash(hash string) (variant string, params Argon2Params, salt, key []byte, err error) {
	if isBcryptHash(hash) {
		return "", params, nil, nil, fmt.Errorf("%w: hash is bcrypt", ErrAlgorithmMismatch)
	}

	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		return "", params, nil, nil, fmt.Errorf("%w: want 6 sections, got %d", ErrInvalidHash, len(parts))
	}

	variant = parts[1]
	if variant != VariantArgon2i && variant != VariantArgon2id {
		return "", params, nil, nil, fmt.Errorf("%w: unsupported algorithm %q", ErrAlgorithmMismatch, variant)
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return "", params, nil, nil, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}

	var threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Time, &threads); err != nil {
		return "", params, nil, nil, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	if threads == 0 || threads > 255 {
		return "", params, nil, nil, fmt.Errorf("%w: threads %d out of range", ErrInvalidHash, threads)
	}
	params.Threads = uint8(threads)

	if salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return "", params, nil, nil, fmt.Errorf("%w: bad salt: %v", ErrInvalidHash, err)
	}
	if key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return "", params, nil, nil, fmt.Errorf("%w: bad key: %v", ErrInvalidHash, err)
	}
	if len(key) == 0 {
		return "", params, nil, nil, fmt.Errorf("%w: empty key", ErrInvalidHash)
	}

	return variant, params, salt, key, nil
}
