package hasher

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Bcrypt implements Hasher using bcrypt with a configurable cost.
type Bcrypt struct {
	cost int
}

// NewBcrypt creates a bcrypt hasher. A zero cost selects bcrypt.DefaultCost;
// out-of-range costs are rejected by the underlying library at Make time.
func NewBcrypt(cost int) *Bcrypt {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

func (h *Bcrypt) Make(value string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(prehash(value), h.cost)
	if err != nil {
		return "", fmt.Errorf("hasher: bcrypt: %w", err)
	}
	return string(hash), nil
}

func (h *Bcrypt) Check(value, hash string) (bool, error) {
	if !isBcryptHash(hash) {
		return false, fmt.Errorf("%w: expected bcrypt", ErrAlgorithmMismatch)
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), prehash(value))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
}

func (h *Bcrypt) NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return true
	}
	return cost != h.cost
}

func isBcryptHash(hash string) bool {
	return strings.HasPrefix(hash, "$2")
}
