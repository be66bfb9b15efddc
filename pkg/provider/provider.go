package provider

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/guardkit/guardkit/pkg/accesstoken"
	"github.com/guardkit/guardkit/pkg/hasher"
	"github.com/guardkit/guardkit/pkg/user"
)

// Credential map keys with special meaning.
const (
	// PasswordKey triggers hash verification; any key containing the
	// substring "password" is stripped before lookups so a password is
	// never used as an equality filter.
	PasswordKey = "password"

	// TokenKey selects the access-token search path instead of a field
	// lookup.
	TokenKey = "token"
)

// Credentials is an unordered mapping of field name to value supplied by a
// caller, e.g. {"email": ..., "password": ...} or {"token": ...}.
type Credentials map[string]any

// Password returns the password credential, if present.
func (c Credentials) Password() (string, bool) {
	v, ok := c[PasswordKey]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Identifying returns a copy of the credentials with every password-shaped
// key removed. The result is what lookups may filter on; an empty result
// means the credentials cannot identify anyone and no query must be issued.
func (c Credentials) Identifying() Credentials {
	out := make(Credentials, len(c))
	for k, v := range c {
		if strings.Contains(k, PasswordKey) {
			continue
		}
		out[k] = v
	}
	return out
}

// UserProvider locates and validates user records independent of how the
// credentials arrived. Lookup misses are (nil, nil); errors are reserved for
// storage and configuration failures.
type UserProvider interface {
	// FindByID returns the user with the given identifier.
	FindByID(ctx context.Context, id int64) (*user.User, error)

	// FindByCredentials returns the user matching the identifying subset of
	// the credentials. Password-shaped keys are never used as filters; a
	// credentials map without any identifying key returns nil without
	// touching the store. A "token" key selects the access-token search
	// path instead.
	FindByCredentials(ctx context.Context, creds Credentials) (*user.User, error)

	// FindByRememberToken returns the user with the given id whose stored
	// remember token equals the supplied one (constant-time comparison).
	FindByRememberToken(ctx context.Context, id int64, token string) (*user.User, error)

	// ValidateCredentials verifies the password credential against the
	// user's stored hash. Never plain equality.
	ValidateCredentials(ctx context.Context, u *user.User, creds Credentials) (bool, error)

	// RehashPasswordIfRequired regenerates and persists the user's password
	// hash when the stored one no longer matches the configured parameters.
	// Called after a successful credential validation.
	RehashPasswordIfRequired(ctx context.Context, u *user.User, creds Credentials) error

	// UpdateRememberToken persists a new remember token for the user. An
	// empty token clears it ("forget me").
	UpdateRememberToken(ctx context.Context, u *user.User, token string) error
}

// constantTimeEquals compares two tokens without leaking the mismatch
// position through timing.
func constantTimeEquals(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// validatePassword implements ValidateCredentials for all providers.
func validatePassword(h hasher.Hasher, u *user.User, creds Credentials) (bool, error) {
	if u == nil {
		return false, nil
	}
	password, ok := creds.Password()
	if !ok || password == "" {
		return false, nil
	}
	return h.Check(password, u.AuthPasswordHash())
}

// resolveByToken implements the access-token search path: hash the supplied
// secret, look it up in the token store and resolve the owning user.
func resolveByToken(ctx context.Context, tokens accesstoken.Store, byID func(context.Context, int64) (*user.User, error), raw string) (*user.User, error) {
	if tokens == nil || raw == "" {
		return nil, nil
	}

	t, err := tokens.FindByHash(ctx, accesstoken.Hash(raw))
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, nil
	}

	u, err := byID(ctx, t.UserID)
	if err != nil || u == nil {
		return nil, err
	}
	return u.WithAccessToken(t), nil
}
