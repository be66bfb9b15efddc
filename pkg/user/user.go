package user

import (
	"time"

	"github.com/guardkit/guardkit/pkg/accesstoken"
)

// User is a persisted account record. It is owned by the user provider;
// guards hold only a transient reference for the lifetime of a request or
// session.
type User struct {
	ID              int64
	Email           string
	Username        string
	PasswordHash    string
	RememberToken   string
	EmailVerifiedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time

	// currentAccessToken is the token the current request authenticated
	// with. Transient request state, never persisted.
	currentAccessToken *accesstoken.Token
}

// AuthIdentifier returns the primary key used for session persistence.
func (u *User) AuthIdentifier() int64 {
	return u.ID
}

// AuthPasswordHash returns the stored password hash.
func (u *User) AuthPasswordHash() string {
	return u.PasswordHash
}

// GetRememberToken returns the current remember-me token, if any.
func (u *User) GetRememberToken() string {
	return u.RememberToken
}

// SetRememberToken sets the remember-me token on the in-memory record.
// Persisting it is the provider's job.
func (u *User) SetRememberToken(token string) {
	u.RememberToken = token
}

// HasVerifiedEmail reports whether the account's email has been verified.
func (u *User) HasVerifiedEmail() bool {
	return u.EmailVerifiedAt != nil
}

// MarkEmailAsVerified stamps the record as verified now. No-op if already
// verified.
func (u *User) MarkEmailAsVerified() {
	if u.EmailVerifiedAt != nil {
		return
	}
	now := time.Now().UTC()
	u.EmailVerifiedAt = &now
}

// IsDeleted reports whether the record carries a soft-delete marker.
func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

// WithAccessToken binds the access token the current request authenticated
// with and returns the same user for chaining.
func (u *User) WithAccessToken(t *accesstoken.Token) *User {
	u.currentAccessToken = t
	return u
}

// CurrentAccessToken returns the token bound by WithAccessToken, or nil.
func (u *User) CurrentAccessToken() *accesstoken.Token {
	return u.currentAccessToken
}

// TokenCan proxies the scope check to the currently bound access token.
// Without a bound token the answer is always false.
func (u *User) TokenCan(scope string) bool {
	return u.currentAccessToken.Can(scope)
}

// TokenCant is the negation of TokenCan; without a bound token it reports
// true (deny by default).
func (u *User) TokenCant(scope string) bool {
	return !u.TokenCan(scope)
}
