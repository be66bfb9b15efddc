package guard

import (
	"context"
	"time"

	"github.com/guardkit/guardkit/pkg/provider"
	"github.com/guardkit/guardkit/pkg/user"
)

// Failure reasons carried by AuthResult, stable message keys for the
// presentation layer.
const (
	// ReasonFailed means the identifying credentials matched no account.
	ReasonFailed = "auth.failed"

	// ReasonPassword means the account exists but the password was wrong.
	ReasonPassword = "auth.password"

	// ReasonThrottle means the attempt was rejected by the login throttle.
	ReasonThrottle = "auth.throttle"
)

// AuthResult is the outcome of an Attempt. User is set only on success and
// Reason only on failure; RetryAfter is set only for throttled attempts.
type AuthResult struct {
	OK         bool
	User       *user.User
	Reason     string
	RetryAfter time.Duration
}

// Guard checks and resolves the authenticated user for one request.
// Implementations memoize the resolved user, so a guard instance must not
// outlive the request it was built for.
type Guard interface {
	// Name returns the guard's configured name.
	Name() string

	// Check reports whether a user is authenticated.
	Check(ctx context.Context) bool

	// Guest reports whether no user is authenticated.
	Guest(ctx context.Context) bool

	// User resolves the authenticated user, or nil.
	User(ctx context.Context) (*user.User, error)

	// ID returns the authenticated user's id.
	ID(ctx context.Context) (int64, bool)

	// Validate checks credentials without changing any state.
	Validate(ctx context.Context, creds provider.Credentials) (bool, error)

	// SetUser forces the resolved user, bypassing resolution. Middleware
	// uses it to share an already-authenticated user between guards.
	SetUser(u *user.User)
}

// StatefulGuard is a Guard that can persist and forget the user across
// requests.
type StatefulGuard interface {
	Guard

	// Attempt validates credentials and logs the user in on success.
	Attempt(ctx context.Context, creds provider.Credentials, remember bool) (*AuthResult, error)

	// Once authenticates for the current request only, touching no
	// session or cookie state.
	Once(ctx context.Context, creds provider.Credentials) (bool, error)

	// Login persists an already resolved user into the guard.
	Login(ctx context.Context, u *user.User, remember bool) error

	// LoginUsingID resolves the user by id and logs them in.
	LoginUsingID(ctx context.Context, id int64, remember bool) (*user.User, error)

	// OnceUsingID authenticates the user by id for this request only.
	OnceUsingID(ctx context.Context, id int64) (*user.User, error)

	// ViaRemember reports whether the current user came from the
	// remember-me cookie rather than explicit credentials.
	ViaRemember() bool

	// Logout removes the user from the guard and invalidates the
	// remember token.
	Logout(ctx context.Context) error
}
