package events

import (
	"github.com/guardkit/guardkit/pkg/provider"
	"github.com/guardkit/guardkit/pkg/user"
)

// Event is implemented by every authentication event. Name returns a stable
// dotted identifier listeners can subscribe to.
type Event interface {
	Name() string
}

// Attempting fires before credentials are checked.
type Attempting struct {
	Guard       string
	Credentials provider.Credentials
	Remember    bool
}

func (Attempting) Name() string { return "auth.attempting" }

// Validated fires after credentials checked out but before the user is
// persisted into any state.
type Validated struct {
	Guard string
	User  *user.User
}

func (Validated) Name() string { return "auth.validated" }

// Login fires when a user is persisted into a stateful guard. ViaRemember is
// set when the login came from a recaller cookie rather than credentials.
type Login struct {
	Guard       string
	User        *user.User
	Remember    bool
	ViaRemember bool
}

func (Login) Name() string { return "auth.login" }

// Authenticated fires the first time a guard resolves its user within a
// request, regardless of how the user was established.
type Authenticated struct {
	Guard string
	User  *user.User
}

func (Authenticated) Name() string { return "auth.authenticated" }

// Failed fires when credentials do not match. User is nil when no record was
// found for the identifying credentials.
type Failed struct {
	Guard       string
	User        *user.User
	Credentials provider.Credentials
}

func (Failed) Name() string { return "auth.failed" }

// Lockout fires when an attempt is rejected by the login throttle before any
// credential check.
type Lockout struct {
	Guard      string
	Identifier string
	IP         string
}

func (Lockout) Name() string { return "auth.lockout" }

// Logout fires after a user is removed from a stateful guard.
type Logout struct {
	Guard string
	User  *user.User
}

func (Logout) Name() string { return "auth.logout" }

// PasswordResetLinkSent fires when a reset token was created and handed to
// the notifier.
type PasswordResetLinkSent struct {
	User *user.User
}

func (PasswordResetLinkSent) Name() string { return "auth.password_reset_link_sent" }

// PasswordReset fires after a password was successfully reset.
type PasswordReset struct {
	User *user.User
}

func (PasswordReset) Name() string { return "auth.password_reset" }

// Verified fires when a user's email address is marked verified.
type Verified struct {
	User *user.User
}

func (Verified) Name() string { return "auth.verified" }
