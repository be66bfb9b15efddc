package passwordreset

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/guardkit/guardkit/pkg/events"
	"github.com/guardkit/guardkit/pkg/hasher"
	"github.com/guardkit/guardkit/pkg/logger"
	"github.com/guardkit/guardkit/pkg/provider"
	"github.com/guardkit/guardkit/pkg/user"
)

// Status is a message key describing the outcome of a broker operation,
// ready to be fed into a translation layer.
type Status string

const (
	// StatusSent means a reset link was created and handed to the notifier.
	StatusSent Status = "passwords.sent"

	// StatusThrottled means a link was requested again too soon.
	StatusThrottled Status = "passwords.throttled"

	// StatusInvalidUser means the credentials matched no account.
	StatusInvalidUser Status = "passwords.user"

	// StatusInvalidToken means the token is wrong or expired.
	StatusInvalidToken Status = "passwords.token"

	// StatusReset means the password was changed.
	StatusReset Status = "passwords.reset"
)

// Notifier delivers the raw reset token to the user, typically by mail.
type Notifier func(ctx context.Context, u *user.User, token string) error

// PasswordUpdater persists the new password hash for the user.
type PasswordUpdater func(ctx context.Context, u *user.User, passwordHash string) error

// Broker drives the password reset flow: issue a throttled single-use token,
// verify it, swap the password and burn the token.
type Broker struct {
	users      provider.UserProvider
	tokens     TokenRepository
	hasher     hasher.Hasher
	dispatcher events.Dispatcher
	log        *slog.Logger
}

// BrokerOption configures a Broker.
type BrokerOption func(*Broker)

// WithBrokerDispatcher wires an event dispatcher.
func WithBrokerDispatcher(d events.Dispatcher) BrokerOption {
	return func(b *Broker) {
		if d != nil {
			b.dispatcher = d
		}
	}
}

// WithBrokerLogger sets a custom logger.
func WithBrokerLogger(log *slog.Logger) BrokerOption {
	return func(b *Broker) {
		if log != nil {
			b.log = log
		}
	}
}

// NewBroker creates a reset broker over the given provider, repository and
// hasher.
func NewBroker(users provider.UserProvider, tokens TokenRepository, h hasher.Hasher, opts ...BrokerOption) *Broker {
	b := &Broker{
		users:      users,
		tokens:     tokens,
		hasher:     h,
		dispatcher: events.Discard{},
		log:        logger.Discard(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SendResetLink creates a reset token for the account matching the
// credentials and hands it to the notifier. The returned status tells the
// caller what to show the user; err is reserved for infrastructure failures.
func (b *Broker) SendResetLink(ctx context.Context, creds provider.Credentials, notify Notifier) (Status, error) {
	u, err := b.users.FindByCredentials(ctx, creds)
	if err != nil {
		return "", err
	}
	if u == nil {
		return StatusInvalidUser, nil
	}

	recent, err := b.tokens.RecentlyCreated(ctx, u)
	if err != nil {
		return "", err
	}
	if recent {
		return StatusThrottled, nil
	}

	token, err := b.tokens.Create(ctx, u)
	if err != nil {
		return "", err
	}

	if err := notify(ctx, u, token); err != nil {
		return "", fmt.Errorf("passwordreset: notify: %w", err)
	}

	b.dispatcher.Dispatch(ctx, events.PasswordResetLinkSent{User: u})
	b.log.InfoContext(ctx, "password reset link sent",
		logger.Component("passwordreset"),
		logger.UserID(u.ID),
	)
	return StatusSent, nil
}

// Reset validates the token, rehashes the password and persists it through
// the updater. On success the token is destroyed so it can never be replayed.
func (b *Broker) Reset(ctx context.Context, creds provider.Credentials, token, password string, update PasswordUpdater) (Status, error) {
	u, err := b.users.FindByCredentials(ctx, creds)
	if err != nil {
		return "", err
	}
	if u == nil {
		return StatusInvalidUser, nil
	}

	valid, err := b.tokens.Exists(ctx, u, token)
	if err != nil {
		return "", err
	}
	if !valid {
		return StatusInvalidToken, nil
	}

	hash, err := b.hasher.Make(password)
	if err != nil {
		return "", fmt.Errorf("passwordreset: hash password: %w", err)
	}

	if err := update(ctx, u, hash); err != nil {
		return "", fmt.Errorf("passwordreset: update password: %w", err)
	}
	u.PasswordHash = hash

	if err := b.tokens.Destroy(ctx, u); err != nil {
		return "", err
	}

	b.dispatcher.Dispatch(ctx, events.PasswordReset{User: u})
	b.log.InfoContext(ctx, "password reset completed",
		logger.Component("passwordreset"),
		logger.UserID(u.ID),
	)
	return StatusReset, nil
}
