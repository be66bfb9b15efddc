package passwordreset

import (
	"context"
	"log/slog"
	"time"

	"github.com/guardkit/guardkit/pkg/events"
	"github.com/guardkit/guardkit/pkg/logger"
	"github.com/guardkit/guardkit/pkg/provider"
	"github.com/guardkit/guardkit/pkg/token"
	"github.com/guardkit/guardkit/pkg/user"
)

const (
	// StatusVerificationSent means a verification link was handed to the
	// notifier.
	StatusVerificationSent Status = "verification.sent"

	// StatusVerified means the email address is now verified.
	StatusVerified Status = "verification.verified"

	// StatusAlreadyVerified means the address was verified before.
	StatusAlreadyVerified Status = "verification.already_verified"

	// StatusVerificationInvalid means the link is malformed, forged,
	// expired or points at a missing account.
	StatusVerificationInvalid Status = "verification.invalid"
)

type verifyClaims struct {
	UserID    int64  `json:"uid"`
	Email     string `json:"email"`
	ExpiresAt int64  `json:"exp"`
}

// VerificationBroker issues and redeems signed email verification links.
// Unlike reset tokens these are stateless: the claim set is signed with the
// application secret and carries its own expiry.
type VerificationBroker struct {
	users      provider.UserProvider
	appKey     string
	ttl        time.Duration
	dispatcher events.Dispatcher
	log        *slog.Logger
	now        func() time.Time
}

// VerificationOption configures a VerificationBroker.
type VerificationOption func(*VerificationBroker)

// WithVerificationTTL overrides the one hour link lifetime.
func WithVerificationTTL(ttl time.Duration) VerificationOption {
	return func(b *VerificationBroker) {
		if ttl > 0 {
			b.ttl = ttl
		}
	}
}

// WithVerificationDispatcher wires an event dispatcher.
func WithVerificationDispatcher(d events.Dispatcher) VerificationOption {
	return func(b *VerificationBroker) {
		if d != nil {
			b.dispatcher = d
		}
	}
}

// WithVerificationLogger sets a custom logger.
func WithVerificationLogger(log *slog.Logger) VerificationOption {
	return func(b *VerificationBroker) {
		if log != nil {
			b.log = log
		}
	}
}

// WithVerificationClock overrides the time source, used by tests.
func WithVerificationClock(now func() time.Time) VerificationOption {
	return func(b *VerificationBroker) {
		if now != nil {
			b.now = now
		}
	}
}

// NewVerificationBroker creates a broker signing links with the application
// secret.
func NewVerificationBroker(users provider.UserProvider, appKey string, opts ...VerificationOption) (*VerificationBroker, error) {
	if appKey == "" {
		return nil, ErrAppKeyRequired
	}

	b := &VerificationBroker{
		users:      users,
		appKey:     appKey,
		ttl:        time.Hour,
		dispatcher: events.Discard{},
		log:        logger.Discard(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// SendVerifyLink signs a verification token for the user and hands it to the
// notifier. Already verified addresses are reported without sending.
func (b *VerificationBroker) SendVerifyLink(ctx context.Context, u *user.User, notify Notifier) (Status, error) {
	if u.HasVerifiedEmail() {
		return StatusAlreadyVerified, nil
	}

	tok, err := token.Generate(verifyClaims{
		UserID:    u.ID,
		Email:     u.Email,
		ExpiresAt: b.now().Add(b.ttl).Unix(),
	}, b.appKey)
	if err != nil {
		return "", err
	}

	if err := notify(ctx, u, tok); err != nil {
		return "", err
	}

	b.log.InfoContext(ctx, "verification link sent",
		logger.Component("verification"),
		logger.UserID(u.ID),
	)
	return StatusVerificationSent, nil
}

// MarkVerified persists the verified state for the user.
type MarkVerified func(ctx context.Context, u *user.User) error

// Verify redeems a verification token, marking the account's email address
// verified through the updater.
func (b *VerificationBroker) Verify(ctx context.Context, raw string, update MarkVerified) (Status, error) {
	claims, err := token.Parse[verifyClaims](raw, b.appKey)
	if err != nil {
		return StatusVerificationInvalid, nil
	}

	if b.now().Unix() >= claims.ExpiresAt {
		return StatusVerificationInvalid, nil
	}

	u, err := b.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", err
	}
	// The email claim guards against links minted before an address change.
	if u == nil || u.Email != claims.Email {
		return StatusVerificationInvalid, nil
	}

	if u.HasVerifiedEmail() {
		return StatusAlreadyVerified, nil
	}

	u.MarkEmailAsVerified()
	if err := update(ctx, u); err != nil {
		return "", err
	}

	b.dispatcher.Dispatch(ctx, events.Verified{User: u})
	b.log.InfoContext(ctx, "email verified",
		logger.Component("verification"),
		logger.UserID(u.ID),
	)
	return StatusVerified, nil
}
