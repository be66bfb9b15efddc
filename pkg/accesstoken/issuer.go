package accesstoken

import (
	"context"
	"log/slog"
	"time"

	"github.com/guardkit/guardkit/pkg/logger"
	"github.com/guardkit/guardkit/pkg/scopes"
)

// Issuer creates and revokes access tokens against a Store.
type Issuer struct {
	store Store
	log   *slog.Logger
	now   func() time.Time
}

// IssuerOption configures an Issuer.
type IssuerOption func(*Issuer)

// WithIssuerLogger sets a custom logger.
func WithIssuerLogger(log *slog.Logger) IssuerOption {
	return func(i *Issuer) {
		if log != nil {
			i.log = log
		}
	}
}

// WithIssuerClock overrides the time source, used by tests.
func WithIssuerClock(now func() time.Time) IssuerOption {
	return func(i *Issuer) {
		if now != nil {
			i.now = now
		}
	}
}

// NewIssuer creates a token issuer bound to the given store.
func NewIssuer(store Store, opts ...IssuerOption) *Issuer {
	i := &Issuer{
		store: store,
		log:   logger.Discard(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Generate creates a new token for the user. With no scopes given the token
// receives the wildcard scope. The returned handle carries the raw secret —
// the only time it is ever available.
func (i *Issuer) Generate(ctx context.Context, userID int64, name string, tokenScopes ...string) (*NewToken, error) {
	if len(tokenScopes) == 0 {
		tokenScopes = []string{scopes.Wildcard}
	}

	plainText, err := GenerateSecret()
	if err != nil {
		return nil, err
	}

	t := &Token{
		UserID:    userID,
		Name:      name,
		TokenHash: Hash(plainText),
		Scopes:    tokenScopes,
		CreatedAt: i.now().UTC(),
	}

	if err := i.store.Create(ctx, t); err != nil {
		return nil, err
	}

	i.log.InfoContext(ctx, "access token issued",
		logger.Component("accesstoken"),
		logger.UserID(userID),
		slog.String("token_name", name),
	)

	return &NewToken{Token: t, PlainText: plainText}, nil
}

// Revoke deletes a single token by id.
func (i *Issuer) Revoke(ctx context.Context, id int64) error {
	return i.store.Revoke(ctx, id)
}

// RevokeAll deletes every token owned by the user.
func (i *Issuer) RevokeAll(ctx context.Context, userID int64) error {
	return i.store.RevokeAllForUser(ctx, userID)
}
