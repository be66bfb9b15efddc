package guard

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/guardkit/guardkit/pkg/events"
	"github.com/guardkit/guardkit/pkg/logger"
	"github.com/guardkit/guardkit/pkg/provider"
	"github.com/guardkit/guardkit/pkg/user"
)

// StripBearer removes a leading "Bearer " scheme from an Authorization
// header value, case-insensitively.
func StripBearer(header string) string {
	const prefix = "bearer "
	if len(header) >= len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return strings.TrimSpace(header)
}

// TokenGuard authenticates stateless requests by handing the bearer token
// to the provider's token search path. Build one per request with the raw
// token extracted from it.
type TokenGuard struct {
	name     string
	users    provider.UserProvider
	rawToken string

	dispatcher events.Dispatcher
	log        *slog.Logger

	mu       sync.Mutex
	user     *user.User
	resolved bool
}

// TokenGuardOption configures a TokenGuard.
type TokenGuardOption func(*TokenGuard)

// WithTokenDispatcher wires an event dispatcher.
func WithTokenDispatcher(d events.Dispatcher) TokenGuardOption {
	return func(g *TokenGuard) {
		if d != nil {
			g.dispatcher = d
		}
	}
}

// WithTokenLogger sets a custom logger.
func WithTokenLogger(log *slog.Logger) TokenGuardOption {
	return func(g *TokenGuard) {
		if log != nil {
			g.log = log
		}
	}
}

// NewTokenGuard creates a guard for the given raw bearer token.
func NewTokenGuard(name string, users provider.UserProvider, rawToken string, opts ...TokenGuardOption) *TokenGuard {
	g := &TokenGuard{
		name:       name,
		users:      users,
		rawToken:   StripBearer(rawToken),
		dispatcher: events.Discard{},
		log:        logger.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *TokenGuard) Name() string { return g.name }

func (g *TokenGuard) Check(ctx context.Context) bool {
	u, err := g.User(ctx)
	return err == nil && u != nil
}

func (g *TokenGuard) Guest(ctx context.Context) bool {
	return !g.Check(ctx)
}

func (g *TokenGuard) User(ctx context.Context) (*user.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.resolved {
		return g.user, nil
	}
	g.resolved = true

	if g.rawToken == "" {
		return nil, nil
	}

	u, err := g.users.FindByCredentials(ctx, provider.Credentials{provider.TokenKey: g.rawToken})
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}

	g.user = u
	g.dispatcher.Dispatch(ctx, events.Authenticated{Guard: g.name, User: u})
	g.log.DebugContext(ctx, "bearer token resolved",
		logger.Component("guard"),
		logger.Guard(g.name),
		logger.UserID(u.ID),
	)
	return u, nil
}

func (g *TokenGuard) SetUser(u *user.User) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.user = u
	g.resolved = true
}

func (g *TokenGuard) ID(ctx context.Context) (int64, bool) {
	u, err := g.User(ctx)
	if err != nil || u == nil {
		return 0, false
	}
	return u.AuthIdentifier(), true
}

func (g *TokenGuard) Validate(ctx context.Context, creds provider.Credentials) (bool, error) {
	u, err := g.users.FindByCredentials(ctx, creds)
	if err != nil {
		return false, err
	}
	return u != nil, nil
}

var _ Guard = (*TokenGuard)(nil)
