package guard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/guardkit/guardkit/pkg/accesstoken"
	"github.com/guardkit/guardkit/pkg/events"
	"github.com/guardkit/guardkit/pkg/logger"
	"github.com/guardkit/guardkit/pkg/provider"
	"github.com/guardkit/guardkit/pkg/user"
)

// AccessTokenGuard authenticates API requests directly against the access
// token store: the bearer secret is hashed, looked up, its last-used time
// touched and the owning user returned with the token bound for scope
// checks.
type AccessTokenGuard struct {
	name     string
	users    provider.UserProvider
	tokens   accesstoken.Store
	rawToken string

	dispatcher events.Dispatcher
	log        *slog.Logger
	now        func() time.Time

	mu       sync.Mutex
	user     *user.User
	resolved bool
}

// AccessTokenGuardOption configures an AccessTokenGuard.
type AccessTokenGuardOption func(*AccessTokenGuard)

// WithAccessDispatcher wires an event dispatcher.
func WithAccessDispatcher(d events.Dispatcher) AccessTokenGuardOption {
	return func(g *AccessTokenGuard) {
		if d != nil {
			g.dispatcher = d
		}
	}
}

// WithAccessLogger sets a custom logger.
func WithAccessLogger(log *slog.Logger) AccessTokenGuardOption {
	return func(g *AccessTokenGuard) {
		if log != nil {
			g.log = log
		}
	}
}

// WithAccessClock overrides the time source, used by tests.
func WithAccessClock(now func() time.Time) AccessTokenGuardOption {
	return func(g *AccessTokenGuard) {
		if now != nil {
			g.now = now
		}
	}
}

// NewAccessTokenGuard creates a guard for the given raw bearer token.
func NewAccessTokenGuard(name string, users provider.UserProvider, tokens accesstoken.Store, rawToken string, opts ...AccessTokenGuardOption) *AccessTokenGuard {
	g := &AccessTokenGuard{
		name:       name,
		users:      users,
		tokens:     tokens,
		rawToken:   StripBearer(rawToken),
		dispatcher: events.Discard{},
		log:        logger.Discard(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *AccessTokenGuard) Name() string { return g.name }

func (g *AccessTokenGuard) Check(ctx context.Context) bool {
	u, err := g.User(ctx)
	return err == nil && u != nil
}

func (g *AccessTokenGuard) Guest(ctx context.Context) bool {
	return !g.Check(ctx)
}

func (g *AccessTokenGuard) User(ctx context.Context) (*user.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.resolved {
		return g.user, nil
	}
	g.resolved = true

	if g.rawToken == "" {
		return nil, nil
	}

	t, err := g.tokens.FindByHash(ctx, accesstoken.Hash(g.rawToken))
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, nil
	}

	u, err := g.users.FindByID(ctx, t.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}

	if err := g.tokens.Touch(ctx, t.ID, g.now().UTC()); err != nil {
		return nil, err
	}

	g.user = u.WithAccessToken(t)
	g.dispatcher.Dispatch(ctx, events.Authenticated{Guard: g.name, User: g.user})
	g.log.DebugContext(ctx, "access token resolved",
		logger.Component("guard"),
		logger.Guard(g.name),
		logger.UserID(u.ID),
		slog.String("token_name", t.Name),
	)
	return g.user, nil
}

func (g *AccessTokenGuard) SetUser(u *user.User) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.user = u
	g.resolved = true
}

func (g *AccessTokenGuard) ID(ctx context.Context) (int64, bool) {
	u, err := g.User(ctx)
	if err != nil || u == nil {
		return 0, false
	}
	return u.AuthIdentifier(), true
}

func (g *AccessTokenGuard) Validate(ctx context.Context, creds provider.Credentials) (bool, error) {
	raw, ok := creds[provider.TokenKey].(string)
	if !ok || raw == "" {
		return false, nil
	}

	t, err := g.tokens.FindByHash(ctx, accesstoken.Hash(StripBearer(raw)))
	if err != nil {
		return false, err
	}
	return t != nil, nil
}

var _ Guard = (*AccessTokenGuard)(nil)
