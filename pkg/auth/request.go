package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/guardkit/guardkit/pkg/cookie"
	"github.com/guardkit/guardkit/pkg/guard"
	"github.com/guardkit/guardkit/pkg/provider"
	"github.com/guardkit/guardkit/pkg/session"
)

// GuardFactory builds a guard for one request.
type GuardFactory func(r *Request, name string, cfg GuardConfig, users provider.UserProvider) (guard.Guard, error)

// Request carries the per-request state guards need: the session, the
// cookie jar, the bearer token and the client address. Guards built through
// it are cached for the request's lifetime, so every caller sees the same
// memoized user.
type Request struct {
	m *Manager

	session  session.Session
	jar      cookie.Jar
	bearer   string
	clientIP string

	mu     sync.Mutex
	guards map[string]guard.Guard
}

// RequestOption attaches request state.
type RequestOption func(*Request)

// WithSession attaches the request's session.
func WithSession(s session.Session) RequestOption {
	return func(r *Request) {
		r.session = s
	}
}

// WithCookieJar attaches the request's cookie jar.
func WithCookieJar(j cookie.Jar) RequestOption {
	return func(r *Request) {
		r.jar = j
	}
}

// WithBearerToken attaches the Authorization header value; a "Bearer "
// scheme is stripped by the token guards.
func WithBearerToken(token string) RequestOption {
	return func(r *Request) {
		r.bearer = token
	}
}

// WithClientIP attaches the client address for throttling and audit.
func WithClientIP(ip string) RequestOption {
	return func(r *Request) {
		r.clientIP = ip
	}
}

// Request scopes the manager to one request.
func (m *Manager) Request(opts ...RequestOption) *Request {
	r := &Request{
		m:      m,
		guards: make(map[string]guard.Guard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Guard resolves the named guard, building it on first use.
func (r *Request) Guard(name string) (guard.Guard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g, ok := r.guards[name]; ok {
		return g, nil
	}

	cfg, ok := r.m.cfg.Guards[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUndefinedGuard, name)
	}

	r.m.mu.Lock()
	factory, ok := r.m.guardFactories[cfg.Driver]
	r.m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGuardDriver, cfg.Driver)
	}

	users, err := r.m.UserProvider(cfg.Provider)
	if err != nil {
		return nil, err
	}

	g, err := factory(r, name, cfg, users)
	if err != nil {
		return nil, err
	}

	r.guards[name] = g
	return g, nil
}

// Resolve returns the guard selected by the context, falling back to the
// configured default.
func (r *Request) Resolve(ctx context.Context) (guard.Guard, error) {
	if name, ok := GuardName(ctx); ok {
		return r.Guard(name)
	}
	return r.Guard(r.m.cfg.Default)
}

// MustGuard is Guard for configurations known to be valid; it panics on a
// resolution error.
func (r *Request) MustGuard(name string) guard.Guard {
	g, err := r.Guard(name)
	if err != nil {
		panic(err)
	}
	return g
}

func sessionGuardFactory(r *Request, name string, _ GuardConfig, users provider.UserProvider) (guard.Guard, error) {
	if r.session == nil {
		return nil, fmt.Errorf("guard %q: %w: session", name, ErrMissingDependency)
	}
	if r.jar == nil {
		return nil, fmt.Errorf("guard %q: %w: cookie jar", name, ErrMissingDependency)
	}
	if r.m.enc == nil {
		return nil, fmt.Errorf("guard %q: %w: encrypter", name, ErrMissingDependency)
	}

	opts := []guard.SessionGuardOption{
		guard.WithDispatcher(r.m.dispatcher),
		guard.WithLogger(r.m.log),
		guard.WithClientIP(r.clientIP),
	}
	if r.m.limiter != nil {
		opts = append(opts, guard.WithLimiter(r.m.limiter))
	}
	if r.m.recorder != nil {
		opts = append(opts, guard.WithRecorder(r.m.recorder))
	}

	return guard.NewSessionGuard(name, users, r.session, r.jar, r.m.enc, opts...), nil
}

func tokenGuardFactory(r *Request, name string, _ GuardConfig, users provider.UserProvider) (guard.Guard, error) {
	return guard.NewTokenGuard(name, users, r.bearer,
		guard.WithTokenDispatcher(r.m.dispatcher),
		guard.WithTokenLogger(r.m.log),
	), nil
}

func accessTokenGuardFactory(r *Request, name string, _ GuardConfig, users provider.UserProvider) (guard.Guard, error) {
	if r.m.tokens == nil {
		return nil, fmt.Errorf("guard %q: %w: access token store", name, ErrMissingDependency)
	}

	return guard.NewAccessTokenGuard(name, users, r.m.tokens, r.bearer,
		guard.WithAccessDispatcher(r.m.dispatcher),
		guard.WithAccessLogger(r.m.log),
	), nil
}
