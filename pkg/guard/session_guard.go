package guard

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/guardkit/guardkit/pkg/audit"
	"github.com/guardkit/guardkit/pkg/cookie"
	"github.com/guardkit/guardkit/pkg/encrypter"
	"github.com/guardkit/guardkit/pkg/events"
	"github.com/guardkit/guardkit/pkg/logger"
	"github.com/guardkit/guardkit/pkg/provider"
	"github.com/guardkit/guardkit/pkg/ratelimit"
	"github.com/guardkit/guardkit/pkg/session"
	"github.com/guardkit/guardkit/pkg/user"
)

// defaultRememberMaxAge keeps the recaller cookie for five years.
const defaultRememberMaxAge = 5 * 365 * 24 * 60 * 60

// SessionGuard authenticates users against a session, falling back to the
// encrypted remember-me cookie. It memoizes the resolved user for the
// lifetime of the instance, so build one per request.
type SessionGuard struct {
	name    string
	users   provider.UserProvider
	session session.Session
	jar     cookie.Jar
	enc     encrypter.Encrypter

	dispatcher     events.Dispatcher
	limiter        *ratelimit.SlidingWindow
	recorder       audit.Recorder
	log            *slog.Logger
	clientIP       string
	rememberMaxAge int

	mu              sync.Mutex
	user            *user.User
	loggedOut       bool
	recallAttempted bool
	viaRemember     bool
	lastAttempted   *user.User
}

// SessionGuardOption configures a SessionGuard.
type SessionGuardOption func(*SessionGuard)

// WithDispatcher wires an event dispatcher.
func WithDispatcher(d events.Dispatcher) SessionGuardOption {
	return func(g *SessionGuard) {
		if d != nil {
			g.dispatcher = d
		}
	}
}

// WithLimiter throttles Attempt per identifier and client address.
func WithLimiter(l *ratelimit.SlidingWindow) SessionGuardOption {
	return func(g *SessionGuard) {
		g.limiter = l
	}
}

// WithRecorder records every attempt outcome.
func WithRecorder(r audit.Recorder) SessionGuardOption {
	return func(g *SessionGuard) {
		g.recorder = r
	}
}

// WithLogger sets a custom logger.
func WithLogger(log *slog.Logger) SessionGuardOption {
	return func(g *SessionGuard) {
		if log != nil {
			g.log = log
		}
	}
}

// WithClientIP tags throttle keys and audit records with the client address.
func WithClientIP(ip string) SessionGuardOption {
	return func(g *SessionGuard) {
		g.clientIP = ip
	}
}

// WithRememberMaxAge overrides the recaller cookie lifetime in seconds.
func WithRememberMaxAge(seconds int) SessionGuardOption {
	return func(g *SessionGuard) {
		if seconds > 0 {
			g.rememberMaxAge = seconds
		}
	}
}

// NewSessionGuard creates a session guard. The encrypter protects the
// remember-me cookie payload.
func NewSessionGuard(name string, users provider.UserProvider, sess session.Session, jar cookie.Jar, enc encrypter.Encrypter, opts ...SessionGuardOption) *SessionGuard {
	g := &SessionGuard{
		name:           name,
		users:          users,
		session:        sess,
		jar:            jar,
		enc:            enc,
		dispatcher:     events.Discard{},
		log:            logger.Discard(),
		rememberMaxAge: defaultRememberMaxAge,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *SessionGuard) Name() string { return g.name }

// sessionKey is where the authenticated user id lives in the session.
func (g *SessionGuard) sessionKey() string {
	return "login_" + g.name
}

// cookieName is the per-guard recaller cookie.
func (g *SessionGuard) cookieName() string {
	return "remember_" + g.name
}

func (g *SessionGuard) Check(ctx context.Context) bool {
	u, err := g.User(ctx)
	return err == nil && u != nil
}

func (g *SessionGuard) Guest(ctx context.Context) bool {
	return !g.Check(ctx)
}

// User resolves the current user: memoized value first, then the session,
// then one recaller cookie attempt. After Logout it stays nil regardless of
// leftover session state.
func (g *SessionGuard) User(ctx context.Context) (*user.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resolveUser(ctx)
}

func (g *SessionGuard) resolveUser(ctx context.Context) (*user.User, error) {
	if g.loggedOut {
		return nil, nil
	}
	if g.user != nil {
		return g.user, nil
	}

	if id, ok := g.sessionID(); ok {
		u, err := g.users.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if u != nil {
			g.setUser(ctx, u)
			return u, nil
		}
	}

	return g.userFromRecaller(ctx)
}

// sessionID reads the stored login id, tolerating the numeric widenings a
// session serializer may apply.
func (g *SessionGuard) sessionID() (int64, bool) {
	v, ok := g.session.Get(g.sessionKey())
	if !ok {
		return 0, false
	}

	switch id := v.(type) {
	case int64:
		return id, true
	case int:
		return int64(id), true
	case float64:
		return int64(id), true
	case string:
		parsed, err := strconv.ParseInt(id, 10, 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}

// userFromRecaller tries the remember-me cookie exactly once per instance.
func (g *SessionGuard) userFromRecaller(ctx context.Context) (*user.User, error) {
	if g.recallAttempted {
		return nil, nil
	}
	g.recallAttempted = true

	raw, ok := g.jar.Get(g.cookieName())
	if !ok {
		return nil, nil
	}

	decrypted, err := g.enc.Decrypt(raw)
	if err != nil {
		// A tampered or stale cookie is treated as absent.
		g.jar.Forget(g.cookieName())
		return nil, nil
	}

	recaller, ok := parseRecaller(decrypted)
	if !ok {
		g.jar.Forget(g.cookieName())
		return nil, nil
	}

	u, err := g.users.FindByRememberToken(ctx, recaller.ID, recaller.Token)
	if err != nil {
		return nil, err
	}
	if u == nil || u.AuthPasswordHash() != recaller.Hash {
		g.jar.Forget(g.cookieName())
		return nil, nil
	}

	if err := g.updateSession(u.AuthIdentifier()); err != nil {
		return nil, err
	}
	g.user = u
	g.viaRemember = true

	g.dispatcher.Dispatch(ctx, events.Login{Guard: g.name, User: u, Remember: true, ViaRemember: true})
	g.dispatcher.Dispatch(ctx, events.Authenticated{Guard: g.name, User: u})
	g.log.InfoContext(ctx, "user recalled from remember cookie",
		logger.Component("guard"),
		logger.Guard(g.name),
		logger.UserID(u.ID),
	)
	return u, nil
}

func (g *SessionGuard) ID(ctx context.Context) (int64, bool) {
	u, err := g.User(ctx)
	if err != nil || u == nil {
		return 0, false
	}
	return u.AuthIdentifier(), true
}

func (g *SessionGuard) Validate(ctx context.Context, creds provider.Credentials) (bool, error) {
	u, valid, err := g.checkCredentials(ctx, creds)
	if err != nil {
		return false, err
	}

	g.mu.Lock()
	g.lastAttempted = u
	g.mu.Unlock()
	return valid, nil
}

func (g *SessionGuard) checkCredentials(ctx context.Context, creds provider.Credentials) (*user.User, bool, error) {
	u, err := g.users.FindByCredentials(ctx, creds)
	if err != nil {
		return nil, false, err
	}
	if u == nil {
		return nil, false, nil
	}

	valid, err := g.users.ValidateCredentials(ctx, u, creds)
	if err != nil {
		return u, false, err
	}
	return u, valid, nil
}

// Attempt validates credentials and logs the user in. Throttling, events and
// audit records all hang off this path.
func (g *SessionGuard) Attempt(ctx context.Context, creds provider.Credentials, remember bool) (*AuthResult, error) {
	g.dispatcher.Dispatch(ctx, events.Attempting{Guard: g.name, Credentials: creds, Remember: remember})

	identifier := credentialIdentifier(creds)
	throttleKey := ratelimit.LoginKey(identifier, g.clientIP)

	if g.limiter != nil {
		res, err := g.limiter.Allow(ctx, throttleKey)
		if err != nil {
			return nil, err
		}
		if !res.Allowed {
			g.dispatcher.Dispatch(ctx, events.Lockout{Guard: g.name, Identifier: identifier, IP: g.clientIP})
			g.recordAttempt(ctx, identifier, nil, false)
			g.log.WarnContext(ctx, "login attempt throttled",
				logger.Component("guard"),
				logger.Guard(g.name),
				logger.IP(g.clientIP),
			)
			return &AuthResult{Reason: ReasonThrottle, RetryAfter: res.RetryAfter()}, nil
		}
	}

	u, valid, err := g.checkCredentials(ctx, creds)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	g.lastAttempted = u
	g.mu.Unlock()

	if !valid {
		g.dispatcher.Dispatch(ctx, events.Failed{Guard: g.name, User: u, Credentials: creds})
		g.recordAttempt(ctx, identifier, u, false)
		g.log.InfoContext(ctx, "login attempt failed",
			logger.Component("guard"),
			logger.Guard(g.name),
			logger.IP(g.clientIP),
		)

		// The located user is not exposed on the result; callers that
		// need it for lockout handling read LastAttempted.
		reason := ReasonFailed
		if u != nil {
			reason = ReasonPassword
		}
		return &AuthResult{Reason: reason}, nil
	}

	g.dispatcher.Dispatch(ctx, events.Validated{Guard: g.name, User: u})

	// Transparently upgrade hashes that predate the current parameters.
	if err := g.users.RehashPasswordIfRequired(ctx, u, creds); err != nil {
		return nil, err
	}

	if err := g.Login(ctx, u, remember); err != nil {
		return nil, err
	}

	if g.limiter != nil {
		if err := g.limiter.Reset(ctx, throttleKey); err != nil {
			return nil, err
		}
	}
	g.recordAttempt(ctx, identifier, u, true)

	return &AuthResult{OK: true, User: u}, nil
}

// Once authenticates for this request only; nothing is written to the
// session or cookies.
func (g *SessionGuard) Once(ctx context.Context, creds provider.Credentials) (bool, error) {
	u, valid, err := g.checkCredentials(ctx, creds)
	if err != nil {
		return false, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastAttempted = u
	if !valid {
		return false, nil
	}

	g.user = u
	g.loggedOut = false
	g.viaRemember = false
	return true, nil
}

// Login persists the user into the session. The session id is regenerated
// to defeat fixation; with remember set the recaller cookie is queued.
func (g *SessionGuard) Login(ctx context.Context, u *user.User, remember bool) error {
	if err := g.updateSession(u.AuthIdentifier()); err != nil {
		return err
	}

	if remember {
		if err := g.ensureRememberToken(ctx, u); err != nil {
			return err
		}
		if err := g.queueRecaller(u); err != nil {
			return err
		}
	}

	g.mu.Lock()
	g.user = u
	g.loggedOut = false
	g.viaRemember = false
	g.mu.Unlock()

	g.dispatcher.Dispatch(ctx, events.Login{Guard: g.name, User: u, Remember: remember})
	g.log.InfoContext(ctx, "user logged in",
		logger.Component("guard"),
		logger.Guard(g.name),
		logger.UserID(u.ID),
	)
	return nil
}

func (g *SessionGuard) LoginUsingID(ctx context.Context, id int64, remember bool) (*user.User, error) {
	u, err := g.users.FindByID(ctx, id)
	if err != nil || u == nil {
		return nil, err
	}
	if err := g.Login(ctx, u, remember); err != nil {
		return nil, err
	}
	return u, nil
}

func (g *SessionGuard) OnceUsingID(ctx context.Context, id int64) (*user.User, error) {
	u, err := g.users.FindByID(ctx, id)
	if err != nil || u == nil {
		return nil, err
	}

	g.mu.Lock()
	g.user = u
	g.loggedOut = false
	g.viaRemember = false
	g.mu.Unlock()
	return u, nil
}

func (g *SessionGuard) ViaRemember() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.viaRemember
}

// Logout removes the user from the session, rotates the remember token so
// every outstanding recaller cookie dies, and leaves the guard logged out
// for the rest of the request.
func (g *SessionGuard) Logout(ctx context.Context) error {
	g.mu.Lock()
	u, err := g.resolveUser(ctx)
	g.mu.Unlock()
	if err != nil {
		return err
	}

	if u != nil && u.GetRememberToken() != "" {
		if err := g.cycleRememberToken(ctx, u); err != nil {
			return err
		}
	}

	g.session.Remove(g.sessionKey())
	if err := g.session.Regenerate(true); err != nil {
		return err
	}
	g.jar.Forget(g.cookieName())

	g.mu.Lock()
	g.user = nil
	g.loggedOut = true
	g.viaRemember = false
	g.mu.Unlock()

	if u != nil {
		g.dispatcher.Dispatch(ctx, events.Logout{Guard: g.name, User: u})
		g.log.InfoContext(ctx, "user logged out",
			logger.Component("guard"),
			logger.Guard(g.name),
			logger.UserID(u.ID),
		)
	}
	return nil
}

// LastAttempted returns the user located by the most recent Attempt or
// Validate call, successful or not.
func (g *SessionGuard) LastAttempted() *user.User {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastAttempted
}

func (g *SessionGuard) updateSession(id int64) error {
	if err := g.session.Regenerate(false); err != nil {
		return fmt.Errorf("guard: regenerate session: %w", err)
	}
	g.session.Put(g.sessionKey(), id)
	return nil
}

// ensureRememberToken creates the user's remember token on first
// remembered login; later logins reuse it so other devices stay valid.
func (g *SessionGuard) ensureRememberToken(ctx context.Context, u *user.User) error {
	if u.GetRememberToken() != "" {
		return nil
	}
	return g.cycleRememberToken(ctx, u)
}

func (g *SessionGuard) cycleRememberToken(ctx context.Context, u *user.User) error {
	token, err := newRememberToken()
	if err != nil {
		return err
	}
	return g.users.UpdateRememberToken(ctx, u, token)
}

func (g *SessionGuard) queueRecaller(u *user.User) error {
	payload := Recaller{
		ID:    u.AuthIdentifier(),
		Token: u.GetRememberToken(),
		Hash:  u.AuthPasswordHash(),
	}

	encrypted, err := g.enc.Encrypt(payload.String())
	if err != nil {
		return fmt.Errorf("guard: encrypt recaller: %w", err)
	}

	g.jar.Queue(cookie.Cookie{
		Name:   g.cookieName(),
		Value:  encrypted,
		MaxAge: g.rememberMaxAge,
	})
	return nil
}

// SetUser forces the resolved user for this instance without touching the
// session. No events fire; middleware uses it to share a user resolved by
// another guard.
func (g *SessionGuard) SetUser(u *user.User) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.user = u
	if u != nil {
		g.loggedOut = false
	}
}

func (g *SessionGuard) setUser(ctx context.Context, u *user.User) {
	g.user = u
	g.loggedOut = false
	g.dispatcher.Dispatch(ctx, events.Authenticated{Guard: g.name, User: u})
}

func (g *SessionGuard) recordAttempt(ctx context.Context, identifier string, u *user.User, success bool) {
	if g.recorder == nil {
		return
	}

	attempt := audit.LoginAttempt{
		Guard:      g.name,
		Identifier: identifier,
		IP:         g.clientIP,
		Success:    success,
	}
	if u != nil {
		id := u.AuthIdentifier()
		attempt.UserID = &id
	}

	if err := g.recorder.Record(ctx, attempt); err != nil {
		g.log.ErrorContext(ctx, "recording login attempt failed",
			logger.Component("guard"),
			logger.Error(err),
		)
	}
}

// credentialIdentifier picks the identifying value used for throttle keys
// and audit records.
func credentialIdentifier(creds provider.Credentials) string {
	for _, key := range []string{"email", "username", "id"} {
		if v, ok := creds[key]; ok {
			return fmt.Sprint(v)
		}
	}
	return ""
}

var _ StatefulGuard = (*SessionGuard)(nil)
