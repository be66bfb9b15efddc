package auth

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/guardkit/guardkit/pkg/accesstoken"
	"github.com/guardkit/guardkit/pkg/audit"
	"github.com/guardkit/guardkit/pkg/encrypter"
	"github.com/guardkit/guardkit/pkg/events"
	"github.com/guardkit/guardkit/pkg/hasher"
	"github.com/guardkit/guardkit/pkg/logger"
	"github.com/guardkit/guardkit/pkg/provider"
	"github.com/guardkit/guardkit/pkg/ratelimit"
)

// ProviderFactory builds a user provider for a named provider config.
type ProviderFactory func(m *Manager, name string, cfg ProviderConfig) (provider.UserProvider, error)

// Manager owns the auth configuration and the long-lived pieces: user
// providers, hasher, encrypter, dispatcher, throttle and audit sinks.
// Request-scoped guards are built through Manager.Request.
type Manager struct {
	cfg        Config
	hasher     hasher.Hasher
	enc        encrypter.Encrypter
	dispatcher events.Dispatcher
	limiter    *ratelimit.SlidingWindow
	recorder   audit.Recorder
	tokens     accesstoken.Store
	stores     map[string]provider.UserStore
	db         provider.DB
	log        *slog.Logger

	mu                sync.Mutex
	providers         map[string]provider.UserProvider
	guardFactories    map[string]GuardFactory
	providerFactories map[string]ProviderFactory
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithHasher overrides the default bcrypt hasher.
func WithHasher(h hasher.Hasher) ManagerOption {
	return func(m *Manager) {
		if h != nil {
			m.hasher = h
		}
	}
}

// WithEncrypter supplies the encrypter protecting remember-me cookies.
// Required for the session guard driver.
func WithEncrypter(enc encrypter.Encrypter) ManagerOption {
	return func(m *Manager) {
		m.enc = enc
	}
}

// WithDispatcher wires the event dispatcher handed to every guard.
func WithDispatcher(d events.Dispatcher) ManagerOption {
	return func(m *Manager) {
		if d != nil {
			m.dispatcher = d
		}
	}
}

// WithLimiter throttles session guard attempts.
func WithLimiter(l *ratelimit.SlidingWindow) ManagerOption {
	return func(m *Manager) {
		m.limiter = l
	}
}

// WithRecorder records attempt outcomes.
func WithRecorder(r audit.Recorder) ManagerOption {
	return func(m *Manager) {
		m.recorder = r
	}
}

// WithTokenStore supplies the access token store. Required for the
// access-token guard driver and the provider token search path.
func WithTokenStore(s accesstoken.Store) ManagerOption {
	return func(m *Manager) {
		m.tokens = s
	}
}

// WithUserStore registers a named UserStore for "model" providers.
func WithUserStore(name string, s provider.UserStore) ManagerOption {
	return func(m *Manager) {
		m.stores[name] = s
	}
}

// WithDB supplies the connection pool for "connection" providers.
func WithDB(db provider.DB) ManagerOption {
	return func(m *Manager) {
		m.db = db
	}
}

// WithLogger sets a custom logger.
func WithLogger(log *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// NewManager creates a manager from the config. Unconfigured pieces fall
// back to safe defaults: bcrypt hashing, discarded events and logs.
func NewManager(cfg Config, opts ...ManagerOption) *Manager {
	m := &Manager{
		cfg:               cfg,
		hasher:            hasher.NewBcrypt(0),
		dispatcher:        events.Discard{},
		stores:            make(map[string]provider.UserStore),
		log:               logger.Discard(),
		providers:         make(map[string]provider.UserProvider),
		guardFactories:    make(map[string]GuardFactory),
		providerFactories: make(map[string]ProviderFactory),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.guardFactories[DriverSession] = sessionGuardFactory
	m.guardFactories[DriverToken] = tokenGuardFactory
	m.guardFactories[DriverAccessToken] = accessTokenGuardFactory

	m.providerFactories[ProviderModel] = modelProviderFactory
	m.providerFactories[ProviderConnection] = connectionProviderFactory

	return m
}

// DefaultGuard returns the configured default guard name.
func (m *Manager) DefaultGuard() string {
	return m.cfg.Default
}

// Extend registers a custom guard driver. Calling it with a built-in driver
// name replaces that driver.
func (m *Manager) Extend(driver string, factory GuardFactory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.guardFactories[driver] = factory
}

// RegisterProviderDriver registers a custom user provider driver.
func (m *Manager) RegisterProviderDriver(driver string, factory ProviderFactory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.providerFactories[driver] = factory
}

// UserProvider resolves and caches the named user provider.
func (m *Manager) UserProvider(name string) (provider.UserProvider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p, ok := m.providers[name]; ok {
		return p, nil
	}

	cfg, ok := m.cfg.Providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUndefinedProvider, name)
	}

	factory, ok := m.providerFactories[cfg.Driver]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProviderDriver, cfg.Driver)
	}

	p, err := factory(m, name, cfg)
	if err != nil {
		return nil, err
	}

	m.providers[name] = p
	return p, nil
}

func modelProviderFactory(m *Manager, name string, cfg ProviderConfig) (provider.UserProvider, error) {
	store, err := m.userStore(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("provider %q: %w", name, err)
	}

	var opts []provider.StoreProviderOption
	if m.tokens != nil {
		opts = append(opts, provider.WithAccessTokens(m.tokens))
	}
	return provider.NewStoreProvider(store, m.hasher, opts...), nil
}

func connectionProviderFactory(m *Manager, name string, _ ProviderConfig) (provider.UserProvider, error) {
	if m.db == nil {
		return nil, fmt.Errorf("provider %q: %w: database pool", name, ErrMissingDependency)
	}

	var opts []provider.PostgresProviderOption
	if m.tokens != nil {
		opts = append(opts, provider.WithPostgresAccessTokens(m.tokens))
	}
	return provider.NewPostgresProvider(m.db, m.hasher, opts...), nil
}

// userStore picks the named store, or the sole registered one when the
// config leaves the name empty.
func (m *Manager) userStore(name string) (provider.UserStore, error) {
	if name != "" {
		s, ok := m.stores[name]
		if !ok {
			return nil, fmt.Errorf("%w: user store %q", ErrMissingDependency, name)
		}
		return s, nil
	}

	if len(m.stores) == 1 {
		for _, s := range m.stores {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: user store", ErrMissingDependency)
}
