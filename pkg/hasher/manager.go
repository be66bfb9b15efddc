package hasher

import (
	"fmt"
	"sync"
)

// Driver names supported out of the box.
const (
	DriverBcrypt   = "bcrypt"
	DriverArgon2i  = "argon2i"
	DriverArgon2id = "argon2id"
)

// Config selects and parameterizes the hashing driver. Loadable from the
// environment via pkg/config.
type Config struct {
	Driver        string `env:"HASH_DRIVER" envDefault:"bcrypt"`
	BcryptCost    int    `env:"BCRYPT_COST" envDefault:"10"`
	Argon2Memory  uint32 `env:"ARGON2_MEMORY" envDefault:"65536"`
	Argon2Time    uint32 `env:"ARGON2_TIME" envDefault:"1"`
	Argon2Threads uint8  `env:"ARGON2_THREADS" envDefault:"4"`
}

// DriverFunc constructs a Hasher from the shared config. Used to register
// custom drivers via Manager.Extend.
type DriverFunc func(Config) (Hasher, error)

// Manager resolves hashing drivers by name and delegates to the configured
// default. Resolved drivers are cached per manager.
type Manager struct {
	config Config

	mu      sync.Mutex
	custom  map[string]DriverFunc
	drivers map[string]Hasher
}

// NewManager creates a hash manager for the given configuration. The default
// driver is resolved lazily so custom drivers can be registered first.
func NewManager(config Config) *Manager {
	if config.Driver == "" {
		config.Driver = DriverBcrypt
	}
	return &Manager{
		config:  config,
		custom:  make(map[string]DriverFunc),
		drivers: make(map[string]Hasher),
	}
}

// Extend registers a custom driver constructor. Custom drivers take
// precedence over built-in ones with the same name.
func (m *Manager) Extend(name string, fn DriverFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.custom[name] = fn
}

// Driver returns the named driver, resolving and caching it on first use.
// An unknown name is a configuration error.
func (m *Manager) Driver(name string) (Hasher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if h, ok := m.drivers[name]; ok {
		return h, nil
	}

	h, err := m.resolve(name)
	if err != nil {
		return nil, err
	}

	m.drivers[name] = h
	return h, nil
}

func (m *Manager) resolve(name string) (Hasher, error) {
	if fn, ok := m.custom[name]; ok {
		return fn(m.config)
	}

	switch name {
	case DriverBcrypt:
		return NewBcrypt(m.config.BcryptCost), nil
	case DriverArgon2i:
		return NewArgon2i(m.argon2Params()), nil
	case DriverArgon2id:
		return NewArgon2id(m.argon2Params()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, name)
	}
}

func (m *Manager) argon2Params() Argon2Params {
	return Argon2Params{
		Memory:  m.config.Argon2Memory,
		Time:    m.config.Argon2Time,
		Threads: m.config.Argon2Threads,
	}
}

// Make hashes the value with the default driver.
func (m *Manager) Make(value string) (string, error) {
	h, err := m.Driver(m.config.Driver)
	if err != nil {
		return "", err
	}
	return h.Make(value)
}

// Check verifies the value against the hash with the default driver.
func (m *Manager) Check(value, hash string) (bool, error) {
	h, err := m.Driver(m.config.Driver)
	if err != nil {
		return false, err
	}
	return h.Check(value, hash)
}

// NeedsRehash reports whether the hash should be regenerated under the
// default driver's current parameters. Unresolvable drivers report true so
// misconfiguration surfaces at Make time rather than being masked here.
func (m *Manager) NeedsRehash(hash string) bool {
	h, err := m.Driver(m.config.Driver)
	if err != nil {
		return true
	}
	return h.NeedsRehash(hash)
}
