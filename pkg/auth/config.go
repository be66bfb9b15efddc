package auth

// Guard driver names understood out of the box. Additional drivers are
// registered with Manager.Extend.
const (
	DriverSession     = "session"
	DriverToken       = "token"
	DriverAccessToken = "access-token"
)

// Provider driver names understood out of the box. Additional drivers are
// registered with Manager.RegisterProviderDriver.
const (
	ProviderModel      = "model"
	ProviderConnection = "connection"
)

// GuardConfig declares one named guard: which driver runs it and which user
// provider it resolves users through.
type GuardConfig struct {
	Driver   string
	Provider string
}

// ProviderConfig declares one named user provider.
type ProviderConfig struct {
	Driver string

	// Store names the UserStore for the "model" driver. Empty selects the
	// sole registered store.
	Store string
}

// Config wires guard and provider names together, mirroring a typical
// auth configuration file.
type Config struct {
	// Default is the guard used when none is named explicitly.
	Default string

	Guards    map[string]GuardConfig
	Providers map[string]ProviderConfig
}

// DefaultConfig returns the conventional two-guard setup: a session guard
// for browsers and an access token guard for APIs, both over one "users"
// provider.
func DefaultConfig() Config {
	return Config{
		Default: "web",
		Guards: map[string]GuardConfig{
			"web": {Driver: DriverSession, Provider: "users"},
			"api": {Driver: DriverAccessToken, Provider: "users"},
		},
		Providers: map[string]ProviderConfig{
			"users": {Driver: ProviderModel},
		},
	}
}
