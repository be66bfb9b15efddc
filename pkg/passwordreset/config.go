package passwordreset

import (
	"time"

	"github.com/guardkit/guardkit/pkg/hasher"
)

type repoConfig struct {
	appKey   string
	hasher   hasher.Hasher
	expires  time.Duration
	throttle time.Duration
	now      func() time.Time
}

// RepositoryOption configures a token repository.
type RepositoryOption func(*repoConfig)

// WithExpiry overrides the one hour token lifetime.
func WithExpiry(expires time.Duration) RepositoryOption {
	return func(c *repoConfig) {
		if expires > 0 {
			c.expires = expires
		}
	}
}

// WithThrottle overrides the one minute pause between reset links. Zero
// disables throttling.
func WithThrottle(throttle time.Duration) RepositoryOption {
	return func(c *repoConfig) {
		c.throttle = throttle
	}
}

// WithRepositoryClock overrides the time source, used by tests.
func WithRepositoryClock(now func() time.Time) RepositoryOption {
	return func(c *repoConfig) {
		if now != nil {
			c.now = now
		}
	}
}

func newRepoConfig(appKey string, h hasher.Hasher, opts []RepositoryOption) (repoConfig, error) {
	if appKey == "" {
		return repoConfig{}, ErrAppKeyRequired
	}

	cfg := repoConfig{
		appKey:   appKey,
		hasher:   h,
		expires:  time.Hour,
		throttle: time.Minute,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg, nil
}
