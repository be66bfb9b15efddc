package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// cache stores parsed configuration structs keyed by their type name so that
// each configuration type is parsed from the environment exactly once.
type cache struct {
	mu     sync.RWMutex
	values map[string]any
	onces  map[string]*sync.Once
}

var (
	globalCache = &cache{
		values: make(map[string]any),
		onces:  make(map[string]*sync.Once),
	}

	defaultEnvLoaded sync.Once
)

// Load loads environment variables into the provided configuration struct.
//
// The function first attempts to load the default .env file if it hasn't been
// loaded yet, then parses environment variables into the struct based on `env`
// field tags. Once a configuration type is successfully loaded, subsequent
// calls for the same type return the cached value.
//
// Example:
//
//	type HashConfig struct {
//		Driver string `env:"HASH_DRIVER" envDefault:"bcrypt"`
//		Cost   int    `env:"BCRYPT_COST" envDefault:"10"`
//	}
//
//	var cfg HashConfig
//	err := config.Load(&cfg)
func Load[T any](v *T) error {
	defaultEnvLoaded.Do(func() {
		// The .env file is optional
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	typeName := typeNameOf[T]()

	globalCache.mu.RLock()
	if cached, ok := globalCache.values[typeName]; ok {
		*v = cached.(T)
		globalCache.mu.RUnlock()
		return nil
	}
	globalCache.mu.RUnlock()

	globalCache.mu.Lock()
	once, exists := globalCache.onces[typeName]
	if !exists {
		once = new(sync.Once)
		globalCache.onces[typeName] = once
	}
	globalCache.mu.Unlock()

	var err error

	once.Do(func() {
		if parseErr := env.Parse(v); parseErr != nil {
			err = errors.Join(ErrParsingConfig, parseErr)
			return
		}

		globalCache.mu.Lock()
		globalCache.values[typeName] = *v // store a copy to avoid external modification
		globalCache.mu.Unlock()
	})

	if err != nil {
		return err
	}

	globalCache.mu.RLock()
	defer globalCache.mu.RUnlock()
	if cached, ok := globalCache.values[typeName]; ok {
		*v = cached.(T)
		return nil
	}

	return ErrConfigNotLoaded
}

// MustLoad works like Load but panics if configuration loading fails. Useful
// for configuration the application cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

func typeNameOf[T any]() string {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return fmt.Sprintf("%T", *new(T))
	}
	return t.String()
}
