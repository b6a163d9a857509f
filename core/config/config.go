package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrParse is returned when environment variables cannot be parsed into a config struct.
var ErrParse = errors.New("config: failed to parse environment")

var (
	dotenvOnce sync.Once
	cache      sync.Map // reflect.Type -> any (a T value)
	loadMu     sync.Mutex
)

// loadDotenv reads .env into the process environment once.
// A missing file is not an error; variables already set are not overridden.
func loadDotenv() {
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})
}

// Load populates cfg from the environment. The first call for a type parses
// the environment; later calls copy the cached value.
func Load[T any](cfg *T) error {
	typ := reflect.TypeFor[T]()
	if cached, ok := cache.Load(typ); ok {
		*cfg = cached.(T)
		return nil
	}

	loadMu.Lock()
	defer loadMu.Unlock()

	if cached, ok := cache.Load(typ); ok {
		*cfg = cached.(T)
		return nil
	}

	loadDotenv()

	var parsed T
	if err := env.Parse(&parsed); err != nil {
		return fmt.Errorf("%w: %T: %w", ErrParse, parsed, err)
	}

	cache.Store(typ, parsed)
	*cfg = parsed
	return nil
}

// MustLoad is like Load but panics on failure. Intended for startup code.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// ParseFrom populates cfg from the given variables only, ignoring the
// process environment, .env and the cache.
func ParseFrom[T any](cfg *T, environment map[string]string) error {
	var parsed T
	if err := env.ParseWithOptions(&parsed, env.Options{Environment: environment}); err != nil {
		return fmt.Errorf("%w: %T: %w", ErrParse, parsed, err)
	}
	*cfg = parsed
	return nil
}
