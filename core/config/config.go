package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrNilTarget is returned when Load receives a nil pointer.
var ErrNilTarget = errors.New("config: target must be a non-nil pointer")

var (
	dotenvOnce sync.Once
	cacheMu    sync.Mutex
	cache      = map[reflect.Type]any{}
)

// Load parses environment variables into cfg. The first call for a given type
// reads the environment; later calls copy the cached value.
// A .env file in the working directory is loaded once, without overriding
// variables that are already set.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return ErrNilTarget
	}

	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	key := reflect.TypeFor[T]()

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if cached, ok := cache[key]; ok {
		*cfg = cached.(T)
		return nil
	}

	var loaded T
	if err := env.Parse(&loaded); err != nil {
		return fmt.Errorf("config: parse %s: %w", key, err)
	}

	cache[key] = loaded
	*cfg = loaded
	return nil
}

// MustLoad is like Load but panics on error. Intended for program startup.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// Reset drops every cached configuration so the next Load re-reads the
// environment. Tests use it after t.Setenv.
func Reset() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	clear(cache)
}
