// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package loads a .env file on first use and uses the caarlos0/env library
// for parsing environment variables into struct fields.
//
// Basic usage:
//
//	import "github.com/smcd-ma/portal/core/config"
//
//	type APIConfig struct {
//		BaseURL string        `env:"API_BASE_URL" envDefault:"http://localhost:8081/api"`
//		Timeout time.Duration `env:"API_TIMEOUT" envDefault:"15s"`
//	}
//
//	func main() {
//		var api APIConfig
//		config.MustLoad(&api)
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per process. Different types are
// cached independently. Tests that change the environment call Reset before
// loading again.
package config
