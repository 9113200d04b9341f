// Package config loads process configuration from the environment.
// Loan policy values (amount, period, and age bounds) are code constants in
// the decision package, not configuration.
package config

import (
	"os"
	"strconv"
	"time"
)

// Registry lookup modes.
const (
	RegistryModeMock = "mock"
	RegistryModeHTTP = "http"
)

// Config captures everything the server binary needs at startup.
type Config struct {
	Addr        string
	OpsAddr     string
	Environment string

	JWTSigningKey  string
	TokenTTL       time.Duration
	AdminTokenHash string

	Registry RegistryConfig
	Redis    RedisConfig
}

// RegistryConfig controls how segment profiles are resolved.
type RegistryConfig struct {
	Mode        string
	URL         string
	APIKey      string
	Timeout     time.Duration
	CacheTTL    time.Duration
	MockLatency time.Duration
}

// RedisConfig controls the optional profile cache. An empty URL disables
// Redis; the service falls back to the in-memory cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Config from DECISIO_* environment variables so main
// stays lean.
func FromEnv() Config {
	return Config{
		Addr:        envOr("DECISIO_ADDR", ":8080"),
		OpsAddr:     envOr("DECISIO_OPS_ADDR", ":9090"),
		Environment: envOr("DECISIO_ENV", "development"),

		// Dev-only default; production deployments must override.
		JWTSigningKey:  envOr("DECISIO_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		TokenTTL:       durationOr("DECISIO_TOKEN_TTL", 15*time.Minute),
		AdminTokenHash: os.Getenv("DECISIO_ADMIN_TOKEN_HASH"),

		Registry: RegistryConfig{
			Mode:        envOr("DECISIO_REGISTRY_MODE", RegistryModeMock),
			URL:         os.Getenv("DECISIO_REGISTRY_URL"),
			APIKey:      os.Getenv("DECISIO_REGISTRY_API_KEY"),
			Timeout:     durationOr("DECISIO_REGISTRY_TIMEOUT", 5*time.Second),
			CacheTTL:    durationOr("DECISIO_REGISTRY_CACHE_TTL", 5*time.Minute),
			MockLatency: durationOr("DECISIO_REGISTRY_MOCK_LATENCY", 0),
		},

		Redis: RedisConfig{
			URL:          os.Getenv("DECISIO_REDIS_URL"),
			PoolSize:     intOr("DECISIO_REDIS_POOL_SIZE", 10),
			MinIdleConns: intOr("DECISIO_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  durationOr("DECISIO_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  durationOr("DECISIO_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: durationOr("DECISIO_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func intOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
