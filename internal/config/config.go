// Package config defines the top-level configuration for the jupmcp server
// and provides validation helpers.
package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by environment variables.
type Config struct {
	Env       string          `toml:"env"`
	LogLevel  string          `toml:"log_level"`
	LogFormat string          `toml:"log_format"`
	Server    ServerConfig    `toml:"server"`
	Jupiter   JupiterConfig   `toml:"jupiter"`
	Redis     RedisConfig     `toml:"redis"`
	Cache     CacheConfig     `toml:"cache"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Metrics   MetricsConfig   `toml:"metrics"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Host            string   `toml:"host"`
	Port            int      `toml:"port"`
	CORSOrigins     []string `toml:"cors_origins"`
	APIKey          string   `toml:"api_key"`
	SecureHeaders   bool     `toml:"secure_headers"`
	ReadTimeout     duration `toml:"read_timeout"`
	WriteTimeout    duration `toml:"write_timeout"`
	ShutdownTimeout duration `toml:"shutdown_timeout"`
	TrustProxy      bool     `toml:"trust_proxy"`
}

// JupiterConfig holds the upstream jup.ag API settings.
type JupiterConfig struct {
	BaseURL    string   `toml:"base_url"`
	APIKey     string   `toml:"api_key"`
	Timeout    duration `toml:"timeout"`
	Retries    int      `toml:"retries"`
	RetryDelay duration `toml:"retry_delay"`
}

// RedisConfig holds Redis connection parameters. Redis backs the response
// caches and the rate limiter and is optional.
type RedisConfig struct {
	Enabled     bool     `toml:"enabled"`
	Addr        string   `toml:"addr"`
	Password    string   `toml:"password"`
	DB          int      `toml:"db"`
	PoolSize    int      `toml:"pool_size"`
	MaxRetries  int      `toml:"max_retries"`
	DialTimeout duration `toml:"dial_timeout"`
	TLSEnabled  bool     `toml:"tls_enabled"`
}

// CacheConfig holds response cache TTLs. A zero TTL disables that cache.
type CacheConfig struct {
	TokenTTL duration `toml:"token_ttl"`
	PriceTTL duration `toml:"price_ttl"`
}

// RateLimitConfig holds per-client request limits.
type RateLimitConfig struct {
	Enabled bool     `toml:"enabled"`
	Max     int      `toml:"max"`
	Window  duration `toml:"window"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// duration is a wrapper around time.Duration that supports TOML string decoding
// (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
func Defaults() Config {
	return Config{
		Env:       "development",
		LogLevel:  "info",
		LogFormat: "json",
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3000,
			CORSOrigins:     []string{"http://localhost:3000"},
			SecureHeaders:   true,
			ReadTimeout:     duration{15 * time.Second},
			WriteTimeout:    duration{45 * time.Second},
			ShutdownTimeout: duration{10 * time.Second},
		},
		Jupiter: JupiterConfig{
			BaseURL:    "https://quote-api.jup.ag/v6",
			Timeout:    duration{30 * time.Second},
			Retries:    3,
			RetryDelay: duration{time.Second},
		},
		Redis: RedisConfig{
			Addr:        "localhost:6379",
			PoolSize:    10,
			MaxRetries:  2,
			DialTimeout: duration{2 * time.Second},
		},
		Cache: CacheConfig{
			TokenTTL: duration{time.Hour},
			PriceTTL: duration{10 * time.Second},
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			Max:     100,
			Window:  duration{15 * time.Minute},
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}

var (
	validEnvs       = []string{"development", "production", "test"}
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"json", "text"}
)

// IsDevelopment reports whether the server runs in development mode, where
// internal error messages are returned to clients.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate checks Config for obviously invalid or missing values and returns a
// single error listing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !slices.Contains(validEnvs, c.Env) {
		errs = append(errs, fmt.Sprintf("unknown env %q (valid: %s)", c.Env, strings.Join(validEnvs, ", ")))
	}
	if !slices.Contains(validLogLevels, c.LogLevel) {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: %s)", c.LogLevel, strings.Join(validLogLevels, ", ")))
	}
	if !slices.Contains(validLogFormats, c.LogFormat) {
		errs = append(errs, fmt.Sprintf("unknown log_format %q (valid: %s)", c.LogFormat, strings.Join(validLogFormats, ", ")))
	}

	// ── Server ──
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ShutdownTimeout.Duration <= 0 {
		errs = append(errs, "server: shutdown_timeout must be positive")
	}

	// ── Jupiter ──
	if u, err := url.Parse(c.Jupiter.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Sprintf("jupiter: base_url %q is not an absolute URL", c.Jupiter.BaseURL))
	}
	if c.Jupiter.Timeout.Duration <= 0 {
		errs = append(errs, "jupiter: timeout must be positive")
	}
	if c.Jupiter.Retries < 0 {
		errs = append(errs, "jupiter: retries must be >= 0")
	}
	if wt := c.Server.WriteTimeout.Duration; wt > 0 && c.Jupiter.Timeout.Duration >= wt {
		errs = append(errs, fmt.Sprintf("jupiter: timeout %s must be less than server.write_timeout %s",
			c.Jupiter.Timeout.Duration, wt))
	}

	// ── Redis ──
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
	}

	// ── Cache ──
	if c.Cache.TokenTTL.Duration < 0 || c.Cache.PriceTTL.Duration < 0 {
		errs = append(errs, "cache: TTLs must not be negative")
	}

	// ── Rate limit ──
	if c.RateLimit.Enabled {
		if c.RateLimit.Max < 1 {
			errs = append(errs, "rate_limit: max must be >= 1")
		}
		if c.RateLimit.Window.Duration <= 0 {
			errs = append(errs, "rate_limit: window must be positive")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
