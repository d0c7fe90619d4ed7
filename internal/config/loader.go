package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies environment variable overrides, and returns the
// final Config. A missing file is not an error. The returned Config has NOT
// been validated; the caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known environment variables and overwrites the
// corresponding Config fields when a variable is set (i.e. not empty). The
// short unprefixed names are applied first so JUPMCP_* wins when both are set.
func applyEnvOverrides(cfg *Config) {
	// ── Unprefixed names shared with existing deployments ──
	setStr(&cfg.Env, "NODE_ENV")
	setStr(&cfg.LogLevel, "LOG_LEVEL")
	setStr(&cfg.Server.Host, "HOST")
	setInt(&cfg.Server.Port, "PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "CORS_ORIGINS")
	setBool(&cfg.Server.SecureHeaders, "HELMET_ENABLED")
	setStr(&cfg.Jupiter.BaseURL, "JUP_AG_API_URL")
	setStr(&cfg.Jupiter.BaseURL, "JUP_API_BASE_URL")
	setMillis(&cfg.Jupiter.Timeout, "JUP_AG_API_TIMEOUT")
	setMillis(&cfg.Jupiter.Timeout, "JUP_API_TIMEOUT")
	setBool(&cfg.RateLimit.Enabled, "RATE_LIMIT_ENABLED")
	setInt(&cfg.RateLimit.Max, "RATE_LIMIT_MAX")

	// ── Top-level ──
	setStr(&cfg.Env, "JUPMCP_ENV")
	setStr(&cfg.LogLevel, "JUPMCP_LOG_LEVEL")
	setStr(&cfg.LogFormat, "JUPMCP_LOG_FORMAT")

	// ── Server ──
	setStr(&cfg.Server.Host, "JUPMCP_SERVER_HOST")
	setInt(&cfg.Server.Port, "JUPMCP_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "JUPMCP_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "JUPMCP_SERVER_API_KEY")
	setBool(&cfg.Server.SecureHeaders, "JUPMCP_SERVER_SECURE_HEADERS")
	setDuration(&cfg.Server.ReadTimeout, "JUPMCP_SERVER_READ_TIMEOUT")
	setDuration(&cfg.Server.WriteTimeout, "JUPMCP_SERVER_WRITE_TIMEOUT")
	setDuration(&cfg.Server.ShutdownTimeout, "JUPMCP_SERVER_SHUTDOWN_TIMEOUT")
	setBool(&cfg.Server.TrustProxy, "JUPMCP_SERVER_TRUST_PROXY")

	// ── Jupiter ──
	setStr(&cfg.Jupiter.BaseURL, "JUPMCP_JUPITER_BASE_URL")
	setStr(&cfg.Jupiter.APIKey, "JUPMCP_JUPITER_API_KEY")
	setDuration(&cfg.Jupiter.Timeout, "JUPMCP_JUPITER_TIMEOUT")
	setInt(&cfg.Jupiter.Retries, "JUPMCP_JUPITER_RETRIES")
	setDuration(&cfg.Jupiter.RetryDelay, "JUPMCP_JUPITER_RETRY_DELAY")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "JUPMCP_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "JUPMCP_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "JUPMCP_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "JUPMCP_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "JUPMCP_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "JUPMCP_REDIS_MAX_RETRIES")
	setDuration(&cfg.Redis.DialTimeout, "JUPMCP_REDIS_DIAL_TIMEOUT")
	setBool(&cfg.Redis.TLSEnabled, "JUPMCP_REDIS_TLS_ENABLED")

	// ── Cache ──
	setDuration(&cfg.Cache.TokenTTL, "JUPMCP_CACHE_TOKEN_TTL")
	setDuration(&cfg.Cache.PriceTTL, "JUPMCP_CACHE_PRICE_TTL")

	// ── Rate limit ──
	setBool(&cfg.RateLimit.Enabled, "JUPMCP_RATE_LIMIT_ENABLED")
	setInt(&cfg.RateLimit.Max, "JUPMCP_RATE_LIMIT_MAX")
	setDuration(&cfg.RateLimit.Window, "JUPMCP_RATE_LIMIT_WINDOW")

	// ── Metrics ──
	setBool(&cfg.Metrics.Enabled, "JUPMCP_METRICS_ENABLED")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

// setMillis reads an integer count of milliseconds.
func setMillis(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			dst.Duration = time.Duration(n) * time.Millisecond
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
