package app

import (
	"context"
	"log/slog"

	"github.com/alanyoungcy/jupmcp/internal/cache/redis"
	"github.com/alanyoungcy/jupmcp/internal/config"
	"github.com/alanyoungcy/jupmcp/internal/domain"
	"github.com/alanyoungcy/jupmcp/internal/metrics"
	"github.com/alanyoungcy/jupmcp/internal/platform/jupiter"
)

// Dependencies bundles the collaborators the services and server need. The
// caches and rate limiter are nil when Redis is disabled or unreachable.
type Dependencies struct {
	Client  *jupiter.Client
	Metrics *metrics.Metrics

	TokenCache  domain.TokenCache
	PriceCache  domain.PriceCache
	RateLimiter domain.RateLimiter
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources. Redis is optional: a failed
// connection is logged and the server runs without caching or rate limiting.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func()) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- Metrics ---
	var observe func(method string, status int)
	if cfg.Metrics.Enabled {
		deps.Metrics = metrics.New()
		observe = deps.Metrics.ObserveUpstream
	}

	// --- Upstream client ---
	deps.Client = jupiter.NewClient(jupiter.Config{
		BaseURL:    cfg.Jupiter.BaseURL,
		APIKey:     cfg.Jupiter.APIKey,
		Timeout:    cfg.Jupiter.Timeout.Duration,
		Retries:    cfg.Jupiter.Retries,
		RetryDelay: cfg.Jupiter.RetryDelay.Duration,
		Observe:    observe,
	})

	// --- Redis ---
	if !cfg.Redis.Enabled {
		logger.InfoContext(ctx, "wire: redis disabled, running without cache and rate limiter")
		return deps, cleanup
	}
	rc, err := redis.New(ctx, redis.ClientConfig{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		PoolSize:    cfg.Redis.PoolSize,
		MaxRetries:  cfg.Redis.MaxRetries,
		DialTimeout: cfg.Redis.DialTimeout.Duration,
		TLSEnabled:  cfg.Redis.TLSEnabled,
	})
	if err != nil {
		logger.WarnContext(ctx, "wire: redis unavailable, running without cache and rate limiter",
			slog.String("addr", cfg.Redis.Addr),
			slog.String("error", err.Error()),
		)
		return deps, cleanup
	}
	closers = append(closers, func() { _ = rc.Close() })

	if ttl := cfg.Cache.TokenTTL.Duration; ttl > 0 {
		deps.TokenCache = redis.NewTokenCache(rc, ttl)
		if deps.Metrics != nil {
			deps.TokenCache = metrics.InstrumentTokenCache(deps.TokenCache, deps.Metrics)
		}
	}
	if ttl := cfg.Cache.PriceTTL.Duration; ttl > 0 {
		deps.PriceCache = redis.NewPriceCache(rc, ttl)
		if deps.Metrics != nil {
			deps.PriceCache = metrics.InstrumentPriceCache(deps.PriceCache, deps.Metrics)
		}
	}
	if cfg.RateLimit.Enabled {
		deps.RateLimiter = redis.NewRateLimiter(rc)
	}

	logger.InfoContext(ctx, "wire: redis connected", slog.String("addr", cfg.Redis.Addr))
	return deps, cleanup
}
