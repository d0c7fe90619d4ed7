// Package app provides the top-level application lifecycle management for the
// jupmcp server. It wires together the upstream client, optional Redis
// caches, services and handlers, and runs the HTTP server until the context
// is cancelled.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/jupmcp/internal/config"
	"github.com/alanyoungcy/jupmcp/internal/server"
	"github.com/alanyoungcy/jupmcp/internal/server/handler"
	"github.com/alanyoungcy/jupmcp/internal/service"
	"github.com/alanyoungcy/jupmcp/internal/validate"
)

// App is the root application object. It owns the configuration, logger, and a
// list of cleanup functions that are called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	version string
	closers []func()
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger, version string) *App {
	return &App{
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "app")),
		version: version,
	}
}

// Run wires all dependencies, starts the HTTP server and blocks until the
// context is cancelled, then shuts the server down gracefully.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting application",
		slog.String("env", a.cfg.Env),
		slog.String("log_level", a.cfg.LogLevel),
		slog.String("version", a.version),
	)

	deps, cleanup := Wire(ctx, a.cfg, a.logger)
	a.closers = append(a.closers, cleanup)

	srv := server.NewServer(a.serverConfig(deps), a.buildHandlers(deps), server.Deps{
		Limiter: deps.RateLimiter,
		Metrics: deps.Metrics,
	}, a.logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout.Duration)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	return nil
}

func (a *App) serverConfig(deps *Dependencies) server.Config {
	sc := a.cfg.Server
	cfg := server.Config{
		Host:          sc.Host,
		Port:          sc.Port,
		CORSOrigins:   sc.CORSOrigins,
		APIKey:        sc.APIKey,
		SecureHeaders: sc.SecureHeaders,
		TrustProxy:    sc.TrustProxy,
		ReadTimeout:   sc.ReadTimeout.Duration,
		WriteTimeout:  sc.WriteTimeout.Duration,
	}
	if deps.RateLimiter != nil {
		cfg.RateLimit = a.cfg.RateLimit.Max
		cfg.RateLimitWindow = a.cfg.RateLimit.Window.Duration
	}
	return cfg
}

// buildHandlers constructs the services on top of deps and the handlers on
// top of the services.
func (a *App) buildHandlers(deps *Dependencies) server.Handlers {
	opts := handler.Options{
		Logger:    a.logger,
		Validator: validate.New(),
		DevMode:   a.cfg.IsDevelopment(),
	}

	swaps := service.NewSwapService(deps.Client, a.logger)
	tokens := service.NewTokenService(deps.Client, deps.TokenCache, a.logger)
	prices := service.NewPriceService(deps.Client, deps.PriceCache, a.logger)

	return server.Handlers{
		Health:    handler.NewHealthHandler(a.version, a.cfg.Env),
		Ultra:     handler.NewUltraHandler(swaps, opts),
		Tokens:    handler.NewTokenHandler(tokens, opts),
		Prices:    handler.NewPriceHandler(prices, opts),
		Recurring: handler.NewRecurringHandler(service.NewRecurringService(deps.Client, a.logger), opts),
		Triggers:  handler.NewTriggerHandler(service.NewTriggerService(deps.Client, a.logger), opts),
		Legacy:    handler.NewLegacyHandler(swaps, tokens, prices, opts),
	}
}

// Close tears down all resources in reverse registration order. It is safe to
// call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	a.logger.Info("shutting down application")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
