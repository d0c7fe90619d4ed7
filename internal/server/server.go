package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/alanyoungcy/jupmcp/internal/domain"
	"github.com/alanyoungcy/jupmcp/internal/metrics"
	"github.com/alanyoungcy/jupmcp/internal/server/handler"
	"github.com/alanyoungcy/jupmcp/internal/server/middleware"
)

// Config holds the HTTP server configuration.
type Config struct {
	Host        string
	Port        int
	CORSOrigins []string
	APIKey      string // if empty, authentication is disabled

	SecureHeaders bool

	RateLimit       int // requests per window per client; 0 disables limiting
	RateLimitWindow time.Duration
	TrustProxy      bool // key rate limits by X-Forwarded-For / X-Real-IP

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Handlers aggregates all HTTP handlers that the server needs to register.
type Handlers struct {
	Health    *handler.HealthHandler
	Ultra     *handler.UltraHandler
	Tokens    *handler.TokenHandler
	Prices    *handler.PriceHandler
	Recurring *handler.RecurringHandler
	Triggers  *handler.TriggerHandler
	Legacy    *handler.LegacyHandler
}

// Deps holds the optional collaborators of the middleware chain. A nil
// Limiter disables rate limiting and a nil Metrics disables /metrics.
type Deps struct {
	Limiter domain.RateLimiter
	Metrics *metrics.Metrics
}

// Server is the HTTP API server.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// openPaths are served without authentication or rate limiting.
var openPaths = []string{"/health", "/metrics"}

// NewServer creates a new Server with all routes registered on the ServeMux
// and the middleware chain applied.
func NewServer(cfg Config, handlers Handlers, deps Deps, logger *slog.Logger) *Server {
	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:      NewHandler(cfg, handlers, deps, logger),
		ReadTimeout:  orDefault(cfg.ReadTimeout, 15*time.Second),
		WriteTimeout: orDefault(cfg.WriteTimeout, 45*time.Second),
		IdleTimeout:  orDefault(cfg.IdleTimeout, 60*time.Second),
	}
	return &Server{httpServer: srv, logger: logger}
}

// NewHandler builds the routed and wrapped http.Handler. The chain, outermost
// first, is CORS, secure headers, request ID, logging, recover, metrics, rate
// limit and auth.
func NewHandler(cfg Config, handlers Handlers, deps Deps, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	registerRoutes(mux, handlers)
	if deps.Metrics != nil {
		mux.Handle("GET /metrics", deps.Metrics.Handler())
	}

	var h http.Handler = mux

	// Apply auth middleware (skips if APIKey is empty).
	h = middleware.Auth(cfg.APIKey, openPaths...)(h)

	if deps.Limiter != nil && cfg.RateLimit > 0 {
		rl := middleware.RateLimitConfig{
			Limit:      cfg.RateLimit,
			Window:     cfg.RateLimitWindow,
			TrustProxy: cfg.TrustProxy,
			Open:       openPaths,
		}
		if deps.Metrics != nil {
			rl.OnLimited = deps.Metrics.RateLimited.Inc
		}
		h = middleware.RateLimit(deps.Limiter, rl, logger)(h)
	}
	if deps.Metrics != nil {
		h = middleware.Metrics(deps.Metrics)(h)
	}

	h = middleware.Recover(logger)(h)
	h = middleware.Logging(logger)(h)
	h = middleware.RequestID()(h)
	if cfg.SecureHeaders {
		h = middleware.SecureHeaders()(h)
	}
	h = middleware.CORS(cfg.CORSOrigins)(h)
	return h
}

func registerRoutes(mux *http.ServeMux, h Handlers) {
	mux.HandleFunc("GET /health", h.Health.HealthCheck)

	// Ultra swap endpoints.
	mux.HandleFunc("POST /ultra/quote", h.Ultra.Quote)
	mux.HandleFunc("POST /ultra/swap", h.Ultra.Swap)
	mux.HandleFunc("GET /ultra/history", h.Ultra.History)
	mux.HandleFunc("GET /ultra/status/{swapId}", h.Ultra.Status)

	// Token endpoints.
	mux.HandleFunc("GET /token/info/{tokenAddress}", h.Tokens.Info)
	mux.HandleFunc("GET /token/list", h.Tokens.List)

	// Price endpoints.
	mux.HandleFunc("GET /price/{inputToken}/{outputToken}", h.Prices.Get)
	mux.HandleFunc("POST /price/batch", h.Prices.Batch)

	// Recurring payment endpoints.
	mux.HandleFunc("POST /recurring/create", h.Recurring.Create)
	mux.HandleFunc("GET /recurring/list", h.Recurring.List)
	mux.HandleFunc("PUT /recurring/update", h.Recurring.Update)
	mux.HandleFunc("PUT /recurring/update/{id}", h.Recurring.Update)
	mux.HandleFunc("DELETE /recurring/cancel/{id}", h.Recurring.Cancel)

	// Trigger order endpoints.
	mux.HandleFunc("POST /trigger/create", h.Triggers.Create)
	mux.HandleFunc("GET /trigger/list", h.Triggers.List)
	mux.HandleFunc("PUT /trigger/update", h.Triggers.Update)
	mux.HandleFunc("PUT /trigger/update/{id}", h.Triggers.Update)
	mux.HandleFunc("DELETE /trigger/cancel/{id}", h.Triggers.Cancel)

	// Legacy aliases.
	mux.HandleFunc("GET /price", h.Legacy.Price)
	mux.HandleFunc("GET /swap/tokens", h.Legacy.Tokens)
	mux.HandleFunc("GET /swap/transactions", h.Legacy.Transactions)
	mux.HandleFunc("GET /recurring/list/{walletAddress}", h.Recurring.ListByWallet)
	mux.HandleFunc("POST /recurring/cancel", h.Recurring.CancelByBody)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		handler.WriteError(w, http.StatusNotFound, "Route not found")
	})
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting",
		slog.String("addr", s.httpServer.Addr),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

func orDefault(d, def time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return def
}
