package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/alanyoungcy/jupmcp/internal/domain"
	"github.com/alanyoungcy/jupmcp/internal/server/handler"
)

// RateLimitConfig configures the RateLimit middleware.
type RateLimitConfig struct {
	Limit  int
	Window time.Duration

	// TrustProxy keys clients by X-Forwarded-For or X-Real-IP. Leave it off
	// unless a proxy in front of the server overwrites those headers.
	TrustProxy bool

	// Open lists paths that are never limited.
	Open []string

	// OnLimited, when non-nil, is called for every rejected request.
	OnLimited func()
}

// RateLimit returns middleware that applies per-client rate limiting using the
// provided domain.RateLimiter. Each unique client IP is limited to cfg.Limit
// requests per cfg.Window.
func RateLimit(limiter domain.RateLimiter, cfg RateLimitConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	retryAfter := strconv.Itoa(max(1, int(cfg.Window.Seconds())))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(cfg.Open, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			key := "api:" + extractClientIP(r, cfg.TrustProxy)

			allowed, err := limiter.Allow(r.Context(), key, cfg.Limit, cfg.Window)
			if err != nil {
				// Fail open: a limiter outage must not block traffic.
				logger.WarnContext(r.Context(), "middleware: rate limiter unavailable",
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				if cfg.OnLimited != nil {
					cfg.OnLimited()
				}
				w.Header().Set("Retry-After", retryAfter)
				handler.WriteError(w, http.StatusTooManyRequests, "Too many requests, please try again later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractClientIP returns the client address. Proxy headers are consulted
// only when trustProxy is set; otherwise the direct remote address is used.
func extractClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		// X-Forwarded-For may contain multiple IPs.
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.SplitN(xff, ",", 2)
			ip := strings.TrimSpace(parts[0])
			if ip != "" {
				return ip
			}
		}

		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
