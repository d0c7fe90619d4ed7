package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/alanyoungcy/jupmcp/internal/metrics"
)

// Metrics returns middleware that records request counts and latency by
// route pattern. It must wrap the ServeMux directly or through middlewares
// that pass the same *http.Request on, since the mux records the matched
// pattern on that request.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := wrapResponseWriter(w)

			next.ServeHTTP(rw, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			m.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rw.statusCode)).Inc()
			m.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}
