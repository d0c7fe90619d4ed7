package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/alanyoungcy/jupmcp/internal/server/handler"
)

// Recover returns middleware that turns a handler panic into a 500 error
// envelope. http.ErrAbortHandler is re-panicked so the server aborts the
// connection as usual.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := wrapResponseWriter(w)
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}
				logger.ErrorContext(r.Context(), "middleware: panic recovered",
					slog.String("error", fmt.Sprint(v)),
					slog.String("path", r.URL.Path),
					slog.String("request_id", RequestIDFrom(r.Context())),
					slog.String("stack", string(debug.Stack())),
				)
				if !rw.wroteHeader {
					handler.WriteError(rw, http.StatusInternalServerError, "An unexpected error occurred")
				}
			}()
			next.ServeHTTP(rw, r)
		})
	}
}
