package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"htc-intelligence/internal/handler/http/requestid"
	"htc-intelligence/internal/handler/http/respond"
	"htc-intelligence/internal/handler/http/responsewriter"
)

// Middleware is a standard net/http middleware.
type Middleware = func(http.Handler) http.Handler

// requestAttrs are the log fields shared by the access log and the panic
// log, so both can be correlated by request ID.
func requestAttrs(r *http.Request) []any {
	return []any{
		slog.String("request_id", requestid.FromContext(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	}
}

// Logging writes one access-log line per request: caller, outcome and
// latency.
func Logging(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := responsewriter.Wrap(w)
			next.ServeHTTP(wrapped, r)
			duration := time.Since(start)

			attrs := append(requestAttrs(r),
				slog.String("query", r.URL.RawQuery),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("user_agent", r.Header.Get("User-Agent")),
				slog.Int("status", wrapped.StatusCode()),
				slog.Int("bytes", wrapped.BytesWritten()),
				slog.Duration("duration", duration),
				slog.String("duration_ms", fmt.Sprintf("%.2f", duration.Seconds()*1000)),
			)
			logger.Info("request completed", attrs...)
		})
	}
}

// Recover turns a handler panic into a 500 with a generic body. The panic
// value and stack go to the log only; they must never reach the client.
func Recover(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				respond.SafeError(w, http.StatusInternalServerError, fmt.Errorf("internal error"))

				attrs := append(requestAttrs(r),
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())),
				)
				logger.Error("panic recovered", attrs...)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// LimitRequestBody caps request body size. The news API is read-only, so
// anything beyond a small body is abuse.
func LimitRequestBody(maxBytes int64) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
