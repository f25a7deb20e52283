package http

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Timeout aborts handlers that outlive the budget with a 504 Gateway
// Timeout. The handler goroutine keeps running until it notices the
// canceled context, but its writes no longer reach the client.
func Timeout(duration time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), duration)
			defer cancel()

			dw := &deadlineWriter{ResponseWriter: w}
			done := make(chan struct{})
			go func() {
				defer close(done)
				next.ServeHTTP(dw, r.WithContext(ctx))
			}()

			select {
			case <-done:
			case <-ctx.Done():
				dw.abort()
			}
		})
	}
}

// deadlineWriter lets exactly one side produce the response: the handler,
// or the 504 from abort. Late handler writes fail with
// http.ErrHandlerTimeout.
type deadlineWriter struct {
	http.ResponseWriter
	mu       sync.Mutex
	timedOut bool
	wrote    bool
}

func (d *deadlineWriter) abort() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.timedOut = true
	if d.wrote {
		return
	}
	d.Header().Set("Content-Type", "application/json")
	d.ResponseWriter.WriteHeader(http.StatusGatewayTimeout)
	_, _ = d.ResponseWriter.Write([]byte(`{"error":"request timeout"}`))
}

func (d *deadlineWriter) WriteHeader(statusCode int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timedOut || d.wrote {
		return
	}
	d.wrote = true
	d.ResponseWriter.WriteHeader(statusCode)
}

func (d *deadlineWriter) Write(data []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if !d.wrote {
		d.wrote = true
		d.ResponseWriter.WriteHeader(http.StatusOK)
	}
	return d.ResponseWriter.Write(data)
}
