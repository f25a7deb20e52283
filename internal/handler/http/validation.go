package http

import (
	"net/http"
)

// InputValidation returns middleware that rejects oversized request inputs
// before they reach a handler. The news API only takes short query strings
// (pagination, category filters, a search keyword), so generous caps still
// cut off abuse early:
//   - URI path length: 2KB
//   - Raw query length: 4KB
func InputValidation() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.URL.Path) > 2048 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestURITooLong)
				_, _ = w.Write([]byte(`{"error":"URI too long"}`))
				return
			}

			if len(r.URL.RawQuery) > 4096 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestURITooLong)
				_, _ = w.Write([]byte(`{"error":"query string too long"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
