// Package respond writes JSON API responses. Error responses are sanitized
// so driver and infrastructure details never reach a client.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"strings"
)

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// Headers are already sent; log and move on.
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// safeFragments marks validation-style messages that may be shown to a
// client verbatim. Anything else is treated as internal.
var safeFragments = []string{
	"required",
	"invalid",
	"not found",
	"must be",
	"cannot be",
	"too long",
	"too short",
	"out of range",
}

// safeMessage reports whether the error text can be shown verbatim. 5xx
// responses never expose their message, whatever it says.
func safeMessage(code int, msg string) bool {
	if code >= 500 {
		return false
	}
	lower := strings.ToLower(msg)
	return slices.ContainsFunc(safeFragments, func(fragment string) bool {
		return strings.Contains(lower, fragment)
	})
}

// SafeError writes a JSON error response. Validation errors pass through
// as-is; internal errors (and anything with a 5xx code) are logged with
// sanitized detail and replaced with a generic message.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	if msg := err.Error(); safeMessage(code, msg) {
		JSON(w, code, map[string]string{"error": msg})
		return
	}

	slog.Default().Error("internal server error",
		slog.String("status", http.StatusText(code)),
		slog.Int("code", code),
		slog.Any("error", SanitizeError(err)))
	JSON(w, code, map[string]string{"error": "internal server error"})
}
