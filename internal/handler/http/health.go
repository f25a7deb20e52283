// Package http provides HTTP handlers and middleware for the news API.
// It includes health check endpoints, metrics collection, and various
// middleware components; resource handlers live in subpackages.
package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"htc-intelligence/internal/observability/metrics"
)

// HealthResponse is the body of the /health endpoint.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus reports one dependency: "healthy", "degraded", or "unhealthy".
// Degraded is a warning, not a failure; the endpoint still returns 200.
type CheckStatus struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthHandler serves /health. Postgres is the API's only backing
// dependency, so the response covers connectivity and pool pressure.
type HealthHandler struct {
	DB      *sql.DB
	Version string
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	dbCheck := CheckStatus{Status: "unhealthy", Message: "not configured"}
	if h.DB != nil {
		dbCheck = h.checkDatabase(ctx)
	}

	status, code := "healthy", http.StatusOK
	if dbCheck.Status == "unhealthy" {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	body := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    map[string]CheckStatus{"database": dbCheck},
		Version:   h.Version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("health: failed to encode response", slog.Any("error", err))
	}
}

// checkDatabase pings the database and inspects the connection pool. An
// unbounded pool and a pool above 80% utilization both report degraded, so
// misconfiguration shows up before it turns into request failures.
func (h *HealthHandler) checkDatabase(ctx context.Context) CheckStatus {
	if err := h.DB.PingContext(ctx); err != nil {
		return CheckStatus{Status: "unhealthy", Message: err.Error()}
	}

	pool := h.DB.Stats()
	metrics.UpdateDBConnectionStats(pool.InUse, pool.Idle)

	details := map[string]interface{}{
		"max_open_connections": pool.MaxOpenConnections,
		"open_connections":     pool.OpenConnections,
		"in_use":               pool.InUse,
		"idle":                 pool.Idle,
		"wait_count":           pool.WaitCount,
		"wait_duration_ms":     pool.WaitDuration.Milliseconds(),
	}
	degraded := func(msg string) CheckStatus {
		return CheckStatus{Status: "degraded", Message: msg, Details: details}
	}

	// MaxOpenConnections of 0 means unlimited; utilization is undefined then.
	if pool.MaxOpenConnections == 0 {
		return degraded("connection pool max connections not configured")
	}

	utilization := float64(pool.InUse) / float64(pool.MaxOpenConnections) * 100
	details["utilization_percent"] = utilization
	if utilization >= 80.0 {
		return degraded("connection pool utilization above 80%")
	}
	return CheckStatus{Status: "healthy", Details: details}
}

// ReadyHandler serves the Kubernetes readiness probe: ready once the
// database accepts a ping.
type ReadyHandler struct {
	DB *sql.DB
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.DB == nil {
		http.Error(w, "database not configured", http.StatusServiceUnavailable)
		return
	}
	if err := h.DB.PingContext(ctx); err != nil {
		http.Error(w, "database not ready: "+err.Error(), http.StatusServiceUnavailable)
		return
	}

	writePlain(w, "ready")
}

// LiveHandler serves the Kubernetes liveness probe: 200 whenever the
// process can respond at all.
type LiveHandler struct{}

func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writePlain(w, "alive")
}

func writePlain(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		slog.Error("failed to write response", slog.String("body", body), slog.Any("error", err))
	}
}
