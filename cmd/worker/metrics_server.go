package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"htc-intelligence/internal/pkg/config"
)

// startMetricsServer serves GET /metrics for Prometheus scraping on
// METRICS_PORT (default 9090). Liveness and readiness live on the separate
// health server, so this mux stays scrape-only. The server shuts down
// within 5 seconds of ctx being canceled.
func startMetricsServer(ctx context.Context, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	port := metricsPort()
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	context.AfterFunc(ctx, func() {
		logger.Info("metrics server shutdown initiated")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", slog.Any("error", err))
			return
		}
		logger.Info("metrics server stopped")
	})

	go func() {
		logger.Info("metrics server starting", slog.Int("port", port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", slog.Any("error", err))
		}
	}()

	return server
}

// metricsPort reads METRICS_PORT, falling back to 9090 on invalid input.
func metricsPort() int {
	result := config.LoadEnvInt("METRICS_PORT", 9090, func(v int) error {
		return config.ValidateIntRange(v, 1, 65535)
	})
	return result.Value.(int)
}
