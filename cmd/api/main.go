package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"

	pgRepo "htc-intelligence/internal/infra/adapter/persistence/postgres"
	"htc-intelligence/internal/infra/db"

	newsUC "htc-intelligence/internal/usecase/news"

	hhttp "htc-intelligence/internal/handler/http"
	hnews "htc-intelligence/internal/handler/http/news"
	"htc-intelligence/internal/handler/http/requestid"
	"htc-intelligence/internal/observability/logging"
)

const listenAddr = ":8080"

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	database := openDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	runServer(logger, setupServer(logger, database, version), version)
}

// openDatabase connects and applies schema migrations before serving.
func openDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// setupServer configures and returns the HTTP handler with all routes and middleware.
// The API is read-only: writes happen exclusively through the worker's crawl
// pipeline, so no authentication layer is needed here.
func setupServer(logger *slog.Logger, database *sql.DB, version string) http.Handler {
	newsSvc := newsUC.NewService(pgRepo.NewNewsRepo(database))

	mux := http.NewServeMux()
	hnews.Register(mux, newsSvc)

	// Operational endpoints, outside the /api/v1 namespace.
	mux.Handle("/health", &hhttp.HealthHandler{DB: database, Version: version})
	mux.Handle("/ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("/live", &hhttp.LiveHandler{})
	mux.Handle("/metrics", hhttp.MetricsHandler())

	return applyMiddleware(logger, mux)
}

// applyMiddleware wraps the handler in the middleware chain, innermost first.
// Resulting request order: Request ID, Recovery, Logging, Body Limit,
// Input Validation, Timeout, Metrics.
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	for _, mw := range []hhttp.Middleware{
		hhttp.MetricsMiddleware,
		hhttp.Timeout(30 * time.Second),
		hhttp.InputValidation(),
		hhttp.LimitRequestBody(1 << 20),
		hhttp.Logging(logger),
		hhttp.Recover(logger),
		requestid.Middleware,
	} {
		handler = mw(handler)
	}
	return handler
}

// runServer runs the HTTP server until SIGINT/SIGTERM, then shuts down
// with a 5s drain window.
func runServer(logger *slog.Logger, handler http.Handler, version string) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting",
			slog.String("addr", listenAddr),
			slog.String("version", version))
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
