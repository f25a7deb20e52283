package db

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"htc-intelligence/internal/pkg/config"
)

// ConnectionConfig holds database connection pool configuration.
type ConnectionConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConnectionConfig returns the default connection pool configuration.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: 1 * time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
	}
}

func (c ConnectionConfig) apply(db *sql.DB) {
	db.SetMaxOpenConns(c.MaxOpenConns)
	db.SetMaxIdleConns(c.MaxIdleConns)
	db.SetConnMaxLifetime(c.ConnMaxLifetime)
	db.SetConnMaxIdleTime(c.ConnMaxIdleTime)

	slog.Info("database connection pool configured",
		slog.Int("max_open_conns", c.MaxOpenConns),
		slog.Int("max_idle_conns", c.MaxIdleConns),
		slog.Duration("conn_max_lifetime", c.ConnMaxLifetime),
		slog.Duration("conn_max_idle_time", c.ConnMaxIdleTime))
}

// Open connects to DATABASE_URL, applies the pool settings and verifies the
// connection with a ping. A database that cannot be reached at startup is
// fatal; neither binary can do anything without it.
func Open() *sql.DB {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatal(err)
	}
	poolConfigFromEnv().apply(db)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}

	slog.Info("database connection established successfully")
	return db
}

// poolConfigFromEnv reads pool settings from the environment with fail-open
// fallbacks: an invalid knob logs a warning and keeps the default rather
// than refusing to start.
func poolConfigFromEnv() ConnectionConfig {
	cfg := DefaultConnectionConfig()
	poolSize := func(v int) error { return config.ValidateIntRange(v, 1, 500) }

	loadInt := func(key string, dst *int) {
		result := config.LoadEnvInt(key, *dst, poolSize)
		*dst = result.Value.(int)
		warnFallbacks(result)
	}
	loadDuration := func(key string, dst *time.Duration) {
		result := config.LoadEnvDuration(key, *dst, config.ValidatePositiveDuration)
		*dst = result.Value.(time.Duration)
		warnFallbacks(result)
	}

	loadInt("DB_MAX_OPEN_CONNS", &cfg.MaxOpenConns)
	loadInt("DB_MAX_IDLE_CONNS", &cfg.MaxIdleConns)
	loadDuration("DB_CONN_MAX_LIFETIME", &cfg.ConnMaxLifetime)
	loadDuration("DB_CONN_MAX_IDLE_TIME", &cfg.ConnMaxIdleTime)

	return cfg
}

func warnFallbacks(result config.ConfigLoadResult) {
	for _, warning := range result.Warnings {
		slog.Warn("database pool configuration fallback", slog.String("detail", warning))
	}
}
