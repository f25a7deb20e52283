package worker

import (
	"fmt"
	"log/slog"
	"time"

	"htc-intelligence/internal/pkg/config"
	"htc-intelligence/internal/usecase/crawl"
)

// WorkerConfig controls the crawl schedule, timezone, recency filtering,
// retention, and the health port of the cron worker. Every field has a
// default and a validation rule; loading is fail-open, so a bad value in
// the environment falls back to the default instead of stopping the
// worker.
type WorkerConfig struct {
	// CronSchedule is the 5-field cron expression for the crawl job.
	CronSchedule string

	// Timezone is the IANA timezone name for cron scheduling.
	Timezone string

	// CrawlTimeout bounds one crawl run; the run is canceled after it.
	CrawlTimeout time.Duration

	// RecencyMode selects how the pipeline decides whether an item is
	// recent enough to keep: "window" (rolling day window, items with
	// unknown publication dates pass) or "calendar_month" (current and
	// previous calendar month only, unknown dates are dropped).
	RecencyMode crawl.RecencyMode

	// RecencyWindowDays is the rolling window size used when RecencyMode
	// is "window". Ignored in "calendar_month" mode. Range 1-365.
	RecencyWindowDays int

	// RetentionDays is how long stored news items are kept before the
	// retention job purges them. Range 1-3650.
	RetentionDays int

	// RetentionSchedule is the cron expression for the retention purge job.
	RetentionSchedule string

	// HealthPort is the listen port of the health check server.
	// Range 1024-65535.
	HealthPort int
}

// DefaultConfig returns the worker defaults: daily crawl at 5:30 Honolulu
// time, 30-minute run timeout, 90-day recency window, 90-day retention
// purged weekly.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:      "30 5 * * *",
		Timezone:          "Pacific/Honolulu",
		CrawlTimeout:      30 * time.Minute,
		RecencyMode:       crawl.RecencyModeWindow,
		RecencyWindowDays: 90,
		RetentionDays:     90,
		RetentionSchedule: "0 4 * * 0",
		HealthPort:        9091,
	}
}

// validateRecencyMode accepts only the modes the crawl pipeline understands.
func validateRecencyMode(mode string) error {
	switch crawl.RecencyMode(mode) {
	case crawl.RecencyModeWindow, crawl.RecencyModeCalendarMonth:
		return nil
	default:
		return fmt.Errorf("unknown recency mode %q (valid: %q, %q)",
			mode, crawl.RecencyModeWindow, crawl.RecencyModeCalendarMonth)
	}
}

// Validate checks every field and returns the aggregated errors, or nil.
func (c *WorkerConfig) Validate() error {
	var errors []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errors = append(errors, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errors = append(errors, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.CrawlTimeout); err != nil {
		errors = append(errors, fmt.Errorf("crawl timeout: %w", err))
	}
	if err := validateRecencyMode(string(c.RecencyMode)); err != nil {
		errors = append(errors, fmt.Errorf("recency mode: %w", err))
	}
	if err := config.ValidateIntRange(c.RecencyWindowDays, 1, 365); err != nil {
		errors = append(errors, fmt.Errorf("recency window days: %w", err))
	}
	if err := config.ValidateIntRange(c.RetentionDays, 1, 3650); err != nil {
		errors = append(errors, fmt.Errorf("retention days: %w", err))
	}
	if err := config.ValidateCronSchedule(c.RetentionSchedule); err != nil {
		errors = append(errors, fmt.Errorf("retention schedule: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errors = append(errors, fmt.Errorf("health port: %w", err))
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation failed: %v", errors)
	}
	return nil
}

// configLoader applies per-field load results: warnings are logged, the
// fallback metrics are bumped, and anyFallback remembers whether any field
// ran on its default.
type configLoader struct {
	logger      *slog.Logger
	metrics     *WorkerMetrics
	anyFallback bool
}

func (l *configLoader) apply(field, metricField string, result config.ConfigLoadResult) {
	if !result.FallbackApplied {
		return
	}
	l.anyFallback = true
	l.metrics.RecordValidationError(metricField)
	l.metrics.RecordFallback(metricField)
	for _, warning := range result.Warnings {
		l.logger.Warn("Configuration fallback applied",
			slog.String("field", field),
			slog.String("warning", warning))
	}
}

// LoadConfigFromEnv loads the worker configuration fail-open: each field
// starts from DefaultConfig, is overridden from its environment variable,
// and reverts to the default with a logged warning and bumped metrics if
// the override is invalid. The error return is always nil; it exists so
// call sites keep the conventional shape.
//
// Environment variables: CRON_SCHEDULE, WORKER_TIMEZONE, CRAWL_TIMEOUT,
// RECENCY_MODE, RECENCY_WINDOW_DAYS, RETENTION_DAYS, RETENTION_SCHEDULE,
// WORKER_HEALTH_PORT.
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	loader := &configLoader{logger: logger, metrics: metrics}

	result := config.LoadEnvWithFallback("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = result.Value.(string)
	loader.apply("CronSchedule", "cron_schedule", result)

	result = config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = result.Value.(string)
	loader.apply("Timezone", "timezone", result)

	result = config.LoadEnvDuration("CRAWL_TIMEOUT", cfg.CrawlTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, 1*time.Minute, 4*time.Hour)
	})
	cfg.CrawlTimeout = result.Value.(time.Duration)
	loader.apply("CrawlTimeout", "crawl_timeout", result)

	result = config.LoadEnvWithFallback("RECENCY_MODE", string(cfg.RecencyMode), validateRecencyMode)
	cfg.RecencyMode = crawl.RecencyMode(result.Value.(string))
	loader.apply("RecencyMode", "recency_mode", result)

	result = config.LoadEnvInt("RECENCY_WINDOW_DAYS", cfg.RecencyWindowDays, func(v int) error {
		return config.ValidateIntRange(v, 1, 365)
	})
	cfg.RecencyWindowDays = result.Value.(int)
	loader.apply("RecencyWindowDays", "recency_window_days", result)

	result = config.LoadEnvInt("RETENTION_DAYS", cfg.RetentionDays, func(v int) error {
		return config.ValidateIntRange(v, 1, 3650)
	})
	cfg.RetentionDays = result.Value.(int)
	loader.apply("RetentionDays", "retention_days", result)

	result = config.LoadEnvWithFallback("RETENTION_SCHEDULE", cfg.RetentionSchedule, config.ValidateCronSchedule)
	cfg.RetentionSchedule = result.Value.(string)
	loader.apply("RetentionSchedule", "retention_schedule", result)

	result = config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = result.Value.(int)
	loader.apply("HealthPort", "health_port", result)

	metrics.SetFallbackActive(loader.anyFallback)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}
