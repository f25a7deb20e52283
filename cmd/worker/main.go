package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/robfig/cron/v3"

	"htc-intelligence/internal/handler/http/respond"
	pgRepo "htc-intelligence/internal/infra/adapter/persistence/postgres"
	"htc-intelligence/internal/infra/db"
	"htc-intelligence/internal/infra/enricher"
	"htc-intelligence/internal/infra/feed"
	"htc-intelligence/internal/infra/fetcher"
	workerPkg "htc-intelligence/internal/infra/worker"
	"htc-intelligence/internal/observability/logging"
	"htc-intelligence/internal/usecase/classify"
	crawlUC "htc-intelligence/internal/usecase/crawl"
	newsUC "htc-intelligence/internal/usecase/news"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	database := db.Open()
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()
	if err := waitForMigrations(logger, database); err != nil {
		logger.Error("migrations did not complete in time")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	workerMetrics := workerPkg.NewWorkerMetrics()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("crawl_timeout", workerConfig.CrawlTimeout),
		slog.String("recency_mode", string(workerConfig.RecencyMode)),
		slog.Int("recency_window_days", workerConfig.RecencyWindowDays),
		slog.Int("retention_days", workerConfig.RetentionDays),
		slog.Int("health_port", workerConfig.HealthPort))

	startMetricsServer(ctx, logger)
	healthServer := startHealthServer(ctx, logger, workerConfig.HealthPort)

	crawlSvc := setupCrawlService(logger, database, workerConfig)
	newsSvc := newsUC.NewService(pgRepo.NewNewsRepo(database))

	startCronWorker(logger, crawlSvc, newsSvc, workerConfig, workerMetrics, healthServer)
}

// waitForMigrations polls until the migration job has created the schema.
// The worker and the migration job start concurrently under compose.
func waitForMigrations(logger *slog.Logger, database *sql.DB) error {
	var err error
	for attempt := 1; attempt <= 10; attempt++ {
		if _, err = database.Exec("SELECT 1 FROM sources LIMIT 1"); err == nil {
			return nil
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", attempt))
		time.Sleep(3 * time.Second)
	}
	return err
}

func startHealthServer(ctx context.Context, logger *slog.Logger, port int) *workerPkg.HealthServer {
	addr := fmt.Sprintf(":%d", port)
	hs := workerPkg.NewHealthServer(addr, logger)
	go func() {
		if err := hs.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", addr))
	return hs
}

// setupCrawlService creates and configures the crawl service with all dependencies.
func setupCrawlService(logger *slog.Logger, database *sql.DB, cfg *workerPkg.WorkerConfig) *crawlUC.Service {
	srcRepo := pgRepo.NewSourceRepo(database)
	newsRepo := pgRepo.NewNewsRepo(database)

	extractors := feed.NewExtractorFactory(newFeedClient()).CreateExtractors()
	logger.Info("feed extractors initialized",
		slog.Int("count", len(extractors)))

	// Embedded defaults or CLASSIFIER_RULES_PATH.
	rules, err := classify.LoadRules()
	if err != nil {
		logger.Error("failed to load classifier rules", slog.Any("error", err))
		os.Exit(1)
	}
	classifier := classify.New(rules)
	logger.Info("classifier initialized",
		slog.Int("industry_rules", len(rules.Industry)))

	enrich := createEnricher(logger)
	excerptFetcher := createExcerptFetcher(logger)

	recency, err := crawlUC.NewRecencyFilter(cfg.RecencyMode, cfg.RecencyWindowDays)
	if err != nil {
		logger.Error("invalid recency configuration", slog.Any("error", err))
		os.Exit(1)
	}

	return crawlUC.NewService(
		srcRepo,
		newsRepo,
		extractors,
		classifier,
		enrich,
		excerptFetcher,
		recency,
	)
}

// createEnricher builds the AI enricher from environment configuration.
// A missing API key is a valid operating mode: the enricher serves
// deterministic fallback summaries without network calls.
func createEnricher(logger *slog.Logger) crawlUC.Enricher {
	cfg, err := enricher.LoadConfig()
	if err != nil {
		logger.Error("failed to load enricher configuration", slog.Any("error", err))
		os.Exit(1)
	}

	if cfg.APIKey == "" {
		logger.Warn("enrichment API key not set, using fallback summaries only")
	}
	logger.Info("enricher initialized",
		slog.String("provider", cfg.Provider),
		slog.String("model", cfg.Model),
		slog.Duration("min_interval", cfg.MinInterval))

	return enricher.New(cfg)
}

// createExcerptFetcher builds the full-text excerpt fetcher, or returns nil
// when excerpt fetching is disabled.
func createExcerptFetcher(logger *slog.Logger) crawlUC.ExcerptFetcher {
	excerptConfig, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		logger.Error("failed to load excerpt fetch configuration",
			slog.Any("error", err))
		logger.Warn("excerpt fetching disabled due to configuration error")
		excerptConfig = fetcher.DefaultConfig()
		excerptConfig.Enabled = false
	}

	if !excerptConfig.Enabled {
		logger.Info("excerpt fetching disabled")
		return nil
	}

	logger.Info("excerpt fetching enabled",
		slog.Duration("timeout", excerptConfig.Timeout))
	return fetcher.NewReadabilityFetcher(excerptConfig)
}

// newFeedClient returns the pooled HTTP client shared by the feed extractors.
// TLS 1.2 is the floor.
func newFeedClient() *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
	}
	return &http.Client{Timeout: 30 * time.Second, Transport: transport}
}

// startCronWorker schedules the crawl and retention jobs and blocks forever.
func startCronWorker(logger *slog.Logger, crawlSvc *crawlUC.Service, newsSvc *newsUC.Service, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics, healthServer *workerPkg.HealthServer) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	jobs := []struct {
		name string
		spec string
		run  func()
	}{
		{"crawl", cfg.CronSchedule, func() { runCrawlJob(logger, crawlSvc, cfg, metrics) }},
		{"retention", cfg.RetentionSchedule, func() { runRetentionJob(logger, newsSvc, cfg) }},
	}
	for _, job := range jobs {
		if _, err := c.AddFunc(job.spec, job.run); err != nil {
			logger.Error("failed to schedule job",
				slog.String("job", job.name), slog.Any("error", err))
			os.Exit(1)
		}
	}
	c.Start()

	healthServer.SetReady(true)
	logger.Info("worker marked as ready")
	logger.Info("worker started",
		slog.String("crawl_schedule", cfg.CronSchedule),
		slog.String("retention_schedule", cfg.RetentionSchedule),
		slog.String("timezone", cfg.Timezone))
	select {}
}

// runCrawlJob executes a single crawl pass under the configured timeout.
func runCrawlJob(logger *slog.Logger, svc *crawlUC.Service, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics) {
	startTime := time.Now()
	defer func() { metrics.RecordJobDuration(time.Since(startTime).Seconds()) }()

	metrics.RecordJobRun("started")
	logger.Info("crawl started")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.CrawlTimeout)
	defer cancel()

	stats, err := svc.Run(ctx)
	if err != nil {
		// Errors can carry connection strings or API keys; sanitize before logging.
		logger.Error("crawl failed", slog.Any("error", respond.SanitizeError(err)))
		metrics.RecordJobRun("failure")
		return
	}

	metrics.RecordJobRun("success")
	metrics.RecordSourcesProcessed(stats.Sources)
	metrics.RecordLastSuccess()

	logger.Info("crawl completed",
		slog.Int("sources", stats.Sources),
		slog.Int("fetched", stats.Fetched),
		slog.Int("filtered", stats.Filtered),
		slog.Int("inserted", stats.Inserted),
		slog.Int("duplicated", stats.Duplicated),
		slog.Int("failed", stats.Failed),
		slog.Duration("duration", stats.Duration),
	)
}

// runRetentionJob purges stored news items older than the retention period.
func runRetentionJob(logger *slog.Logger, svc *newsUC.Service, cfg *workerPkg.WorkerConfig) {
	logger.Info("retention purge started", slog.Int("retention_days", cfg.RetentionDays))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	deleted, err := svc.PurgeOlderThan(ctx, cfg.RetentionDays)
	if err != nil {
		logger.Error("retention purge failed", slog.Any("error", respond.SanitizeError(err)))
		return
	}

	logger.Info("retention purge completed", slog.Int64("deleted", deleted))
}
