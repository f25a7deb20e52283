package enricher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"

	"htc-intelligence/internal/domain/entity"
	"htc-intelligence/internal/resilience"
	"htc-intelligence/internal/resilience/circuitbreaker"
	"htc-intelligence/internal/resilience/retry"
)

// Claude implements the Enricher interface using Anthropic's Claude API.
// It follows the same degradation contract as the DeepSeek enricher: any
// failure yields the deterministic category fallback, never an error.
type Claude struct {
	client          anthropic.Client
	guard           resilience.Guard
	config          *Config
	pacer           *pacer
	metricsRecorder MetricsRecorder
}

// NewClaude creates a new Claude enricher from the given configuration.
func NewClaude(cfg *Config) *Claude {
	slog.Info("Initialized Claude enricher",
		slog.String("model", cfg.Model),
		slog.Duration("min_interval", cfg.MinInterval))

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// Retries are handled by the retry wrapper around Enrich; the
		// SDK's built-in retries would multiply the attempts.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Claude{
		client:          anthropic.NewClient(opts...),
		guard:           resilience.NewGuard("enrichment-api", circuitbreaker.EnrichmentAPIConfig(), retry.EnrichmentAPIConfig()),
		config:          cfg,
		pacer:           newPacer(cfg.MinInterval),
		metricsRecorder: NewPrometheusMetrics(),
	}
}

// Enrich generates the bilingual analysis for the item via Claude.
func (c *Claude) Enrich(ctx context.Context, item *entity.NewsItem, excerpt string) (*entity.Enrichment, error) {
	if c.config.APIKey == "" {
		c.metricsRecorder.RecordEnrichment(OutcomeNoCredential, 0)
		return fallbackEnrichment(item), nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	if err := c.pacer.wait(ctx); err != nil {
		c.metricsRecorder.RecordEnrichment(OutcomeFallback, 0)
		return fallbackEnrichment(item), nil
	}

	start := time.Now()
	result, retryErr := resilience.Do(ctx, c.guard, "", func() (*entity.Enrichment, error) {
		return c.doEnrich(ctx, item, excerpt)
	})
	duration := time.Since(start)

	if retryErr != nil {
		slog.Warn("enrichment failed, using category fallback",
			slog.String("title", item.Title),
			slog.Duration("duration", duration),
			slog.Any("error", retryErr))
		c.metricsRecorder.RecordEnrichment(OutcomeFallback, duration)
		return fallbackEnrichment(item), nil
	}

	c.metricsRecorder.RecordEnrichment(OutcomeSuccess, duration)
	return result, nil
}

// doEnrich performs the actual API call without retry or circuit breaker.
func (c *Claude) doEnrich(ctx context.Context, item *entity.NewsItem, excerpt string) (*entity.Enrichment, error) {
	// Unique request ID for tracing
	requestID := uuid.New().String()
	prompt := buildPrompt(item, excerpt)

	slog.InfoContext(ctx, "Starting enrichment",
		slog.String("request_id", requestID),
		slog.String("title", item.Title),
		slog.String("model", c.config.Model))

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.config.Model),
		MaxTokens: int64(c.config.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(prompt),
			),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("claude api error: %w", err)
	}

	if len(message.Content) == 0 {
		return nil, fmt.Errorf("claude api returned empty response")
	}

	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		return nil, fmt.Errorf("claude api returned unexpected response type")
	}

	enrichment, err := parseEnrichment(textBlock.Text, item)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Enrichment completed",
		slog.String("request_id", requestID),
		slog.String("title", item.Title),
		slog.String("sentiment", string(enrichment.Sentiment)))

	return enrichment, nil
}
