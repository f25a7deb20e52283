package enricher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"htc-intelligence/internal/domain/entity"
	"htc-intelligence/internal/resilience"
	"htc-intelligence/internal/resilience/circuitbreaker"
	"htc-intelligence/internal/resilience/retry"
)

// DeepSeek implements the Enricher interface against an OpenAI-compatible
// chat-completion endpoint (DeepSeek by default, any compatible base URL
// works). Calls run behind the enrichment-api breaker and retry schedule,
// are paced to respect provider rate limits, and degrade to the
// deterministic fallback instead of failing an item.
type DeepSeek struct {
	client          *openai.Client
	guard           resilience.Guard
	config          *Config
	pacer           *pacer
	metricsRecorder MetricsRecorder
}

// NewDeepSeek creates a new DeepSeek enricher from the given configuration.
func NewDeepSeek(cfg *Config) *DeepSeek {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL

	slog.Info("Initialized DeepSeek enricher",
		slog.String("base_url", cfg.BaseURL),
		slog.String("model", cfg.Model),
		slog.Duration("min_interval", cfg.MinInterval))

	return &DeepSeek{
		client:          openai.NewClientWithConfig(clientCfg),
		guard:           resilience.NewGuard("enrichment-api", circuitbreaker.EnrichmentAPIConfig(), retry.EnrichmentAPIConfig()),
		config:          cfg,
		pacer:           newPacer(cfg.MinInterval),
		metricsRecorder: NewPrometheusMetrics(),
	}
}

// Enrich generates the bilingual analysis for the item. On any transport
// error, open circuit, or unparseable response it returns the deterministic
// category-based fallback rather than an error; a missing API key
// short-circuits to the fallback without a network call.
func (d *DeepSeek) Enrich(ctx context.Context, item *entity.NewsItem, excerpt string) (*entity.Enrichment, error) {
	if d.config.APIKey == "" {
		d.metricsRecorder.RecordEnrichment(OutcomeNoCredential, 0)
		return fallbackEnrichment(item), nil
	}

	// Per-call timeout
	ctx, cancel := context.WithTimeout(ctx, d.config.Timeout)
	defer cancel()

	// Enforce minimum inter-call delay before touching the API
	if err := d.pacer.wait(ctx); err != nil {
		d.metricsRecorder.RecordEnrichment(OutcomeFallback, 0)
		return fallbackEnrichment(item), nil
	}

	start := time.Now()
	result, retryErr := resilience.Do(ctx, d.guard, "", func() (*entity.Enrichment, error) {
		return d.doEnrich(ctx, item, excerpt)
	})
	duration := time.Since(start)

	if retryErr != nil {
		slog.Warn("enrichment failed, using category fallback",
			slog.String("title", item.Title),
			slog.Duration("duration", duration),
			slog.Any("error", retryErr))
		d.metricsRecorder.RecordEnrichment(OutcomeFallback, duration)
		return fallbackEnrichment(item), nil
	}

	d.metricsRecorder.RecordEnrichment(OutcomeSuccess, duration)
	return result, nil
}

// doEnrich performs the actual API call without retry or circuit breaker.
func (d *DeepSeek) doEnrich(ctx context.Context, item *entity.NewsItem, excerpt string) (*entity.Enrichment, error) {
	prompt := buildPrompt(item, excerpt)

	slog.InfoContext(ctx, "Starting enrichment",
		slog.String("title", item.Title),
		slog.String("model", d.config.Model))

	resp, err := d.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: d.config.Model,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
		MaxTokens: d.config.MaxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("enrichment api error: %w", err)
	}

	// Validate response structure (safety check to prevent panic on array access)
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("enrichment api returned empty response")
	}

	enrichment, err := parseEnrichment(resp.Choices[0].Message.Content, item)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Enrichment completed",
		slog.String("title", item.Title),
		slog.String("sentiment", string(enrichment.Sentiment)))

	return enrichment, nil
}
