package enricher

import (
	"encoding/json"
	"fmt"
	"strings"

	"htc-intelligence/internal/domain/entity"
)

// enrichmentPayload is the strict response schema expected from the
// chat-completion endpoint in JSON mode. Absent fields are defaulted from
// the item itself (titles, summaries) or the deterministic fallback
// (insights, sentiment).
type enrichmentPayload struct {
	TitleCN   string `json:"title_cn"`
	SummaryCN string `json:"summary_cn"`
	InsightCN string `json:"insight_cn"`
	InsightEN string `json:"insight_en"`
	Sentiment string `json:"sentiment"`
}

// buildPrompt constructs the analysis instruction for the chat-completion
// call. The excerpt, when available, carries the article body so the model
// works from the full context rather than the feed summary alone.
func buildPrompt(item *entity.NewsItem, excerpt string) string {
	var b strings.Builder

	b.WriteString("Role: Hawaii Tourism Board Strategist.\n")
	b.WriteString("Task: Analyze news for China market impact.\n")
	fmt.Fprintf(&b, "News: %q - %q\n", item.Title, item.Summary)
	if excerpt != "" {
		fmt.Fprintf(&b, "Full text (excerpt): %s\n", excerpt)
	}
	b.WriteString("\nOutput JSON ONLY:\n")
	b.WriteString("1. \"title_cn\": Chinese Title.\n")
	b.WriteString("2. \"summary_cn\": Chinese Summary (max 80 words).\n")
	b.WriteString("3. \"insight_cn\": Strategic implication for Hawaii in Chinese (max 50 words).\n")
	b.WriteString("4. \"insight_en\": Strategic implication for Hawaii in English (max 50 words).\n")
	b.WriteString("5. \"sentiment\": \"Positive\", \"Neutral\", or \"Negative\" (English).")

	return b.String()
}

// parseEnrichment decodes the provider response content and applies the
// defaulting rules: missing translations fall back to the source text,
// missing insights fall back to the category-derived canned text, and an
// unrecognized sentiment keeps the classifier's value.
func parseEnrichment(content string, item *entity.NewsItem) (*entity.Enrichment, error) {
	var payload enrichmentPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &payload); err != nil {
		return nil, fmt.Errorf("parse enrichment response: %w", err)
	}

	canned := cannedInsight(item.Categories)
	result := &entity.Enrichment{
		TitleCN:   payload.TitleCN,
		SummaryCN: payload.SummaryCN,
		InsightCN: payload.InsightCN,
		InsightEN: payload.InsightEN,
		Sentiment: item.Sentiment,
	}

	if result.TitleCN == "" {
		result.TitleCN = item.Title
	}
	if result.SummaryCN == "" {
		result.SummaryCN = item.Summary
	}
	if result.InsightCN == "" {
		result.InsightCN = canned.cn
	}
	if result.InsightEN == "" {
		result.InsightEN = canned.en
	}
	if payload.Sentiment != "" {
		result.Sentiment = entity.ParseSentiment(payload.Sentiment)
	}

	return result, nil
}
