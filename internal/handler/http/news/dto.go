// Package news provides HTTP handlers for the news read API: listing,
// category filtering, keyword search, and store statistics.
package news

import (
	"time"

	"htc-intelligence/internal/domain/entity"
)

// DTO represents the JSON structure for news data transfer.
type DTO struct {
	ID          int64     `json:"id" example:"1"`
	Title       string    `json:"title" example:"Thailand extends visa-free entry for Chinese tourists"`
	Link        string    `json:"link" example:"https://example.com/news/1"`
	Summary     string    `json:"summary" example:"The visa-free scheme has been extended through 2026..."`
	SourceName  string    `json:"source_name" example:"Travel Daily"`
	Categories  []string  `json:"categories" example:"Visa Policy,Short Haul"`
	Sentiment   string    `json:"sentiment" example:"Positive"`
	TitleCN     string    `json:"title_cn,omitempty"`
	SummaryCN   string    `json:"summary_cn,omitempty"`
	InsightCN   string    `json:"insight_cn,omitempty"`
	InsightEN   string    `json:"insight_en,omitempty"`
	PublishedAt time.Time `json:"published_at" example:"2026-08-26T10:00:00Z"`
	CreatedAt   time.Time `json:"created_at" example:"2026-08-26T12:00:00Z"`
}

func toDTO(item *entity.NewsItem) DTO {
	return DTO{
		ID:          item.ID,
		Title:       item.Title,
		Link:        item.Link,
		Summary:     item.Summary,
		SourceName:  item.SourceName,
		Categories:  item.Categories,
		Sentiment:   string(item.Sentiment),
		TitleCN:     item.TitleCN,
		SummaryCN:   item.SummaryCN,
		InsightCN:   item.InsightCN,
		InsightEN:   item.InsightEN,
		PublishedAt: item.PublishedAt,
		CreatedAt:   item.CreatedAt,
	}
}

func toDTOs(items []*entity.NewsItem) []DTO {
	out := make([]DTO, 0, len(items))
	for _, item := range items {
		out = append(out, toDTO(item))
	}
	return out
}
