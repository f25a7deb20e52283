package news

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"htc-intelligence/internal/domain/entity"
	"htc-intelligence/internal/observability/metrics"
	"htc-intelligence/internal/repository"
)

// Page size bounds for list and search queries.
const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Service provides read access to stored news records.
type Service struct {
	Repo repository.NewsRepository
}

// NewService creates a news Service backed by the given repository.
func NewService(repo repository.NewsRepository) *Service {
	return &Service{Repo: repo}
}

// List retrieves news records, newest first. An empty category returns all
// records; limit 0 applies DefaultLimit.
func (s *Service) List(ctx context.Context, category string, limit int) ([]*entity.NewsItem, error) {
	limit, err := normalizeLimit(limit)
	if err != nil {
		return nil, err
	}

	items, err := s.Repo.List(ctx, repository.NewsListFilters{Category: category, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	return items, nil
}

// Search retrieves news records whose title or summary matches the keyword,
// newest first.
func (s *Service) Search(ctx context.Context, keyword string, limit int) ([]*entity.NewsItem, error) {
	if keyword == "" {
		return nil, ErrEmptyKeyword
	}
	limit, err := normalizeLimit(limit)
	if err != nil {
		return nil, err
	}

	items, err := s.Repo.Search(ctx, keyword, limit)
	if err != nil {
		return nil, fmt.Errorf("search news: %w", err)
	}
	return items, nil
}

// Count returns the total number of stored records.
func (s *Service) Count(ctx context.Context) (int64, error) {
	count, err := s.Repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count news: %w", err)
	}
	return count, nil
}

// PurgeOlderThan deletes records created more than retentionDays ago and
// returns the number deleted. Run by the scheduled retention job.
func (s *Service) PurgeOlderThan(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, ErrInvalidRetention
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	deleted, err := s.Repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge news older than %s: %w", cutoff.Format(time.DateOnly), err)
	}

	metrics.RecordRetentionPurge(deleted)
	if deleted > 0 {
		slog.Info("purged old news records",
			slog.Int64("deleted", deleted),
			slog.Time("cutoff", cutoff))
	}
	return deleted, nil
}

func normalizeLimit(limit int) (int, error) {
	if limit == 0 {
		return DefaultLimit, nil
	}
	if limit < 0 || limit > MaxLimit {
		return 0, fmt.Errorf("%w: %d (must be 1-%d)", ErrInvalidLimit, limit, MaxLimit)
	}
	return limit, nil
}
