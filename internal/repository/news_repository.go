package repository

import (
	"context"
	"time"

	"htc-intelligence/internal/domain/entity"
)

// NewsListFilters contains optional filters for listing news records.
type NewsListFilters struct {
	Category string // Optional: only records tagged with this category
	Limit    int    // Maximum number of rows to return; 0 means the caller's default
}

type NewsRepository interface {
	// FindByTitle retrieves a record by exact title match.
	// Returns (nil, nil) if no record exists with that title.
	FindByTitle(ctx context.Context, title string) (*entity.NewsItem, error)
	// ExistsByTitle reports whether a record with the exact title exists.
	ExistsByTitle(ctx context.Context, title string) (bool, error)
	// ExistsByTitleBatch checks many titles in one round trip, avoiding an
	// N+1 query pattern when a source yields a page of candidates.
	ExistsByTitleBatch(ctx context.Context, titles []string) (map[string]bool, error)
	// Create inserts a new record and stamps created_at/updated_at.
	// Returns entity.ErrDuplicateTitle if the title is already stored.
	Create(ctx context.Context, item *entity.NewsItem) error
	List(ctx context.Context, filters NewsListFilters) ([]*entity.NewsItem, error)
	Search(ctx context.Context, keyword string, limit int) ([]*entity.NewsItem, error)
	Count(ctx context.Context) (int64, error)
	// DeleteOlderThan removes records created before the cutoff and returns
	// the number of rows deleted. Maintenance operation, not part of a run.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
