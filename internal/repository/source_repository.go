package repository

import (
	"context"
	"time"

	"htc-intelligence/internal/domain/entity"
)

type SourceRepository interface {
	Get(ctx context.Context, id int64) (*entity.Source, error)
	List(ctx context.Context) ([]*entity.Source, error)
	// ListActive returns the enabled sources in configuration order.
	// The orchestrator processes them in exactly this order.
	ListActive(ctx context.Context) ([]*entity.Source, error)
	TouchCrawledAt(ctx context.Context, id int64, t time.Time) error
}
