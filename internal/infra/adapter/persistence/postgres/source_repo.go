package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"htc-intelligence/internal/domain/entity"
	"htc-intelligence/internal/repository"
)

type SourceRepo struct{ db *sql.DB }

func NewSourceRepo(db *sql.DB) repository.SourceRepository {
	return &SourceRepo{db: db}
}

// sourceConfig is the JSONB payload stored in the config column. It bundles
// the optional per-source extraction settings so schema changes stay cheap.
type sourceConfig struct {
	Selectors         *entity.SelectorConfig `json:"selectors,omitempty"`
	Encoding          string                 `json:"encoding,omitempty"`
	RelevanceKeywords []string               `json:"relevance_keywords,omitempty"`
	ForcedCategories  []string               `json:"forced_categories,omitempty"`
}

func scanSource(scanner interface{ Scan(dest ...any) error }) (*entity.Source, error) {
	var source entity.Source
	var configJSON []byte
	if err := scanner.Scan(
		&source.ID, &source.Name, &source.FeedURL, &source.LastCrawledAt,
		&source.Active, &source.SourceType, &configJSON,
	); err != nil {
		return nil, err
	}

	if len(configJSON) > 0 {
		var cfg sourceConfig
		if err := json.Unmarshal(configJSON, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal source config: %w", err)
		}
		source.Selectors = cfg.Selectors
		source.Encoding = cfg.Encoding
		source.RelevanceKeywords = cfg.RelevanceKeywords
		source.ForcedCategories = cfg.ForcedCategories
	}

	return &source, nil
}

func (repo *SourceRepo) Get(ctx context.Context, id int64) (*entity.Source, error) {
	defer observeQuery("source_get", time.Now())
	const query = `
SELECT id, name, feed_url, last_crawled_at, active, source_type, config
FROM sources
WHERE id = $1
LIMIT 1`
	source, err := scanSource(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return source, nil
}

func (repo *SourceRepo) List(ctx context.Context) ([]*entity.Source, error) {
	defer observeQuery("source_list", time.Now())
	return repo.querySources(ctx, "List", `
SELECT id, name, feed_url, last_crawled_at, active, source_type, config
FROM sources
ORDER BY position ASC, id ASC`)
}

// ListActive returns enabled sources in configuration order. The pipeline
// processes sources in exactly this order.
func (repo *SourceRepo) ListActive(ctx context.Context) ([]*entity.Source, error) {
	defer observeQuery("source_list_active", time.Now())
	return repo.querySources(ctx, "ListActive", `
SELECT id, name, feed_url, last_crawled_at, active, source_type, config
FROM sources
WHERE active = TRUE
ORDER BY position ASC, id ASC`)
}

func (repo *SourceRepo) querySources(ctx context.Context, op, query string) ([]*entity.Source, error) {
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	sources := make([]*entity.Source, 0, 16)
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		sources = append(sources, source)
	}
	return sources, rows.Err()
}

func (repo *SourceRepo) TouchCrawledAt(ctx context.Context, id int64, t time.Time) error {
	defer observeQuery("source_touch_crawled_at", time.Now())
	const query = `UPDATE sources SET last_crawled_at = $1 WHERE id = $2`
	_, err := repo.db.ExecContext(ctx, query, t, id)
	return err
}
