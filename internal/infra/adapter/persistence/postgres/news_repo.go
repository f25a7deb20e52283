package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"htc-intelligence/internal/domain/entity"
	"htc-intelligence/internal/observability/metrics"
	"htc-intelligence/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// observeQuery feeds the per-operation query duration histogram.
// Use with defer: defer observeQuery("news_list", time.Now()).
func observeQuery(operation string, start time.Time) {
	metrics.RecordDBQuery(operation, time.Since(start))
}

// uniqueViolation is the SQLSTATE code pgx reports when an INSERT hits
// a unique constraint.
const uniqueViolation = "23505"

// defaultListLimit caps list queries when the caller does not supply a limit.
const defaultListLimit = 100

type NewsRepo struct{ db *sql.DB }

func NewNewsRepo(db *sql.DB) repository.NewsRepository {
	return &NewsRepo{db: db}
}

const newsColumns = `id, title, link, summary, source_name, categories, sentiment,
	title_cn, summary_cn, insight_cn, insight_en, published_at, created_at, updated_at`

func scanNewsItem(scanner interface{ Scan(dest ...any) error }) (*entity.NewsItem, error) {
	var item entity.NewsItem
	var categories pq.StringArray
	var sentiment string
	if err := scanner.Scan(
		&item.ID, &item.Title, &item.Link, &item.Summary, &item.SourceName,
		&categories, &sentiment,
		&item.TitleCN, &item.SummaryCN, &item.InsightCN, &item.InsightEN,
		&item.PublishedAt, &item.CreatedAt, &item.UpdatedAt,
	); err != nil {
		return nil, err
	}
	item.Categories = []string(categories)
	item.Sentiment = entity.ParseSentiment(sentiment)
	return &item, nil
}

func (repo *NewsRepo) FindByTitle(ctx context.Context, title string) (*entity.NewsItem, error) {
	defer observeQuery("news_find_by_title", time.Now())
	const query = `
SELECT id, title, link, summary, source_name, categories, sentiment,
	title_cn, summary_cn, insight_cn, insight_en, published_at, created_at, updated_at
FROM news
WHERE title = $1
LIMIT 1`
	item, err := scanNewsItem(repo.db.QueryRowContext(ctx, query, title))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindByTitle: %w", err)
	}
	return item, nil
}

func (repo *NewsRepo) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	defer observeQuery("news_exists_by_title", time.Now())
	const query = `SELECT EXISTS (SELECT 1 FROM news WHERE title = $1)`
	var existsFlag bool
	err := repo.db.QueryRowContext(ctx, query, title).Scan(&existsFlag)
	if err != nil {
		return false, fmt.Errorf("ExistsByTitle: %w", err)
	}
	return existsFlag, nil
}

// ExistsByTitleBatch checks many titles in one query to avoid an N+1 pattern
// when a source yields a page of candidates.
func (repo *NewsRepo) ExistsByTitleBatch(ctx context.Context, titles []string) (map[string]bool, error) {
	defer observeQuery("news_exists_by_title_batch", time.Now())
	if len(titles) == 0 {
		return make(map[string]bool), nil
	}

	const query = `SELECT title FROM news WHERE title = ANY($1)`
	rows, err := repo.db.QueryContext(ctx, query, pq.Array(titles))
	if err != nil {
		return nil, fmt.Errorf("ExistsByTitleBatch: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]bool)
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("ExistsByTitleBatch: Scan: %w", err)
		}
		result[title] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ExistsByTitleBatch: rows.Err: %w", err)
	}

	return result, nil
}

func (repo *NewsRepo) Create(ctx context.Context, item *entity.NewsItem) error {
	defer observeQuery("news_create", time.Now())
	const query = `
INSERT INTO news
	   (title, link, summary, source_name, categories, sentiment,
	    title_cn, summary_cn, insight_cn, insight_en, published_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING id`
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	err := repo.db.QueryRowContext(ctx, query,
		item.Title, item.Link, item.Summary, item.SourceName,
		pq.Array(item.Categories), string(item.Sentiment),
		item.TitleCN, item.SummaryCN, item.InsightCN, item.InsightEN,
		item.PublishedAt, item.CreatedAt, item.UpdatedAt,
	).Scan(&item.ID)
	if err != nil {
		// The UNIQUE(title) constraint backstops the check-then-insert
		// race between concurrent runs. Connections go through the pgx
		// stdlib driver, so constraint failures surface as *pgconn.PgError.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("Create: %w", entity.ErrDuplicateTitle)
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *NewsRepo) List(ctx context.Context, filters repository.NewsListFilters) ([]*entity.NewsItem, error) {
	defer observeQuery("news_list", time.Now())
	limit := filters.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	var rows *sql.Rows
	var err error
	if filters.Category != "" {
		const query = `
SELECT id, title, link, summary, source_name, categories, sentiment,
	title_cn, summary_cn, insight_cn, insight_en, published_at, created_at, updated_at
FROM news
WHERE $1 = ANY(categories)
ORDER BY published_at DESC
LIMIT $2`
		rows, err = repo.db.QueryContext(ctx, query, filters.Category, limit)
	} else {
		const query = `
SELECT id, title, link, summary, source_name, categories, sentiment,
	title_cn, summary_cn, insight_cn, insight_en, published_at, created_at, updated_at
FROM news
ORDER BY published_at DESC
LIMIT $1`
		rows, err = repo.db.QueryContext(ctx, query, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]*entity.NewsItem, 0, limit)
	for rows.Next() {
		item, err := scanNewsItem(rows)
		if err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (repo *NewsRepo) Search(ctx context.Context, keyword string, limit int) ([]*entity.NewsItem, error) {
	defer observeQuery("news_search", time.Now())
	if limit <= 0 {
		limit = defaultListLimit
	}

	const query = `
SELECT id, title, link, summary, source_name, categories, sentiment,
	title_cn, summary_cn, insight_cn, insight_en, published_at, created_at, updated_at
FROM news
WHERE title   ILIKE $1
   OR summary ILIKE $1
   OR title_cn ILIKE $1
ORDER BY published_at DESC
LIMIT $2`
	param := "%" + keyword + "%"
	rows, err := repo.db.QueryContext(ctx, query, param, limit)
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]*entity.NewsItem, 0, limit)
	for rows.Next() {
		item, err := scanNewsItem(rows)
		if err != nil {
			return nil, fmt.Errorf("Search: Scan: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (repo *NewsRepo) Count(ctx context.Context) (int64, error) {
	defer observeQuery("news_count", time.Now())
	const query = `SELECT COUNT(*) FROM news`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}

func (repo *NewsRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	defer observeQuery("news_delete_older_than", time.Now())
	const query = `DELETE FROM news WHERE created_at < $1`
	res, err := repo.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("DeleteOlderThan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteOlderThan: RowsAffected: %w", err)
	}
	return n, nil
}
