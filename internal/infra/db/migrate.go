package db

import (
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed seeds/sources.sql
var seedSourcesSQL string

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS sources (
    id              SERIAL PRIMARY KEY,
    name            TEXT NOT NULL UNIQUE,
    feed_url        TEXT NOT NULL,
    last_crawled_at TIMESTAMPTZ,
    active          BOOLEAN DEFAULT TRUE,
    source_type     VARCHAR(10) NOT NULL DEFAULT 'RSS',
    config          JSONB,
    position        INTEGER NOT NULL DEFAULT 0
)`,
	// Title is the dedup key: the UNIQUE constraint backstops the pipeline's
	// check-then-insert against races between concurrent runs.
	`CREATE TABLE IF NOT EXISTS news (
    id           SERIAL PRIMARY KEY,
    title        TEXT NOT NULL UNIQUE,
    link         TEXT NOT NULL,
    summary      TEXT NOT NULL DEFAULT '',
    source_name  TEXT NOT NULL,
    categories   TEXT[] NOT NULL DEFAULT '{}',
    sentiment    VARCHAR(10) NOT NULL DEFAULT 'Neutral',
    title_cn     TEXT NOT NULL DEFAULT '',
    summary_cn   TEXT NOT NULL DEFAULT '',
    insight_cn   TEXT NOT NULL DEFAULT '',
    insight_en   TEXT NOT NULL DEFAULT '',
    published_at TIMESTAMPTZ NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	// list/search queries order by published_at DESC
	`CREATE INDEX IF NOT EXISTS idx_news_published_at ON news(published_at DESC)`,
	// retention purge filters on created_at
	`CREATE INDEX IF NOT EXISTS idx_news_created_at ON news(created_at)`,
	// category filter uses = ANY(categories)
	`CREATE INDEX IF NOT EXISTS idx_news_categories ON news USING gin(categories)`,
	`CREATE INDEX IF NOT EXISTS idx_sources_active ON sources(active) WHERE active = TRUE`,
}

// bestEffortStatements may fail on restricted roles (pg_trgm needs superuser
// on some hosts) without blocking the pipeline.
var bestEffortStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS pg_trgm`,
	`CREATE INDEX IF NOT EXISTS idx_news_title_gin ON news USING gin(title gin_trgm_ops)`,
	`CREATE INDEX IF NOT EXISTS idx_news_summary_gin ON news USING gin(summary gin_trgm_ops)`,
	addConstraint("sources", "chk_source_type", `CHECK (source_type IN ('RSS', 'HTML'))`),
	addConstraint("news", "chk_news_sentiment", `CHECK (sentiment IN ('Positive', 'Neutral', 'Negative'))`),
}

// addConstraint builds an idempotent ALTER TABLE; Postgres has no
// ADD CONSTRAINT IF NOT EXISTS, so it goes through a DO block.
func addConstraint(table, name, check string) string {
	return fmt.Sprintf(`
DO $$
BEGIN
    IF NOT EXISTS (
        SELECT 1 FROM pg_constraint
        WHERE conname = '%s'
    ) THEN
        ALTER TABLE %s ADD CONSTRAINT %s
        %s;
    END IF;
END $$;
`, name, table, name, check)
}

// MigrateUp creates the schema and seeds the source list. Every statement is
// idempotent, so it runs unconditionally at worker startup.
func MigrateUp(db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	for _, stmt := range bestEffortStatements {
		_, _ = db.Exec(stmt)
	}

	// ON CONFLICT in the seed file skips sources that already exist.
	if _, err := db.Exec(seedSourcesSQL); err != nil {
		return err
	}
	return nil
}
