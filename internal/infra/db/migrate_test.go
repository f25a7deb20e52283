package db

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var schemaPatterns = []string{
	"CREATE TABLE IF NOT EXISTS sources",
	"CREATE TABLE IF NOT EXISTS news",
	"idx_news_published_at",
	"idx_news_created_at",
	"idx_news_categories",
	"idx_sources_active",
}

var bestEffortPatterns = []string{
	"CREATE EXTENSION IF NOT EXISTS pg_trgm",
	"idx_news_title_gin",
	"idx_news_summary_gin",
	"chk_source_type",
	"chk_news_sentiment",
}

func newMigrateMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestMigrateUp_Success(t *testing.T) {
	db, mock := newMigrateMock(t)

	for _, pattern := range append(append([]string{}, schemaPatterns...), bestEffortPatterns...) {
		mock.ExpectExec(pattern).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectExec("INSERT INTO sources").WillReturnResult(sqlmock.NewResult(0, 7))

	require.NoError(t, MigrateUp(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUp_SchemaErrorAborts(t *testing.T) {
	db, mock := newMigrateMock(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS sources").
		WillReturnError(sql.ErrConnDone)

	assert.Error(t, MigrateUp(db))
}

func TestMigrateUp_BestEffortFailuresTolerated(t *testing.T) {
	db, mock := newMigrateMock(t)

	for _, pattern := range schemaPatterns {
		mock.ExpectExec(pattern).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	// A restricted role cannot create extensions; migration must carry on.
	for _, pattern := range bestEffortPatterns {
		mock.ExpectExec(pattern).WillReturnError(sql.ErrConnDone)
	}
	mock.ExpectExec("INSERT INTO sources").WillReturnResult(sqlmock.NewResult(0, 7))

	require.NoError(t, MigrateUp(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUp_SeedError(t *testing.T) {
	db, mock := newMigrateMock(t)

	for _, pattern := range append(append([]string{}, schemaPatterns...), bestEffortPatterns...) {
		mock.ExpectExec(pattern).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectExec("INSERT INTO sources").WillReturnError(sql.ErrConnDone)

	assert.Error(t, MigrateUp(db))
}

func TestAddConstraint(t *testing.T) {
	stmt := addConstraint("news", "chk_news_sentiment", "CHECK (sentiment IN ('Neutral'))")
	assert.Contains(t, stmt, "WHERE conname = 'chk_news_sentiment'")
	assert.Contains(t, stmt, "ALTER TABLE news ADD CONSTRAINT chk_news_sentiment")
}

func TestSeedSourcesEmbedded(t *testing.T) {
	require.NotEmpty(t, seedSourcesSQL)
	assert.Contains(t, seedSourcesSQL, "ON CONFLICT (name) DO NOTHING")
	assert.Contains(t, seedSourcesSQL, "Travel News Asia")
	assert.Contains(t, seedSourcesSQL, "Skift")
}
