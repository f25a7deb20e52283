package news_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"htc-intelligence/internal/domain/entity"
	"htc-intelligence/internal/repository"
	"htc-intelligence/internal/usecase/news"
)

type stubNewsRepo struct {
	items       []*entity.NewsItem
	listFilters repository.NewsListFilters
	searchKw    string
	searchLimit int
	count       int64
	deleted     int64
	cutoff      time.Time
	err         error
}

func (s *stubNewsRepo) List(_ context.Context, filters repository.NewsListFilters) ([]*entity.NewsItem, error) {
	s.listFilters = filters
	return s.items, s.err
}

func (s *stubNewsRepo) Search(_ context.Context, keyword string, limit int) ([]*entity.NewsItem, error) {
	s.searchKw = keyword
	s.searchLimit = limit
	return s.items, s.err
}

func (s *stubNewsRepo) Count(_ context.Context) (int64, error) {
	return s.count, s.err
}

func (s *stubNewsRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.cutoff = cutoff
	return s.deleted, s.err
}

// Unused by the read service, implemented to satisfy the interface.
func (s *stubNewsRepo) FindByTitle(_ context.Context, _ string) (*entity.NewsItem, error) {
	return nil, nil
}
func (s *stubNewsRepo) ExistsByTitle(_ context.Context, _ string) (bool, error) { return false, nil }
func (s *stubNewsRepo) ExistsByTitleBatch(_ context.Context, _ []string) (map[string]bool, error) {
	return nil, nil
}
func (s *stubNewsRepo) Create(_ context.Context, _ *entity.NewsItem) error { return nil }

func TestList(t *testing.T) {
	repo := &stubNewsRepo{items: []*entity.NewsItem{{ID: 1, Title: "a"}}}
	svc := news.NewService(repo)

	items, err := svc.List(context.Background(), "Aviation", 10)
	require.NoError(t, err)

	assert.Len(t, items, 1)
	assert.Equal(t, "Aviation", repo.listFilters.Category)
	assert.Equal(t, 10, repo.listFilters.Limit)
}

func TestList_DefaultLimit(t *testing.T) {
	repo := &stubNewsRepo{}
	svc := news.NewService(repo)

	_, err := svc.List(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Equal(t, news.DefaultLimit, repo.listFilters.Limit)
}

func TestList_InvalidLimit(t *testing.T) {
	svc := news.NewService(&stubNewsRepo{})

	_, err := svc.List(context.Background(), "", -1)
	assert.ErrorIs(t, err, news.ErrInvalidLimit)

	_, err = svc.List(context.Background(), "", news.MaxLimit+1)
	assert.ErrorIs(t, err, news.ErrInvalidLimit)
}

func TestList_RepoError(t *testing.T) {
	svc := news.NewService(&stubNewsRepo{err: errors.New("db down")})

	_, err := svc.List(context.Background(), "", 10)
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	repo := &stubNewsRepo{items: []*entity.NewsItem{{ID: 1, Title: "visa news"}}}
	svc := news.NewService(repo)

	items, err := svc.Search(context.Background(), "visa", 25)
	require.NoError(t, err)

	assert.Len(t, items, 1)
	assert.Equal(t, "visa", repo.searchKw)
	assert.Equal(t, 25, repo.searchLimit)
}

func TestSearch_EmptyKeyword(t *testing.T) {
	svc := news.NewService(&stubNewsRepo{})

	_, err := svc.Search(context.Background(), "", 10)
	assert.ErrorIs(t, err, news.ErrEmptyKeyword)
}

func TestCount(t *testing.T) {
	svc := news.NewService(&stubNewsRepo{count: 42})

	count, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
}

func TestPurgeOlderThan(t *testing.T) {
	repo := &stubNewsRepo{deleted: 7}
	svc := news.NewService(repo)

	deleted, err := svc.PurgeOlderThan(context.Background(), 180)
	require.NoError(t, err)

	assert.Equal(t, int64(7), deleted)
	wantCutoff := time.Now().AddDate(0, 0, -180)
	assert.WithinDuration(t, wantCutoff, repo.cutoff, time.Minute)
}

func TestPurgeOlderThan_InvalidRetention(t *testing.T) {
	svc := news.NewService(&stubNewsRepo{})

	_, err := svc.PurgeOlderThan(context.Background(), 0)
	assert.ErrorIs(t, err, news.ErrInvalidRetention)
}
