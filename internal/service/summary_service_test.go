package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peakstart/ledger-api/internal/models"
	appErrors "github.com/peakstart/ledger-api/pkg/errors"
)

type summaryRepoStub struct {
	calls   int
	onQuery func()
	costs   *models.CostSummary
	worker  *models.WorkerSummary
	site    *models.SiteSummary
	err     error
}

func (s *summaryRepoStub) CostSummary(context.Context, models.CostFilter) (*models.CostSummary, error) {
	s.calls++
	if s.onQuery != nil {
		s.onQuery()
	}
	return s.costs, s.err
}

func (s *summaryRepoStub) WorkerSummary(context.Context, int64, models.DateRange) (*models.WorkerSummary, error) {
	s.calls++
	return s.worker, s.err
}

func (s *summaryRepoStub) SiteSummary(context.Context, int64) (*models.SiteSummary, error) {
	s.calls++
	return s.site, s.err
}

// memoryCacheRepo keeps JSON payloads in a map, mimicking the Redis repository.
type memoryCacheRepo struct {
	entries map[string][]byte
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: map[string][]byte{}}
}

func (m *memoryCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(_ context.Context, _ string) error {
	m.entries = map[string][]byte{}
	return nil
}

func TestSummaryServiceCachesUntilInvalidated(t *testing.T) {
	repo := &summaryRepoStub{costs: &models.CostSummary{TotalAmount: 10, Count: 1, ByType: []models.CostBucket{{Key: "material", Amount: 10, Count: 1}}, ByCategory: []models.CostBucket{}}}
	metrics := NewMetricsService()
	cache := NewCacheService(newMemoryCacheRepo(), metrics, time.Minute, nil, true)
	svc := NewSummaryService(repo, cache, metrics, time.Minute, nil)
	ctx := context.Background()
	siteID := int64(1)

	first, err := svc.Costs(ctx, models.CostFilter{SiteID: &siteID})
	require.NoError(t, err)
	second, err := svc.Costs(ctx, models.CostFilter{SiteID: &siteID})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.calls)

	// A different filter is a different key.
	_, err = svc.Costs(ctx, models.CostFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)

	require.NoError(t, cache.Invalidate(ctx, SummaryCachePattern))
	_, err = svc.Costs(ctx, models.CostFilter{SiteID: &siteID})
	require.NoError(t, err)
	assert.Equal(t, 3, repo.calls)
}

func TestSummaryServiceDropsResultInvalidatedMidQuery(t *testing.T) {
	repo := &summaryRepoStub{costs: &models.CostSummary{TotalAmount: 10, Count: 1, ByType: []models.CostBucket{}, ByCategory: []models.CostBucket{}}}
	cacheRepo := newMemoryCacheRepo()
	cache := NewCacheService(cacheRepo, nil, time.Minute, nil, true)
	svc := NewSummaryService(repo, cache, nil, time.Minute, nil)
	ctx := context.Background()

	// A cost is written while the summary query is in flight.
	repo.onQuery = func() {
		require.NoError(t, cache.Invalidate(ctx, SummaryCachePattern))
		repo.costs = &models.CostSummary{TotalAmount: 25, Count: 2, ByType: []models.CostBucket{}, ByCategory: []models.CostBucket{}}
	}
	_, err := svc.Costs(ctx, models.CostFilter{})
	require.NoError(t, err)
	assert.Empty(t, cacheRepo.entries)

	repo.onQuery = nil
	fresh, err := svc.Costs(ctx, models.CostFilter{})
	require.NoError(t, err)
	assert.Equal(t, 25.0, fresh.TotalAmount)
	assert.Equal(t, 2, repo.calls)

	cached, err := svc.Costs(ctx, models.CostFilter{})
	require.NoError(t, err)
	assert.Equal(t, 25.0, cached.TotalAmount)
	assert.Equal(t, 2, repo.calls)
}

func TestSummaryServiceWithoutCache(t *testing.T) {
	repo := &summaryRepoStub{site: &models.SiteSummary{SiteID: 2, SiteName: "A", CostsTotal: 50}}
	svc := NewSummaryService(repo, nil, nil, 0, nil)

	for i := 0; i < 2; i++ {
		summary, err := svc.Site(context.Background(), 2)
		require.NoError(t, err)
		assert.Equal(t, 50.0, summary.CostsTotal)
	}
	assert.Equal(t, 2, repo.calls)
}

func TestSummaryServiceUnknownWorker(t *testing.T) {
	repo := &summaryRepoStub{err: sql.ErrNoRows}
	svc := NewSummaryService(repo, NewCacheService(newMemoryCacheRepo(), nil, 0, nil, false), nil, 0, nil)

	_, err := svc.Worker(context.Background(), 5, models.DateRange{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.Equal(t, "worker not found", appErrors.FromError(err).Message)
}

func TestCostFilterKeyDistinguishesFields(t *testing.T) {
	day := models.NewDate(2024, time.January, 2)
	a := costFilterKey(models.CostFilter{CostType: "material"})
	b := costFilterKey(models.CostFilter{Category: "material"})
	c := costFilterKey(models.CostFilter{DateRange: models.DateRange{Start: &day}})
	d := costFilterKey(models.CostFilter{DateRange: models.DateRange{End: &day}})
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, c, d)
}
