package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/peakstart/ledger-api/internal/models"
)

type summaryStore interface {
	CostSummary(ctx context.Context, filter models.CostFilter) (*models.CostSummary, error)
	WorkerSummary(ctx context.Context, workerID int64, dates models.DateRange) (*models.WorkerSummary, error)
	SiteSummary(ctx context.Context, siteID int64) (*models.SiteSummary, error)
}

type summaryCache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Generation() uint64
	SetIfCurrent(ctx context.Context, key string, value interface{}, ttl time.Duration, gen uint64) bool
}

// SummaryService aggregates ledger totals, caching results until the next mutation.
type SummaryService struct {
	repo    summaryStore
	cache   summaryCache
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
}

// NewSummaryService constructs a SummaryService. cache and metrics may be nil.
func NewSummaryService(repo summaryStore, cache summaryCache, metrics *MetricsService, ttl time.Duration, logger *zap.Logger) *SummaryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryService{repo: repo, cache: cache, metrics: metrics, ttl: ttl, logger: logger}
}

// Costs totals the costs matching filter.
func (s *SummaryService) Costs(ctx context.Context, filter models.CostFilter) (*models.CostSummary, error) {
	key := SummaryKey("costs", costFilterKey(filter))
	var cached models.CostSummary
	if s.lookup(ctx, key, &cached) {
		return &cached, nil
	}

	gen := s.generation()
	start := time.Now()
	summary, err := s.repo.CostSummary(ctx, filter)
	s.metrics.ObserveDBQuery("cost_summary", time.Since(start))
	if err != nil {
		s.logger.Error("cost summary failed", zap.Error(err))
		return nil, storeError(err, "cost summary", "compute")
	}
	s.store(ctx, key, summary, gen)
	return summary, nil
}

// Worker totals a worker's attendance within dates.
func (s *SummaryService) Worker(ctx context.Context, workerID int64, dates models.DateRange) (*models.WorkerSummary, error) {
	key := SummaryKey("worker", strconv.FormatInt(workerID, 10), optionalDateKey(dates.Start), optionalDateKey(dates.End))
	var cached models.WorkerSummary
	if s.lookup(ctx, key, &cached) {
		return &cached, nil
	}

	gen := s.generation()
	start := time.Now()
	summary, err := s.repo.WorkerSummary(ctx, workerID, dates)
	s.metrics.ObserveDBQuery("worker_summary", time.Since(start))
	if err != nil {
		return nil, storeError(err, "worker", "summarize")
	}
	s.store(ctx, key, summary, gen)
	return summary, nil
}

// Site returns headline totals for a site.
func (s *SummaryService) Site(ctx context.Context, siteID int64) (*models.SiteSummary, error) {
	key := SummaryKey("site", strconv.FormatInt(siteID, 10))
	var cached models.SiteSummary
	if s.lookup(ctx, key, &cached) {
		return &cached, nil
	}

	gen := s.generation()
	start := time.Now()
	summary, err := s.repo.SiteSummary(ctx, siteID)
	s.metrics.ObserveDBQuery("site_summary", time.Since(start))
	if err != nil {
		return nil, storeError(err, "site", "summarize")
	}
	s.store(ctx, key, summary, gen)
	return summary, nil
}

func (s *SummaryService) lookup(ctx context.Context, key string, dest interface{}) bool {
	return s.cache != nil && s.cache.Get(ctx, key, dest)
}

func (s *SummaryService) generation() uint64 {
	if s.cache == nil {
		return 0
	}
	return s.cache.Generation()
}

// store skips the write when a mutation invalidated the cache while the
// summary was being computed.
func (s *SummaryService) store(ctx context.Context, key string, value interface{}, gen uint64) {
	if s.cache != nil {
		s.cache.SetIfCurrent(ctx, key, value, s.ttl, gen)
	}
}

func costFilterKey(f models.CostFilter) string {
	return fmt.Sprintf("site=%s|worker=%s|type=%s|category=%s|on=%s|from=%s|to=%s",
		optionalIDKey(f.SiteID), optionalIDKey(f.WorkerID), f.CostType, f.Category,
		optionalDateKey(f.DateRange.On), optionalDateKey(f.DateRange.Start), optionalDateKey(f.DateRange.End))
}

func optionalIDKey(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

func optionalDateKey(d *models.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}
