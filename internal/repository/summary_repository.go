package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/peakstart/ledger-api/internal/models"
)

// SummaryRepository runs the aggregate queries behind ledger summaries.
type SummaryRepository struct {
	db *sqlx.DB
}

// NewSummaryRepository constructs a SummaryRepository.
func NewSummaryRepository(db *sqlx.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

// CostSummary totals the costs matching filter, overall and grouped by type and category.
func (r *SummaryRepository) CostSummary(ctx context.Context, filter models.CostFilter) (*models.CostSummary, error) {
	conds := costConditions(filter)
	where := conds.clause()

	var totals struct {
		TotalAmount float64 `db:"total_amount"`
		Count       int     `db:"count"`
	}
	if err := r.db.GetContext(ctx, &totals, "SELECT COALESCE(SUM(c.amount), 0) AS total_amount, COUNT(*) AS count FROM costs c"+where, conds.args...); err != nil {
		return nil, fmt.Errorf("sum costs: %w", err)
	}

	byType := make([]models.CostBucket, 0)
	typeQuery := "SELECT c.cost_type AS key, COALESCE(SUM(c.amount), 0) AS amount, COUNT(*) AS count FROM costs c" + where +
		" GROUP BY c.cost_type ORDER BY amount DESC, key"
	if err := r.db.SelectContext(ctx, &byType, typeQuery, conds.args...); err != nil {
		return nil, fmt.Errorf("sum costs by type: %w", err)
	}

	byCategory := make([]models.CostBucket, 0)
	categoryQuery := "SELECT COALESCE(c.category, '') AS key, COALESCE(SUM(c.amount), 0) AS amount, COUNT(*) AS count FROM costs c" + where +
		" GROUP BY COALESCE(c.category, '') ORDER BY amount DESC, key"
	if err := r.db.SelectContext(ctx, &byCategory, categoryQuery, conds.args...); err != nil {
		return nil, fmt.Errorf("sum costs by category: %w", err)
	}

	return &models.CostSummary{
		TotalAmount: totals.TotalAmount,
		Count:       totals.Count,
		ByType:      byType,
		ByCategory:  byCategory,
	}, nil
}

const workerSummaryQuery = `SELECT w.id AS worker_id, w.name AS worker_name, w.site_id, s.name AS site_name, w.daily_price,
	COUNT(a.id) FILTER (WHERE a.is_present) AS days_present,
	COUNT(a.id) FILTER (WHERE NOT a.is_present) AS days_absent,
	COALESCE(SUM(a.hours_worked), 0) AS total_hours
FROM workers w
LEFT JOIN sites s ON s.id = w.site_id
LEFT JOIN attendance a ON a.worker_id = w.id%s
WHERE w.id = $1
GROUP BY w.id, s.name`

// WorkerSummary totals a worker's attendance. Returns sql.ErrNoRows when the worker is unknown.
func (r *SummaryRepository) WorkerSummary(ctx context.Context, workerID int64, dates models.DateRange) (*models.WorkerSummary, error) {
	// $1 is the worker id; the date predicates restrict the attendance join.
	join := conditions{args: []interface{}{workerID}}
	join.addDateRange("a.date", dates)

	var summary models.WorkerSummary
	if err := r.db.GetContext(ctx, &summary, fmt.Sprintf(workerSummaryQuery, join.and()), join.args...); err != nil {
		return nil, err
	}
	summary.LaborCost = float64(summary.DaysPresent) * summary.DailyPrice
	summary.StartDate = dates.Start
	summary.EndDate = dates.End
	return &summary, nil
}

const siteSummaryQuery = `SELECT s.id AS site_id, s.name AS site_name,
	(SELECT COUNT(*) FROM workers w WHERE w.site_id = s.id) AS workers_total,
	(SELECT COUNT(*) FROM workers w WHERE w.site_id = s.id AND w.is_active) AS workers_active,
	(SELECT COUNT(*) FROM daily_activities d WHERE d.site_id = s.id) AS activities_count,
	(SELECT COALESCE(SUM(d.total_price), 0) FROM daily_activities d WHERE d.site_id = s.id) AS activities_total,
	(SELECT COUNT(*) FROM costs c WHERE c.site_id = s.id) AS costs_count,
	(SELECT COALESCE(SUM(c.amount), 0) FROM costs c WHERE c.site_id = s.id) AS costs_total
FROM sites s
WHERE s.id = $1`

// SiteSummary returns headline counts for a site. Returns sql.ErrNoRows when the site is unknown.
func (r *SummaryRepository) SiteSummary(ctx context.Context, siteID int64) (*models.SiteSummary, error) {
	var summary models.SiteSummary
	if err := r.db.GetContext(ctx, &summary, siteSummaryQuery, siteID); err != nil {
		return nil, err
	}
	return &summary, nil
}
