package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/peakstart/ledger-api/internal/dto"
	"github.com/peakstart/ledger-api/internal/models"
)

const costSelect = `SELECT c.id, c.site_id, c.worker_id, c.daily_activity_id, c.cost_type, c.description, c.amount, c.date, c.category, c.created_at, c.updated_at,
	s.name AS site_name, w.name AS worker_name, d.activity_name AS activity_name
FROM costs c
LEFT JOIN sites s ON s.id = c.site_id
LEFT JOIN workers w ON w.id = c.worker_id
LEFT JOIN daily_activities d ON d.id = c.daily_activity_id`

// CostRepository manages persistence for costs.
type CostRepository struct {
	db *sqlx.DB
}

// NewCostRepository constructs a CostRepository.
func NewCostRepository(db *sqlx.DB) *CostRepository {
	return &CostRepository{db: db}
}

// costConditions is shared by the list, summary and export queries.
func costConditions(filter models.CostFilter) conditions {
	var conds conditions
	if filter.SiteID != nil {
		conds.add("c.site_id = $%d", *filter.SiteID)
	}
	if filter.WorkerID != nil {
		conds.add("c.worker_id = $%d", *filter.WorkerID)
	}
	if filter.CostType != "" {
		conds.add("c.cost_type = $%d", filter.CostType)
	}
	if filter.Category != "" {
		conds.add("c.category = $%d", filter.Category)
	}
	conds.addDateRange("c.date", filter.DateRange)
	return conds
}

// List returns costs matching the filter, latest date first.
func (r *CostRepository) List(ctx context.Context, filter models.CostFilter) ([]dto.CostView, error) {
	conds := costConditions(filter)
	query := costSelect + conds.clause() + " ORDER BY c.date DESC, c.id DESC"
	costs := make([]dto.CostView, 0)
	if err := r.db.SelectContext(ctx, &costs, query, conds.args...); err != nil {
		return nil, fmt.Errorf("list costs: %w", err)
	}
	return costs, nil
}

// FindByID fetches a cost projection by ID.
func (r *CostRepository) FindByID(ctx context.Context, id int64) (*dto.CostView, error) {
	var cost dto.CostView
	if err := r.db.GetContext(ctx, &cost, costSelect+" WHERE c.id = $1", id); err != nil {
		return nil, err
	}
	return &cost, nil
}

// Create inserts a new cost.
func (r *CostRepository) Create(ctx context.Context, cost *models.Cost) error {
	now := time.Now().UTC()
	const query = `INSERT INTO costs (site_id, worker_id, daily_activity_id, cost_type, description, amount, date, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.QueryRowxContext(ctx, query, cost.SiteID, cost.WorkerID, cost.DailyActivityID, cost.CostType, cost.Description, cost.Amount, cost.Date, cost.Category, now, now).Scan(&cost.ID); err != nil {
			return fmt.Errorf("create cost: %w", err)
		}
		cost.CreatedAt, cost.UpdatedAt = now, now
		return nil
	})
}

// Update overwrites every mutable column of a cost.
func (r *CostRepository) Update(ctx context.Context, cost *models.Cost) error {
	cost.UpdatedAt = time.Now().UTC()
	const query = `UPDATE costs SET site_id = $1, worker_id = $2, daily_activity_id = $3, cost_type = $4, description = $5, amount = $6, date = $7, category = $8, updated_at = $9 WHERE id = $10`
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, query, cost.SiteID, cost.WorkerID, cost.DailyActivityID, cost.CostType, cost.Description, cost.Amount, cost.Date, cost.Category, cost.UpdatedAt, cost.ID)
		if err != nil {
			return fmt.Errorf("update cost: %w", err)
		}
		return requireAffected(res)
	})
}

// Delete removes a cost.
func (r *CostRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM costs WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("delete cost: %w", err)
		}
		return requireAffected(res)
	})
}
