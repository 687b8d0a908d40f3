package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/peakstart/ledger-api/internal/dto"
	"github.com/peakstart/ledger-api/internal/models"
)

const dailyActivitySelect = `SELECT d.id, d.site_id, d.date, d.activity_name, d.description, d.quantity, d.unit_price, d.total_price, d.workers_involved, d.created_at, d.updated_at,
	s.name AS site_name
FROM daily_activities d
LEFT JOIN sites s ON s.id = d.site_id`

// DailyActivityRepository manages persistence for daily activities.
type DailyActivityRepository struct {
	db *sqlx.DB
}

// NewDailyActivityRepository constructs a DailyActivityRepository.
func NewDailyActivityRepository(db *sqlx.DB) *DailyActivityRepository {
	return &DailyActivityRepository{db: db}
}

// List returns activities matching the filter, latest date first.
func (r *DailyActivityRepository) List(ctx context.Context, filter models.DailyActivityFilter) ([]dto.DailyActivityView, error) {
	var conds conditions
	if filter.SiteID != nil {
		conds.add("d.site_id = $%d", *filter.SiteID)
	}
	conds.addDateRange("d.date", filter.DateRange)

	query := dailyActivitySelect + conds.clause() + " ORDER BY d.date DESC, d.id DESC"
	activities := make([]dto.DailyActivityView, 0)
	if err := r.db.SelectContext(ctx, &activities, query, conds.args...); err != nil {
		return nil, fmt.Errorf("list daily activities: %w", err)
	}
	return activities, nil
}

// FindByID fetches an activity projection by ID.
func (r *DailyActivityRepository) FindByID(ctx context.Context, id int64) (*dto.DailyActivityView, error) {
	var activity dto.DailyActivityView
	if err := r.db.GetContext(ctx, &activity, dailyActivitySelect+" WHERE d.id = $1", id); err != nil {
		return nil, err
	}
	return &activity, nil
}

// Exists reports whether an activity with the given ID is stored.
func (r *DailyActivityRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.db, "daily_activities", id)
}

// Create inserts a new activity together with its worker list.
func (r *DailyActivityRepository) Create(ctx context.Context, activity *models.DailyActivity) error {
	now := time.Now().UTC()
	const query = `INSERT INTO daily_activities (site_id, date, activity_name, description, quantity, unit_price, total_price, workers_involved, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.QueryRowxContext(ctx, query, activity.SiteID, activity.Date, activity.ActivityName, activity.Description, activity.Quantity, activity.UnitPrice, activity.TotalPrice, activity.WorkersInvolved, now, now).Scan(&activity.ID); err != nil {
			return fmt.Errorf("create daily activity: %w", err)
		}
		activity.CreatedAt, activity.UpdatedAt = now, now
		return nil
	})
}

// Update overwrites every mutable column of an activity. total_price is stored as given.
func (r *DailyActivityRepository) Update(ctx context.Context, activity *models.DailyActivity) error {
	activity.UpdatedAt = time.Now().UTC()
	const query = `UPDATE daily_activities SET site_id = $1, date = $2, activity_name = $3, description = $4, quantity = $5, unit_price = $6, total_price = $7, workers_involved = $8, updated_at = $9 WHERE id = $10`
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, query, activity.SiteID, activity.Date, activity.ActivityName, activity.Description, activity.Quantity, activity.UnitPrice, activity.TotalPrice, activity.WorkersInvolved, activity.UpdatedAt, activity.ID)
		if err != nil {
			return fmt.Errorf("update daily activity: %w", err)
		}
		return requireAffected(res)
	})
}

// Delete removes an activity. Costs referencing it keep the dangling id.
func (r *DailyActivityRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM daily_activities WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("delete daily activity: %w", err)
		}
		return requireAffected(res)
	})
}
