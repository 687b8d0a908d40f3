package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/peakstart/ledger-api/internal/dto"
	"github.com/peakstart/ledger-api/internal/models"
)

const workerSelect = `SELECT w.id, w.name, w.position, w.daily_price, w.phone, w.email, w.site_id, w.is_active, w.created_at, w.updated_at,
	s.name AS site_name
FROM workers w
LEFT JOIN sites s ON s.id = w.site_id`

// WorkerRepository manages persistence for workers.
type WorkerRepository struct {
	db *sqlx.DB
}

// NewWorkerRepository constructs a WorkerRepository.
func NewWorkerRepository(db *sqlx.DB) *WorkerRepository {
	return &WorkerRepository{db: db}
}

// List returns workers matching the filter, newest first.
func (r *WorkerRepository) List(ctx context.Context, filter models.WorkerFilter) ([]dto.WorkerView, error) {
	var conds conditions
	if filter.SiteID != nil {
		conds.add("w.site_id = $%d", *filter.SiteID)
	}
	if filter.IsActive != nil {
		conds.add("w.is_active = $%d", *filter.IsActive)
	}

	query := workerSelect + conds.clause() + " ORDER BY w.created_at DESC, w.id DESC"
	workers := make([]dto.WorkerView, 0)
	if err := r.db.SelectContext(ctx, &workers, query, conds.args...); err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}
	return workers, nil
}

// FindByID fetches a worker projection by ID.
func (r *WorkerRepository) FindByID(ctx context.Context, id int64) (*dto.WorkerView, error) {
	var worker dto.WorkerView
	if err := r.db.GetContext(ctx, &worker, workerSelect+" WHERE w.id = $1", id); err != nil {
		return nil, err
	}
	return &worker, nil
}

// Exists reports whether a worker with the given ID is stored.
func (r *WorkerRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.db, "workers", id)
}

// Create inserts a new worker and fills in its generated fields.
func (r *WorkerRepository) Create(ctx context.Context, worker *models.Worker) error {
	now := time.Now().UTC()
	const query = `INSERT INTO workers (name, position, daily_price, phone, email, site_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.QueryRowxContext(ctx, query, worker.Name, worker.Position, worker.DailyPrice, worker.Phone, worker.Email, worker.SiteID, worker.IsActive, now, now).Scan(&worker.ID); err != nil {
			return fmt.Errorf("create worker: %w", err)
		}
		worker.CreatedAt, worker.UpdatedAt = now, now
		return nil
	})
}

// Update overwrites every mutable column of a worker.
func (r *WorkerRepository) Update(ctx context.Context, worker *models.Worker) error {
	worker.UpdatedAt = time.Now().UTC()
	const query = `UPDATE workers SET name = $1, position = $2, daily_price = $3, phone = $4, email = $5, site_id = $6, is_active = $7, updated_at = $8 WHERE id = $9`
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, query, worker.Name, worker.Position, worker.DailyPrice, worker.Phone, worker.Email, worker.SiteID, worker.IsActive, worker.UpdatedAt, worker.ID)
		if err != nil {
			return fmt.Errorf("update worker: %w", err)
		}
		return requireAffected(res)
	})
}

// Delete removes a worker and its attendance. Costs referencing the worker are
// kept; the number of such rows is returned.
func (r *WorkerRepository) Delete(ctx context.Context, id int64) (int, error) {
	var orphaned int
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &orphaned, "SELECT COUNT(*) FROM costs WHERE worker_id = $1", id); err != nil {
			return fmt.Errorf("count worker costs: %w", err)
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM workers WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("delete worker: %w", err)
		}
		return requireAffected(res)
	})
	if err != nil {
		return 0, err
	}
	return orphaned, nil
}
