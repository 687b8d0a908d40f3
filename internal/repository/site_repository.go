package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/peakstart/ledger-api/internal/models"
)

const siteColumns = "id, name, location, description, start_date, end_date, status, created_at, updated_at"

// SiteRepository manages persistence for sites.
type SiteRepository struct {
	db *sqlx.DB
}

// NewSiteRepository constructs a SiteRepository.
func NewSiteRepository(db *sqlx.DB) *SiteRepository {
	return &SiteRepository{db: db}
}

// List returns sites matching the filter, newest first.
func (r *SiteRepository) List(ctx context.Context, filter models.SiteFilter) ([]models.Site, error) {
	var conds conditions
	if filter.Status != "" {
		conds.add("status = $%d", filter.Status)
	}
	if filter.StartFrom != nil {
		conds.add("start_date >= $%d", *filter.StartFrom)
	}
	if filter.EndBy != nil {
		conds.add("end_date <= $%d", *filter.EndBy)
	}

	query := "SELECT " + siteColumns + " FROM sites" + conds.clause() + " ORDER BY created_at DESC, id DESC"
	sites := make([]models.Site, 0)
	if err := r.db.SelectContext(ctx, &sites, query, conds.args...); err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	return sites, nil
}

// FindByID fetches a site by ID.
func (r *SiteRepository) FindByID(ctx context.Context, id int64) (*models.Site, error) {
	var site models.Site
	if err := r.db.GetContext(ctx, &site, "SELECT "+siteColumns+" FROM sites WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &site, nil
}

// Exists reports whether a site with the given ID is stored.
func (r *SiteRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.db, "sites", id)
}

// Create inserts a new site and fills in its generated fields.
func (r *SiteRepository) Create(ctx context.Context, site *models.Site) error {
	now := time.Now().UTC()
	const query = `INSERT INTO sites (name, location, description, start_date, end_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.QueryRowxContext(ctx, query, site.Name, site.Location, site.Description, site.StartDate, site.EndDate, site.Status, now, now).Scan(&site.ID); err != nil {
			return fmt.Errorf("create site: %w", err)
		}
		site.CreatedAt, site.UpdatedAt = now, now
		return nil
	})
}

// Update overwrites every mutable column of a site.
func (r *SiteRepository) Update(ctx context.Context, site *models.Site) error {
	site.UpdatedAt = time.Now().UTC()
	const query = `UPDATE sites SET name = $1, location = $2, description = $3, start_date = $4, end_date = $5, status = $6, updated_at = $7 WHERE id = $8`
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, query, site.Name, site.Location, site.Description, site.StartDate, site.EndDate, site.Status, site.UpdatedAt, site.ID)
		if err != nil {
			return fmt.Errorf("update site: %w", err)
		}
		return requireAffected(res)
	})
}

// Delete removes a site; workers, their attendance, activities and costs go with it.
func (r *SiteRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM sites WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("delete site: %w", err)
		}
		return requireAffected(res)
	})
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
