package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/peakstart/ledger-api/internal/dto"
	"github.com/peakstart/ledger-api/internal/models"
)

const attendanceSelect = `SELECT a.id, a.worker_id, a.date, a.check_in_time, a.check_out_time, a.hours_worked, a.is_present, a.notes, a.created_at, a.updated_at,
	w.name AS worker_name, w.site_id AS site_id, s.name AS site_name
FROM attendance a
LEFT JOIN workers w ON w.id = a.worker_id
LEFT JOIN sites s ON s.id = w.site_id`

// AttendanceRepository manages persistence for attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// List returns attendance rows matching the filter, latest date first.
func (r *AttendanceRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]dto.AttendanceView, error) {
	var conds conditions
	if filter.WorkerID != nil {
		conds.add("a.worker_id = $%d", *filter.WorkerID)
	}
	if filter.SiteID != nil {
		conds.add("w.site_id = $%d", *filter.SiteID)
	}
	conds.addDateRange("a.date", filter.DateRange)

	query := attendanceSelect + conds.clause() + " ORDER BY a.date DESC, a.id DESC"
	records := make([]dto.AttendanceView, 0)
	if err := r.db.SelectContext(ctx, &records, query, conds.args...); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return records, nil
}

// FindByID fetches an attendance projection by ID.
func (r *AttendanceRepository) FindByID(ctx context.Context, id int64) (*dto.AttendanceView, error) {
	var record dto.AttendanceView
	if err := r.db.GetContext(ctx, &record, attendanceSelect+" WHERE a.id = $1", id); err != nil {
		return nil, err
	}
	return &record, nil
}

// Create inserts a new attendance record.
func (r *AttendanceRepository) Create(ctx context.Context, record *models.Attendance) error {
	now := time.Now().UTC()
	const query = `INSERT INTO attendance (worker_id, date, check_in_time, check_out_time, hours_worked, is_present, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.QueryRowxContext(ctx, query, record.WorkerID, record.Date, record.CheckInTime, record.CheckOutTime, record.HoursWorked, record.IsPresent, record.Notes, now, now).Scan(&record.ID); err != nil {
			return fmt.Errorf("create attendance: %w", err)
		}
		record.CreatedAt, record.UpdatedAt = now, now
		return nil
	})
}

// Update overwrites every mutable column of an attendance record.
func (r *AttendanceRepository) Update(ctx context.Context, record *models.Attendance) error {
	record.UpdatedAt = time.Now().UTC()
	const query = `UPDATE attendance SET worker_id = $1, date = $2, check_in_time = $3, check_out_time = $4, hours_worked = $5, is_present = $6, notes = $7, updated_at = $8 WHERE id = $9`
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, query, record.WorkerID, record.Date, record.CheckInTime, record.CheckOutTime, record.HoursWorked, record.IsPresent, record.Notes, record.UpdatedAt, record.ID)
		if err != nil {
			return fmt.Errorf("update attendance: %w", err)
		}
		return requireAffected(res)
	})
}

// Delete removes an attendance record.
func (r *AttendanceRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM attendance WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("delete attendance: %w", err)
		}
		return requireAffected(res)
	})
}
