package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/peakstart/ledger-api/internal/dto"
	"github.com/peakstart/ledger-api/internal/models"
)

type attendanceStore interface {
	List(ctx context.Context, filter models.AttendanceFilter) ([]dto.AttendanceView, error)
	FindByID(ctx context.Context, id int64) (*dto.AttendanceView, error)
	Create(ctx context.Context, record *models.Attendance) error
	Update(ctx context.Context, record *models.Attendance) error
	Delete(ctx context.Context, id int64) error
}

// CreateAttendanceRequest records a worker's day.
type CreateAttendanceRequest struct {
	WorkerID     int64    `json:"worker_id" validate:"required,gt=0"`
	Date         string   `json:"date" validate:"required"`
	CheckInTime  *string  `json:"check_in_time"`
	CheckOutTime *string  `json:"check_out_time"`
	HoursWorked  *float64 `json:"hours_worked" validate:"omitempty,gte=0"`
	IsPresent    *bool    `json:"is_present"`
	Notes        *string  `json:"notes"`
}

// UpdateAttendanceRequest carries the fields to change; absent fields keep their value.
type UpdateAttendanceRequest struct {
	WorkerID     *int64   `json:"worker_id" validate:"omitempty,gt=0"`
	Date         *string  `json:"date"`
	CheckInTime  *string  `json:"check_in_time"`
	CheckOutTime *string  `json:"check_out_time"`
	HoursWorked  *float64 `json:"hours_worked" validate:"omitempty,gte=0"`
	IsPresent    *bool    `json:"is_present"`
	Notes        *string  `json:"notes"`
}

type attendancePatch struct {
	workerID     *int64
	date         *models.Date
	checkInTime  *models.ClockTime
	checkOutTime *models.ClockTime
	hoursWorked  *float64
	isPresent    *bool
	notes        *string
}

func (r UpdateAttendanceRequest) patch() (attendancePatch, error) {
	date, err := parseOptionalDate("date", r.Date)
	if err != nil {
		return attendancePatch{}, err
	}
	in, err := parseOptionalClock("check_in_time", r.CheckInTime)
	if err != nil {
		return attendancePatch{}, err
	}
	out, err := parseOptionalClock("check_out_time", r.CheckOutTime)
	if err != nil {
		return attendancePatch{}, err
	}
	return attendancePatch{
		workerID:     r.WorkerID,
		date:         date,
		checkInTime:  in,
		checkOutTime: out,
		hoursWorked:  r.HoursWorked,
		isPresent:    r.IsPresent,
		notes:        r.Notes,
	}, nil
}

func (p attendancePatch) apply(record *models.Attendance) bool {
	changed := setInt64(&record.WorkerID, p.workerID)
	changed = setDate(&record.Date, p.date) || changed
	changed = setOptionalClock(&record.CheckInTime, p.checkInTime) || changed
	changed = setOptionalClock(&record.CheckOutTime, p.checkOutTime) || changed
	changed = setFloat(&record.HoursWorked, p.hoursWorked) || changed
	changed = setBool(&record.IsPresent, p.isPresent) || changed
	changed = setOptionalString(&record.Notes, p.notes) || changed
	return changed
}

// AttendanceService coordinates attendance workflows.
type AttendanceService struct {
	repo      attendanceStore
	workers   existenceChecker
	cache     summaryInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs an AttendanceService. cache may be nil.
func NewAttendanceService(repo attendanceStore, workers existenceChecker, cache summaryInvalidator, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, workers: workers, cache: cache, validator: validate, logger: logger}
}

// List returns attendance matching filter.
func (s *AttendanceService) List(ctx context.Context, filter models.AttendanceFilter) ([]dto.AttendanceView, error) {
	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, storeError(err, "attendance", "list")
	}
	return records, nil
}

// Get returns an attendance record by id.
func (s *AttendanceService) Get(ctx context.Context, id int64) (*dto.AttendanceView, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "attendance", "load")
	}
	return record, nil
}

// Create validates and stores an attendance record. The worker must exist.
func (s *AttendanceService) Create(ctx context.Context, req CreateAttendanceRequest) (*dto.AttendanceView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError("attendance", err)
	}
	date, err := parseDateField("date", req.Date)
	if err != nil {
		return nil, err
	}
	in, err := parseOptionalClock("check_in_time", req.CheckInTime)
	if err != nil {
		return nil, err
	}
	out, err := parseOptionalClock("check_out_time", req.CheckOutTime)
	if err != nil {
		return nil, err
	}
	if err := requireReference(ctx, s.workers, "worker_id", req.WorkerID); err != nil {
		return nil, err
	}

	record := &models.Attendance{
		WorkerID:     req.WorkerID,
		Date:         date,
		CheckInTime:  in,
		CheckOutTime: out,
		IsPresent:    true,
		Notes:        req.Notes,
	}
	if req.HoursWorked != nil {
		record.HoursWorked = *req.HoursWorked
	}
	if req.IsPresent != nil {
		record.IsPresent = *req.IsPresent
	}

	if err := s.repo.Create(ctx, record); err != nil {
		s.logger.Error("create attendance failed", zap.Error(err))
		return nil, storeError(err, "attendance", "create")
	}
	invalidateSummaries(ctx, s.cache, s.logger)
	s.logger.Info("attendance recorded", zap.Int64("attendance_id", record.ID), zap.Int64("worker_id", record.WorkerID))
	return s.Get(ctx, record.ID)
}

// Update applies a partial update. A patch that changes nothing is not written.
func (s *AttendanceService) Update(ctx context.Context, id int64, req UpdateAttendanceRequest) (*dto.AttendanceView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError("attendance", err)
	}
	p, err := req.patch()
	if err != nil {
		return nil, err
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "attendance", "load")
	}
	if p.workerID != nil && *p.workerID != current.WorkerID {
		if err := requireReference(ctx, s.workers, "worker_id", *p.workerID); err != nil {
			return nil, err
		}
	}

	record := current.Attendance
	if !p.apply(&record) {
		return current, nil
	}
	if err := s.repo.Update(ctx, &record); err != nil {
		s.logger.Error("update attendance failed", zap.Int64("attendance_id", id), zap.Error(err))
		return nil, storeError(err, "attendance", "update")
	}
	invalidateSummaries(ctx, s.cache, s.logger)
	s.logger.Info("attendance updated", zap.Int64("attendance_id", id))
	return s.Get(ctx, id)
}

// Delete removes an attendance record.
func (s *AttendanceService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "attendance", "delete")
	}
	invalidateSummaries(ctx, s.cache, s.logger)
	s.logger.Info("attendance deleted", zap.Int64("attendance_id", id))
	return nil
}
