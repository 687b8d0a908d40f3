package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/peakstart/ledger-api/internal/dto"
	"github.com/peakstart/ledger-api/internal/models"
)

type dailyActivityStore interface {
	List(ctx context.Context, filter models.DailyActivityFilter) ([]dto.DailyActivityView, error)
	FindByID(ctx context.Context, id int64) (*dto.DailyActivityView, error)
	Create(ctx context.Context, activity *models.DailyActivity) error
	Update(ctx context.Context, activity *models.DailyActivity) error
	Delete(ctx context.Context, id int64) error
}

// CreateDailyActivityRequest logs work done on a site. TotalPrice is stored as
// given and is not derived from Quantity and UnitPrice.
type CreateDailyActivityRequest struct {
	SiteID          int64    `json:"site_id" validate:"required,gt=0"`
	Date            string   `json:"date" validate:"required"`
	ActivityName    string   `json:"activity_name" validate:"required,max=200"`
	Description     *string  `json:"description"`
	Quantity        *float64 `json:"quantity" validate:"omitempty,gte=0"`
	UnitPrice       *float64 `json:"unit_price" validate:"omitempty,gte=0"`
	TotalPrice      *float64 `json:"total_price" validate:"omitempty,gte=0"`
	WorkersInvolved []int64  `json:"workers_involved" validate:"omitempty,dive,gt=0"`
}

// UpdateDailyActivityRequest carries the fields to change; absent fields keep their value.
type UpdateDailyActivityRequest struct {
	SiteID          *int64   `json:"site_id" validate:"omitempty,gt=0"`
	Date            *string  `json:"date"`
	ActivityName    *string  `json:"activity_name" validate:"omitempty,min=1,max=200"`
	Description     *string  `json:"description"`
	Quantity        *float64 `json:"quantity" validate:"omitempty,gte=0"`
	UnitPrice       *float64 `json:"unit_price" validate:"omitempty,gte=0"`
	TotalPrice      *float64 `json:"total_price" validate:"omitempty,gte=0"`
	WorkersInvolved *[]int64 `json:"workers_involved" validate:"omitempty,dive,gt=0"`
}

type dailyActivityPatch struct {
	UpdateDailyActivityRequest
	date *models.Date
}

func (r UpdateDailyActivityRequest) patch() (dailyActivityPatch, error) {
	date, err := parseOptionalDate("date", r.Date)
	if err != nil {
		return dailyActivityPatch{}, err
	}
	return dailyActivityPatch{UpdateDailyActivityRequest: r, date: date}, nil
}

func (p dailyActivityPatch) apply(activity *models.DailyActivity) bool {
	changed := setInt64(&activity.SiteID, p.SiteID)
	changed = setDate(&activity.Date, p.date) || changed
	changed = setString(&activity.ActivityName, p.ActivityName) || changed
	changed = setOptionalString(&activity.Description, p.Description) || changed
	changed = setFloat(&activity.Quantity, p.Quantity) || changed
	changed = setFloat(&activity.UnitPrice, p.UnitPrice) || changed
	changed = setFloat(&activity.TotalPrice, p.TotalPrice) || changed
	if p.WorkersInvolved != nil && !sameWorkers(activity.WorkersInvolved, *p.WorkersInvolved) {
		activity.WorkersInvolved = workerList(*p.WorkersInvolved)
		changed = true
	}
	return changed
}

func workerList(ids []int64) pq.Int64Array {
	out := make(pq.Int64Array, len(ids))
	copy(out, ids)
	return out
}

func sameWorkers(current pq.Int64Array, next []int64) bool {
	if len(current) != len(next) {
		return false
	}
	for i := range current {
		if current[i] != next[i] {
			return false
		}
	}
	return true
}

// DailyActivityService coordinates daily activity workflows.
type DailyActivityService struct {
	repo      dailyActivityStore
	sites     existenceChecker
	cache     summaryInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDailyActivityService constructs a DailyActivityService. cache may be nil.
func NewDailyActivityService(repo dailyActivityStore, sites existenceChecker, cache summaryInvalidator, validate *validator.Validate, logger *zap.Logger) *DailyActivityService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DailyActivityService{repo: repo, sites: sites, cache: cache, validator: validate, logger: logger}
}

// List returns activities matching filter.
func (s *DailyActivityService) List(ctx context.Context, filter models.DailyActivityFilter) ([]dto.DailyActivityView, error) {
	activities, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, storeError(err, "daily activities", "list")
	}
	return activities, nil
}

// Get returns an activity by id.
func (s *DailyActivityService) Get(ctx context.Context, id int64) (*dto.DailyActivityView, error) {
	activity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "daily activity", "load")
	}
	return activity, nil
}

// Create validates and stores an activity. The site must exist.
func (s *DailyActivityService) Create(ctx context.Context, req CreateDailyActivityRequest) (*dto.DailyActivityView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError("daily activity", err)
	}
	date, err := parseDateField("date", req.Date)
	if err != nil {
		return nil, err
	}
	if err := requireReference(ctx, s.sites, "site_id", req.SiteID); err != nil {
		return nil, err
	}

	activity := &models.DailyActivity{
		SiteID:          req.SiteID,
		Date:            date,
		ActivityName:    req.ActivityName,
		Description:     req.Description,
		Quantity:        1.0,
		WorkersInvolved: workerList(req.WorkersInvolved),
	}
	if req.Quantity != nil {
		activity.Quantity = *req.Quantity
	}
	if req.UnitPrice != nil {
		activity.UnitPrice = *req.UnitPrice
	}
	if req.TotalPrice != nil {
		activity.TotalPrice = *req.TotalPrice
	}

	if err := s.repo.Create(ctx, activity); err != nil {
		s.logger.Error("create daily activity failed", zap.Error(err))
		return nil, storeError(err, "daily activity", "create")
	}
	invalidateSummaries(ctx, s.cache, s.logger)
	s.logger.Info("daily activity created", zap.Int64("activity_id", activity.ID), zap.Int64("site_id", activity.SiteID))
	return s.Get(ctx, activity.ID)
}

// Update applies a partial update. total_price is never recomputed.
func (s *DailyActivityService) Update(ctx context.Context, id int64, req UpdateDailyActivityRequest) (*dto.DailyActivityView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError("daily activity", err)
	}
	p, err := req.patch()
	if err != nil {
		return nil, err
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "daily activity", "load")
	}
	if p.SiteID != nil && *p.SiteID != current.SiteID {
		if err := requireReference(ctx, s.sites, "site_id", *p.SiteID); err != nil {
			return nil, err
		}
	}

	activity := current.DailyActivity
	if !p.apply(&activity) {
		return current, nil
	}
	if err := s.repo.Update(ctx, &activity); err != nil {
		s.logger.Error("update daily activity failed", zap.Int64("activity_id", id), zap.Error(err))
		return nil, storeError(err, "daily activity", "update")
	}
	invalidateSummaries(ctx, s.cache, s.logger)
	s.logger.Info("daily activity updated", zap.Int64("activity_id", id))
	return s.Get(ctx, id)
}

// Delete removes an activity. Costs that reference it keep the id.
func (s *DailyActivityService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "daily activity", "delete")
	}
	invalidateSummaries(ctx, s.cache, s.logger)
	s.logger.Info("daily activity deleted", zap.Int64("activity_id", id))
	return nil
}
