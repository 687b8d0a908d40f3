package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/peakstart/ledger-api/internal/dto"
	"github.com/peakstart/ledger-api/internal/models"
)

type costStore interface {
	List(ctx context.Context, filter models.CostFilter) ([]dto.CostView, error)
	FindByID(ctx context.Context, id int64) (*dto.CostView, error)
	Create(ctx context.Context, cost *models.Cost) error
	Update(ctx context.Context, cost *models.Cost) error
	Delete(ctx context.Context, id int64) error
}

// CreateCostRequest books an expense against a site. The optional worker and
// activity may belong to a different site.
type CreateCostRequest struct {
	SiteID          int64    `json:"site_id" validate:"required,gt=0"`
	WorkerID        *int64   `json:"worker_id" validate:"omitempty,gt=0"`
	DailyActivityID *int64   `json:"daily_activity_id" validate:"omitempty,gt=0"`
	CostType        string   `json:"cost_type" validate:"required,max=50"`
	Description     *string  `json:"description"`
	Amount          *float64 `json:"amount" validate:"required"`
	Date            string   `json:"date" validate:"required"`
	Category        *string  `json:"category" validate:"omitempty,max=100"`
}

// UpdateCostRequest carries the fields to change; absent fields keep their value.
type UpdateCostRequest struct {
	SiteID          *int64   `json:"site_id" validate:"omitempty,gt=0"`
	WorkerID        *int64   `json:"worker_id" validate:"omitempty,gt=0"`
	DailyActivityID *int64   `json:"daily_activity_id" validate:"omitempty,gt=0"`
	CostType        *string  `json:"cost_type" validate:"omitempty,min=1,max=50"`
	Description     *string  `json:"description"`
	Amount          *float64 `json:"amount"`
	Date            *string  `json:"date"`
	Category        *string  `json:"category" validate:"omitempty,max=100"`
}

type costPatch struct {
	UpdateCostRequest
	date *models.Date
}

func (r UpdateCostRequest) patch() (costPatch, error) {
	date, err := parseOptionalDate("date", r.Date)
	if err != nil {
		return costPatch{}, err
	}
	return costPatch{UpdateCostRequest: r, date: date}, nil
}

func (p costPatch) apply(cost *models.Cost) bool {
	changed := setInt64(&cost.SiteID, p.SiteID)
	changed = setOptionalInt64(&cost.WorkerID, p.WorkerID) || changed
	changed = setOptionalInt64(&cost.DailyActivityID, p.DailyActivityID) || changed
	changed = setString(&cost.CostType, p.CostType) || changed
	changed = setOptionalString(&cost.Description, p.Description) || changed
	changed = setFloat(&cost.Amount, p.Amount) || changed
	changed = setDate(&cost.Date, p.date) || changed
	changed = setOptionalString(&cost.Category, p.Category) || changed
	return changed
}

// CostService coordinates cost workflows.
type CostService struct {
	repo       costStore
	sites      existenceChecker
	workers    existenceChecker
	activities existenceChecker
	cache      summaryInvalidator
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewCostService constructs a CostService. cache may be nil.
func NewCostService(repo costStore, sites, workers, activities existenceChecker, cache summaryInvalidator, validate *validator.Validate, logger *zap.Logger) *CostService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CostService{
		repo:       repo,
		sites:      sites,
		workers:    workers,
		activities: activities,
		cache:      cache,
		validator:  validate,
		logger:     logger,
	}
}

// List returns costs matching filter.
func (s *CostService) List(ctx context.Context, filter models.CostFilter) ([]dto.CostView, error) {
	costs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, storeError(err, "costs", "list")
	}
	return costs, nil
}

// Get returns a cost by id.
func (s *CostService) Get(ctx context.Context, id int64) (*dto.CostView, error) {
	cost, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "cost", "load")
	}
	return cost, nil
}

// Create validates and stores a cost. Every supplied reference must exist.
func (s *CostService) Create(ctx context.Context, req CreateCostRequest) (*dto.CostView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError("cost", err)
	}
	date, err := parseDateField("date", req.Date)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, &req.SiteID, req.WorkerID, req.DailyActivityID); err != nil {
		return nil, err
	}

	cost := &models.Cost{
		SiteID:          req.SiteID,
		WorkerID:        req.WorkerID,
		DailyActivityID: req.DailyActivityID,
		CostType:        req.CostType,
		Description:     req.Description,
		Amount:          *req.Amount,
		Date:            date,
		Category:        req.Category,
	}
	if err := s.repo.Create(ctx, cost); err != nil {
		s.logger.Error("create cost failed", zap.Error(err))
		return nil, storeError(err, "cost", "create")
	}
	invalidateSummaries(ctx, s.cache, s.logger)
	s.logger.Info("cost created", zap.Int64("cost_id", cost.ID), zap.Int64("site_id", cost.SiteID), zap.String("cost_type", cost.CostType))
	return s.Get(ctx, cost.ID)
}

// Update applies a partial update. Only references that change are re-checked,
// so a cost whose worker was deleted can still be edited.
func (s *CostService) Update(ctx context.Context, id int64, req UpdateCostRequest) (*dto.CostView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError("cost", err)
	}
	p, err := req.patch()
	if err != nil {
		return nil, err
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "cost", "load")
	}
	var siteID, workerID, activityID *int64
	if p.SiteID != nil && *p.SiteID != current.SiteID {
		siteID = p.SiteID
	}
	if p.WorkerID != nil && (current.WorkerID == nil || *p.WorkerID != *current.WorkerID) {
		workerID = p.WorkerID
	}
	if p.DailyActivityID != nil && (current.DailyActivityID == nil || *p.DailyActivityID != *current.DailyActivityID) {
		activityID = p.DailyActivityID
	}
	if err := s.checkReferences(ctx, siteID, workerID, activityID); err != nil {
		return nil, err
	}

	cost := current.Cost
	if !p.apply(&cost) {
		return current, nil
	}
	if err := s.repo.Update(ctx, &cost); err != nil {
		s.logger.Error("update cost failed", zap.Int64("cost_id", id), zap.Error(err))
		return nil, storeError(err, "cost", "update")
	}
	invalidateSummaries(ctx, s.cache, s.logger)
	s.logger.Info("cost updated", zap.Int64("cost_id", id))
	return s.Get(ctx, id)
}

// Delete removes a cost.
func (s *CostService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "cost", "delete")
	}
	invalidateSummaries(ctx, s.cache, s.logger)
	s.logger.Info("cost deleted", zap.Int64("cost_id", id))
	return nil
}

func (s *CostService) checkReferences(ctx context.Context, siteID, workerID, activityID *int64) error {
	if siteID != nil {
		if err := requireReference(ctx, s.sites, "site_id", *siteID); err != nil {
			return err
		}
	}
	if workerID != nil {
		if err := requireReference(ctx, s.workers, "worker_id", *workerID); err != nil {
			return err
		}
	}
	if activityID != nil {
		if err := requireReference(ctx, s.activities, "daily_activity_id", *activityID); err != nil {
			return err
		}
	}
	return nil
}
