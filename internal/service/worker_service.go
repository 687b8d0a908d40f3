package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/peakstart/ledger-api/internal/dto"
	"github.com/peakstart/ledger-api/internal/models"
)

type workerStore interface {
	List(ctx context.Context, filter models.WorkerFilter) ([]dto.WorkerView, error)
	FindByID(ctx context.Context, id int64) (*dto.WorkerView, error)
	Create(ctx context.Context, worker *models.Worker) error
	Update(ctx context.Context, worker *models.Worker) error
	Delete(ctx context.Context, id int64) (int, error)
}

// CreateWorkerRequest is the payload for hiring a worker onto a site.
type CreateWorkerRequest struct {
	Name       string   `json:"name" validate:"required,max=200"`
	Position   string   `json:"position" validate:"required,max=200"`
	DailyPrice *float64 `json:"daily_price" validate:"omitempty,gte=0"`
	Phone      *string  `json:"phone" validate:"omitempty,max=50"`
	Email      *string  `json:"email" validate:"omitempty,email"`
	SiteID     int64    `json:"site_id" validate:"required,gt=0"`
	IsActive   *bool    `json:"is_active"`
}

// UpdateWorkerRequest carries the fields to change; absent fields keep their value.
type UpdateWorkerRequest struct {
	Name       *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Position   *string  `json:"position" validate:"omitempty,min=1,max=200"`
	DailyPrice *float64 `json:"daily_price" validate:"omitempty,gte=0"`
	Phone      *string  `json:"phone" validate:"omitempty,max=50"`
	Email      *string  `json:"email" validate:"omitempty,email"`
	SiteID     *int64   `json:"site_id" validate:"omitempty,gt=0"`
	IsActive   *bool    `json:"is_active"`
}

func (r UpdateWorkerRequest) apply(worker *models.Worker) bool {
	changed := setString(&worker.Name, r.Name)
	changed = setString(&worker.Position, r.Position) || changed
	changed = setFloat(&worker.DailyPrice, r.DailyPrice) || changed
	changed = setOptionalString(&worker.Phone, r.Phone) || changed
	changed = setOptionalString(&worker.Email, r.Email) || changed
	changed = setInt64(&worker.SiteID, r.SiteID) || changed
	changed = setBool(&worker.IsActive, r.IsActive) || changed
	return changed
}

// WorkerService coordinates worker workflows.
type WorkerService struct {
	repo      workerStore
	sites     existenceChecker
	cache     summaryInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewWorkerService constructs a WorkerService. cache may be nil.
func NewWorkerService(repo workerStore, sites existenceChecker, cache summaryInvalidator, validate *validator.Validate, logger *zap.Logger) *WorkerService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkerService{repo: repo, sites: sites, cache: cache, validator: validate, logger: logger}
}

// List returns workers matching filter.
func (s *WorkerService) List(ctx context.Context, filter models.WorkerFilter) ([]dto.WorkerView, error) {
	workers, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, storeError(err, "workers", "list")
	}
	return workers, nil
}

// Get returns a worker by id.
func (s *WorkerService) Get(ctx context.Context, id int64) (*dto.WorkerView, error) {
	worker, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "worker", "load")
	}
	return worker, nil
}

// Create validates and stores a new worker. The site must exist.
func (s *WorkerService) Create(ctx context.Context, req CreateWorkerRequest) (*dto.WorkerView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError("worker", err)
	}
	if err := requireReference(ctx, s.sites, "site_id", req.SiteID); err != nil {
		return nil, err
	}

	worker := &models.Worker{
		Name:       req.Name,
		Position:   req.Position,
		Phone:      req.Phone,
		Email:      req.Email,
		SiteID:     req.SiteID,
		IsActive:   true,
	}
	if req.DailyPrice != nil {
		worker.DailyPrice = *req.DailyPrice
	}
	if req.IsActive != nil {
		worker.IsActive = *req.IsActive
	}

	if err := s.repo.Create(ctx, worker); err != nil {
		s.logger.Error("create worker failed", zap.Error(err))
		return nil, storeError(err, "worker", "create")
	}
	invalidateSummaries(ctx, s.cache, s.logger)
	s.logger.Info("worker created", zap.Int64("worker_id", worker.ID), zap.Int64("site_id", worker.SiteID))
	return s.Get(ctx, worker.ID)
}

// Update applies a partial update. A patch that changes nothing is not written.
func (s *WorkerService) Update(ctx context.Context, id int64, req UpdateWorkerRequest) (*dto.WorkerView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError("worker", err)
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "worker", "load")
	}
	if req.SiteID != nil && *req.SiteID != current.SiteID {
		if err := requireReference(ctx, s.sites, "site_id", *req.SiteID); err != nil {
			return nil, err
		}
	}

	worker := current.Worker
	if !req.apply(&worker) {
		return current, nil
	}
	if err := s.repo.Update(ctx, &worker); err != nil {
		s.logger.Error("update worker failed", zap.Int64("worker_id", id), zap.Error(err))
		return nil, storeError(err, "worker", "update")
	}
	invalidateSummaries(ctx, s.cache, s.logger)
	s.logger.Info("worker updated", zap.Int64("worker_id", id))
	return s.Get(ctx, id)
}

// Delete removes a worker and its attendance. Costs that reference the worker
// are kept with their worker_id intact.
func (s *WorkerService) Delete(ctx context.Context, id int64) error {
	orphaned, err := s.repo.Delete(ctx, id)
	if err != nil {
		return storeError(err, "worker", "delete")
	}
	invalidateSummaries(ctx, s.cache, s.logger)
	if orphaned > 0 {
		s.logger.Warn("worker deleted with referencing costs", zap.Int64("worker_id", id), zap.Int("dangling_costs", orphaned))
	} else {
		s.logger.Info("worker deleted", zap.Int64("worker_id", id))
	}
	return nil
}
