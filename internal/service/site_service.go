package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/peakstart/ledger-api/internal/models"
)

type siteStore interface {
	List(ctx context.Context, filter models.SiteFilter) ([]models.Site, error)
	FindByID(ctx context.Context, id int64) (*models.Site, error)
	Create(ctx context.Context, site *models.Site) error
	Update(ctx context.Context, site *models.Site) error
	Delete(ctx context.Context, id int64) error
}

// CreateSiteRequest is the payload for registering a site.
type CreateSiteRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Location    *string `json:"location" validate:"omitempty,max=300"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Status      string  `json:"status" validate:"omitempty,oneof=active completed on_hold"`
}

// UpdateSiteRequest carries the fields to change; absent fields keep their value.
type UpdateSiteRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Location    *string `json:"location" validate:"omitempty,max=300"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Status      *string `json:"status" validate:"omitempty,oneof=active completed on_hold"`
}

type sitePatch struct {
	name        *string
	location    *string
	description *string
	startDate   *models.Date
	endDate     *models.Date
	status      *string
}

func (r UpdateSiteRequest) patch() (sitePatch, error) {
	start, err := parseOptionalDate("start_date", r.StartDate)
	if err != nil {
		return sitePatch{}, err
	}
	end, err := parseOptionalDate("end_date", r.EndDate)
	if err != nil {
		return sitePatch{}, err
	}
	return sitePatch{
		name:        r.Name,
		location:    r.Location,
		description: r.Description,
		startDate:   start,
		endDate:     end,
		status:      r.Status,
	}, nil
}

func (p sitePatch) apply(site *models.Site) bool {
	changed := setString(&site.Name, p.name)
	changed = setOptionalString(&site.Location, p.location) || changed
	changed = setOptionalString(&site.Description, p.description) || changed
	changed = setOptionalDate(&site.StartDate, p.startDate) || changed
	changed = setOptionalDate(&site.EndDate, p.endDate) || changed
	if p.status != nil && site.Status != models.SiteStatus(*p.status) {
		site.Status = models.SiteStatus(*p.status)
		changed = true
	}
	return changed
}

// SiteService coordinates site workflows.
type SiteService struct {
	repo      siteStore
	cache     summaryInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSiteService constructs a SiteService. cache may be nil.
func NewSiteService(repo siteStore, cache summaryInvalidator, validate *validator.Validate, logger *zap.Logger) *SiteService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SiteService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns sites matching filter.
func (s *SiteService) List(ctx context.Context, filter models.SiteFilter) ([]models.Site, error) {
	sites, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, storeError(err, "sites", "list")
	}
	return sites, nil
}

// Get returns a site by id.
func (s *SiteService) Get(ctx context.Context, id int64) (*models.Site, error) {
	site, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "site", "load")
	}
	return site, nil
}

// Create validates and stores a new site.
func (s *SiteService) Create(ctx context.Context, req CreateSiteRequest) (*models.Site, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError("site", err)
	}
	start, err := parseOptionalDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseOptionalDate("end_date", req.EndDate)
	if err != nil {
		return nil, err
	}

	site := &models.Site{
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
		StartDate:   start,
		EndDate:     end,
		Status:      models.SiteStatusActive,
	}
	if req.Status != "" {
		site.Status = models.SiteStatus(req.Status)
	}

	if err := s.repo.Create(ctx, site); err != nil {
		s.logger.Error("create site failed", zap.Error(err))
		return nil, storeError(err, "site", "create")
	}
	invalidateSummaries(ctx, s.cache, s.logger)
	s.logger.Info("site created", zap.Int64("site_id", site.ID))
	return site, nil
}

// Update applies a partial update. A patch that changes nothing is not written.
func (s *SiteService) Update(ctx context.Context, id int64, req UpdateSiteRequest) (*models.Site, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError("site", err)
	}
	p, err := req.patch()
	if err != nil {
		return nil, err
	}

	site, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "site", "load")
	}
	if !p.apply(site) {
		return site, nil
	}

	if err := s.repo.Update(ctx, site); err != nil {
		s.logger.Error("update site failed", zap.Int64("site_id", id), zap.Error(err))
		return nil, storeError(err, "site", "update")
	}
	invalidateSummaries(ctx, s.cache, s.logger)
	s.logger.Info("site updated", zap.Int64("site_id", id))
	return site, nil
}

// Delete removes a site together with its workers, attendance, activities and costs.
func (s *SiteService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "site", "delete")
	}
	invalidateSummaries(ctx, s.cache, s.logger)
	s.logger.Info("site deleted", zap.Int64("site_id", id))
	return nil
}
