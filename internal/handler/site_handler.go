package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/peakstart/ledger-api/internal/models"
	"github.com/peakstart/ledger-api/internal/service"
	"github.com/peakstart/ledger-api/pkg/response"
)

type siteService interface {
	List(ctx context.Context, filter models.SiteFilter) ([]models.Site, error)
	Get(ctx context.Context, id int64) (*models.Site, error)
	Create(ctx context.Context, req service.CreateSiteRequest) (*models.Site, error)
	Update(ctx context.Context, id int64, req service.UpdateSiteRequest) (*models.Site, error)
	Delete(ctx context.Context, id int64) error
}

type siteSummarizer interface {
	Site(ctx context.Context, siteID int64) (*models.SiteSummary, error)
}

// SiteHandler exposes site endpoints.
type SiteHandler struct {
	service   siteService
	summaries siteSummarizer
}

// NewSiteHandler builds a SiteHandler.
func NewSiteHandler(service siteService, summaries siteSummarizer) *SiteHandler {
	return &SiteHandler{service: service, summaries: summaries}
}

// List godoc
// @Summary List sites
// @Tags Sites
// @Produce json
// @Param status query string false "active, completed, on_hold or All"
// @Param start_date query string false "Sites starting on or after (YYYY-MM-DD)"
// @Param end_date query string false "Sites ending on or before (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /sites [get]
func (h *SiteHandler) List(c *gin.Context) {
	filter, err := siteFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	sites, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sites)
}

// Get godoc
// @Summary Get a site
// @Tags Sites
// @Produce json
// @Param id path int true "Site ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sites/{id} [get]
func (h *SiteHandler) Get(c *gin.Context) {
	id, err := pathID(c, "site")
	if err != nil {
		response.Error(c, err)
		return
	}
	site, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, site)
}

// Create godoc
// @Summary Create a site
// @Tags Sites
// @Accept json
// @Produce json
// @Param payload body service.CreateSiteRequest true "Site payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /sites [post]
func (h *SiteHandler) Create(c *gin.Context) {
	var req service.CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError("site", err))
		return
	}
	site, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, site, "site created")
}

// Update godoc
// @Summary Update a site
// @Description Only the supplied fields are changed.
// @Tags Sites
// @Accept json
// @Produce json
// @Param id path int true "Site ID"
// @Param payload body service.UpdateSiteRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sites/{id} [put]
func (h *SiteHandler) Update(c *gin.Context) {
	id, err := pathID(c, "site")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError("site", err))
		return
	}
	site, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, site)
}

// Delete godoc
// @Summary Delete a site with its workers, attendance, activities and costs
// @Tags Sites
// @Produce json
// @Param id path int true "Site ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sites/{id} [delete]
func (h *SiteHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "site")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "site deleted")
}

// Summary godoc
// @Summary Headline totals for a site
// @Tags Sites
// @Produce json
// @Param id path int true "Site ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sites/{id}/summary [get]
func (h *SiteHandler) Summary(c *gin.Context) {
	id, err := pathID(c, "site")
	if err != nil {
		response.Error(c, err)
		return
	}
	summary, err := h.summaries.Site(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}
