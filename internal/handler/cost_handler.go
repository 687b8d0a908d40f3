package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/peakstart/ledger-api/internal/dto"
	"github.com/peakstart/ledger-api/internal/models"
	"github.com/peakstart/ledger-api/internal/service"
	"github.com/peakstart/ledger-api/pkg/response"
)

type costService interface {
	List(ctx context.Context, filter models.CostFilter) ([]dto.CostView, error)
	Get(ctx context.Context, id int64) (*dto.CostView, error)
	Create(ctx context.Context, req service.CreateCostRequest) (*dto.CostView, error)
	Update(ctx context.Context, id int64, req service.UpdateCostRequest) (*dto.CostView, error)
	Delete(ctx context.Context, id int64) error
}

type costSummarizer interface {
	Costs(ctx context.Context, filter models.CostFilter) (*models.CostSummary, error)
}

type costExporter interface {
	ExportCosts(ctx context.Context, filter models.CostFilter, format service.ExportFormat) (*service.ExportResult, error)
}

// CostHandler exposes cost endpoints including aggregation and export.
type CostHandler struct {
	service   costService
	summaries costSummarizer
	exporter  costExporter
}

// NewCostHandler builds a CostHandler.
func NewCostHandler(service costService, summaries costSummarizer, exporter costExporter) *CostHandler {
	return &CostHandler{service: service, summaries: summaries, exporter: exporter}
}

// List godoc
// @Summary List costs
// @Tags Costs
// @Produce json
// @Param site_id query int false "Site ID"
// @Param worker_id query int false "Worker ID"
// @Param cost_type query string false "Cost type"
// @Param category query string false "Category"
// @Param date query string false "Exact date (YYYY-MM-DD)"
// @Param start_date query string false "From (YYYY-MM-DD)"
// @Param end_date query string false "To (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /costs [get]
func (h *CostHandler) List(c *gin.Context) {
	filter, err := costFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	costs, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, costs)
}

// Get godoc
// @Summary Get a cost
// @Tags Costs
// @Produce json
// @Param id path int true "Cost ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /costs/{id} [get]
func (h *CostHandler) Get(c *gin.Context) {
	id, err := pathID(c, "cost")
	if err != nil {
		response.Error(c, err)
		return
	}
	cost, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cost)
}

// Create godoc
// @Summary Record a cost
// @Tags Costs
// @Accept json
// @Produce json
// @Param payload body service.CreateCostRequest true "Cost payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /costs [post]
func (h *CostHandler) Create(c *gin.Context) {
	var req service.CreateCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError("cost", err))
		return
	}
	cost, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, cost, "cost created")
}

// Update godoc
// @Summary Update a cost
// @Tags Costs
// @Accept json
// @Produce json
// @Param id path int true "Cost ID"
// @Param payload body service.UpdateCostRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /costs/{id} [put]
func (h *CostHandler) Update(c *gin.Context) {
	id, err := pathID(c, "cost")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError("cost", err))
		return
	}
	cost, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cost)
}

// Delete godoc
// @Summary Delete a cost
// @Tags Costs
// @Produce json
// @Param id path int true "Cost ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /costs/{id} [delete]
func (h *CostHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "cost")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "cost deleted")
}

// Summary godoc
// @Summary Aggregate costs by type and category
// @Description Accepts the same filters as the cost list.
// @Tags Costs
// @Produce json
// @Param site_id query int false "Site ID"
// @Param worker_id query int false "Worker ID"
// @Param cost_type query string false "Cost type"
// @Param category query string false "Category"
// @Param start_date query string false "From (YYYY-MM-DD)"
// @Param end_date query string false "To (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /costs/summary [get]
func (h *CostHandler) Summary(c *gin.Context) {
	filter, err := costFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	summary, err := h.summaries.Costs(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}

// Export godoc
// @Summary Download the filtered cost ledger
// @Tags Costs
// @Produce octet-stream
// @Param format query string false "csv (default), pdf or xlsx"
// @Param site_id query int false "Site ID"
// @Param worker_id query int false "Worker ID"
// @Param start_date query string false "From (YYYY-MM-DD)"
// @Param end_date query string false "To (YYYY-MM-DD)"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /costs/export [get]
func (h *CostHandler) Export(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	filter, err := costFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.exporter.ExportCosts(c.Request.Context(), filter, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", result.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
