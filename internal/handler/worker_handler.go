package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/peakstart/ledger-api/internal/dto"
	"github.com/peakstart/ledger-api/internal/models"
	"github.com/peakstart/ledger-api/internal/service"
	"github.com/peakstart/ledger-api/pkg/response"
)

type workerService interface {
	List(ctx context.Context, filter models.WorkerFilter) ([]dto.WorkerView, error)
	Get(ctx context.Context, id int64) (*dto.WorkerView, error)
	Create(ctx context.Context, req service.CreateWorkerRequest) (*dto.WorkerView, error)
	Update(ctx context.Context, id int64, req service.UpdateWorkerRequest) (*dto.WorkerView, error)
	Delete(ctx context.Context, id int64) error
}

type workerSummarizer interface {
	Worker(ctx context.Context, workerID int64, dates models.DateRange) (*models.WorkerSummary, error)
}

// WorkerHandler exposes worker endpoints.
type WorkerHandler struct {
	service   workerService
	summaries workerSummarizer
}

// NewWorkerHandler builds a WorkerHandler.
func NewWorkerHandler(service workerService, summaries workerSummarizer) *WorkerHandler {
	return &WorkerHandler{service: service, summaries: summaries}
}

// List godoc
// @Summary List workers
// @Tags Workers
// @Produce json
// @Param site_id query int false "Site ID"
// @Param is_active query bool false "Active flag"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /workers [get]
func (h *WorkerHandler) List(c *gin.Context) {
	filter, err := workerFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	workers, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, workers)
}

// Get godoc
// @Summary Get a worker
// @Tags Workers
// @Produce json
// @Param id path int true "Worker ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /workers/{id} [get]
func (h *WorkerHandler) Get(c *gin.Context) {
	id, err := pathID(c, "worker")
	if err != nil {
		response.Error(c, err)
		return
	}
	worker, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, worker)
}

// Create godoc
// @Summary Create a worker
// @Tags Workers
// @Accept json
// @Produce json
// @Param payload body service.CreateWorkerRequest true "Worker payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /workers [post]
func (h *WorkerHandler) Create(c *gin.Context) {
	var req service.CreateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError("worker", err))
		return
	}
	worker, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, worker, "worker created")
}

// Update godoc
// @Summary Update a worker
// @Tags Workers
// @Accept json
// @Produce json
// @Param id path int true "Worker ID"
// @Param payload body service.UpdateWorkerRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /workers/{id} [put]
func (h *WorkerHandler) Update(c *gin.Context) {
	id, err := pathID(c, "worker")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError("worker", err))
		return
	}
	worker, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, worker)
}

// Delete godoc
// @Summary Delete a worker and its attendance
// @Description Costs referencing the worker are kept.
// @Tags Workers
// @Produce json
// @Param id path int true "Worker ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /workers/{id} [delete]
func (h *WorkerHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "worker")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "worker deleted")
}

// Summary godoc
// @Summary Attendance totals and labor cost for a worker
// @Tags Workers
// @Produce json
// @Param id path int true "Worker ID"
// @Param start_date query string false "From (YYYY-MM-DD)"
// @Param end_date query string false "To (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /workers/{id}/summary [get]
func (h *WorkerHandler) Summary(c *gin.Context) {
	id, err := pathID(c, "worker")
	if err != nil {
		response.Error(c, err)
		return
	}
	var dates models.DateRange
	if dates.Start, err = queryDate(c, "start_date"); err != nil {
		response.Error(c, err)
		return
	}
	if dates.End, err = queryDate(c, "end_date"); err != nil {
		response.Error(c, err)
		return
	}
	summary, err := h.summaries.Worker(c.Request.Context(), id, dates)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}
