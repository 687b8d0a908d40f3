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

type dailyActivityService interface {
	List(ctx context.Context, filter models.DailyActivityFilter) ([]dto.DailyActivityView, error)
	Get(ctx context.Context, id int64) (*dto.DailyActivityView, error)
	Create(ctx context.Context, req service.CreateDailyActivityRequest) (*dto.DailyActivityView, error)
	Update(ctx context.Context, id int64, req service.UpdateDailyActivityRequest) (*dto.DailyActivityView, error)
	Delete(ctx context.Context, id int64) error
}

// DailyActivityHandler exposes daily activity endpoints.
type DailyActivityHandler struct {
	service dailyActivityService
}

// NewDailyActivityHandler builds a DailyActivityHandler.
func NewDailyActivityHandler(service dailyActivityService) *DailyActivityHandler {
	return &DailyActivityHandler{service: service}
}

// List godoc
// @Summary List daily activities
// @Tags DailyActivities
// @Produce json
// @Param site_id query int false "Site ID"
// @Param date query string false "Exact date (YYYY-MM-DD)"
// @Param start_date query string false "From (YYYY-MM-DD)"
// @Param end_date query string false "To (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /daily-activities [get]
func (h *DailyActivityHandler) List(c *gin.Context) {
	filter, err := dailyActivityFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	activities, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, activities)
}

// Get godoc
// @Summary Get a daily activity
// @Tags DailyActivities
// @Produce json
// @Param id path int true "Activity ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /daily-activities/{id} [get]
func (h *DailyActivityHandler) Get(c *gin.Context) {
	id, err := pathID(c, "daily activity")
	if err != nil {
		response.Error(c, err)
		return
	}
	activity, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, activity)
}

// Create godoc
// @Summary Log a daily activity
// @Tags DailyActivities
// @Accept json
// @Produce json
// @Param payload body service.CreateDailyActivityRequest true "Activity payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /daily-activities [post]
func (h *DailyActivityHandler) Create(c *gin.Context) {
	var req service.CreateDailyActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError("daily activity", err))
		return
	}
	activity, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, activity, "daily activity created")
}

// Update godoc
// @Summary Update a daily activity
// @Description total_price is stored as sent and never recomputed.
// @Tags DailyActivities
// @Accept json
// @Produce json
// @Param id path int true "Activity ID"
// @Param payload body service.UpdateDailyActivityRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /daily-activities/{id} [put]
func (h *DailyActivityHandler) Update(c *gin.Context) {
	id, err := pathID(c, "daily activity")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateDailyActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError("daily activity", err))
		return
	}
	activity, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, activity)
}

// Delete godoc
// @Summary Delete a daily activity
// @Description Costs referencing the activity are kept.
// @Tags DailyActivities
// @Produce json
// @Param id path int true "Activity ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /daily-activities/{id} [delete]
func (h *DailyActivityHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "daily activity")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "daily activity deleted")
}
