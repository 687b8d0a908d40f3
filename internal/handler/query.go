package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/peakstart/ledger-api/internal/models"
	appErrors "github.com/peakstart/ledger-api/pkg/errors"
)

// statusAll is the sentinel the UI sends to list every site.
const statusAll = "all"

func pathID(c *gin.Context, entity string) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	}
	return id, nil
}

func queryInt64(c *gin.Context, name string) (*int64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, appErrors.Validation(fmt.Sprintf("%s must be an integer", name), err)
	}
	return &v, nil
}

func queryBool(c *gin.Context, name string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, appErrors.Validation(fmt.Sprintf("%s must be true or false", name), err)
	}
	return &v, nil
}

func queryDate(c *gin.Context, name string) (*models.Date, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return nil, appErrors.Validation(fmt.Sprintf("%s must be a date in YYYY-MM-DD format", name), err)
	}
	return &d, nil
}

// queryDateRange reads date, start_date and end_date.
func queryDateRange(c *gin.Context) (models.DateRange, error) {
	var r models.DateRange
	var err error
	if r.On, err = queryDate(c, "date"); err != nil {
		return r, err
	}
	if r.Start, err = queryDate(c, "start_date"); err != nil {
		return r, err
	}
	if r.End, err = queryDate(c, "end_date"); err != nil {
		return r, err
	}
	return r, nil
}

func siteFilterFromQuery(c *gin.Context) (models.SiteFilter, error) {
	var filter models.SiteFilter
	status := strings.TrimSpace(c.Query("status"))
	if status != "" && !strings.EqualFold(status, statusAll) {
		filter.Status = models.SiteStatus(status)
	}
	var err error
	if filter.StartFrom, err = queryDate(c, "start_date"); err != nil {
		return filter, err
	}
	if filter.EndBy, err = queryDate(c, "end_date"); err != nil {
		return filter, err
	}
	return filter, nil
}

func workerFilterFromQuery(c *gin.Context) (models.WorkerFilter, error) {
	var filter models.WorkerFilter
	var err error
	if filter.SiteID, err = queryInt64(c, "site_id"); err != nil {
		return filter, err
	}
	if filter.IsActive, err = queryBool(c, "is_active"); err != nil {
		return filter, err
	}
	return filter, nil
}

func attendanceFilterFromQuery(c *gin.Context) (models.AttendanceFilter, error) {
	var filter models.AttendanceFilter
	var err error
	if filter.WorkerID, err = queryInt64(c, "worker_id"); err != nil {
		return filter, err
	}
	if filter.SiteID, err = queryInt64(c, "site_id"); err != nil {
		return filter, err
	}
	filter.DateRange, err = queryDateRange(c)
	return filter, err
}

func dailyActivityFilterFromQuery(c *gin.Context) (models.DailyActivityFilter, error) {
	var filter models.DailyActivityFilter
	var err error
	if filter.SiteID, err = queryInt64(c, "site_id"); err != nil {
		return filter, err
	}
	filter.DateRange, err = queryDateRange(c)
	return filter, err
}

func costFilterFromQuery(c *gin.Context) (models.CostFilter, error) {
	filter := models.CostFilter{
		CostType: strings.TrimSpace(c.Query("cost_type")),
		Category: strings.TrimSpace(c.Query("category")),
	}
	var err error
	if filter.SiteID, err = queryInt64(c, "site_id"); err != nil {
		return filter, err
	}
	if filter.WorkerID, err = queryInt64(c, "worker_id"); err != nil {
		return filter, err
	}
	filter.DateRange, err = queryDateRange(c)
	return filter, err
}

func bindError(entity string, err error) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid "+entity+" payload")
}
