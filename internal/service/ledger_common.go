package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/peakstart/ledger-api/internal/models"
	"github.com/peakstart/ledger-api/internal/repository"
	appErrors "github.com/peakstart/ledger-api/pkg/errors"
)

// SummaryCachePattern matches every cached ledger summary.
const SummaryCachePattern = "ledger:summary:*"

// summaryInvalidator drops cached summaries after a ledger mutation.
type summaryInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

type existenceChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// NewValidator returns a validator that reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationError(entity string, err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return appErrors.Validation(fmt.Sprintf("invalid %s payload: %s", entity, describeFieldError(fieldErrs[0])), err)
	}
	return appErrors.Validation(fmt.Sprintf("invalid %s payload", entity), err)
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "email":
		return field + " must be a valid email address"
	case "min":
		if fe.Param() == "1" {
			return field + " must not be empty"
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

func parseDateField(field, raw string) (models.Date, error) {
	d, err := models.ParseDate(raw)
	if err != nil {
		return models.Date{}, appErrors.Validation(fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field), err)
	}
	return d, nil
}

func parseOptionalDate(field string, raw *string) (*models.Date, error) {
	if raw == nil {
		return nil, nil
	}
	d, err := parseDateField(field, *raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func parseOptionalClock(field string, raw *string) (*models.ClockTime, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := models.ParseClockTime(*raw)
	if err != nil {
		return nil, appErrors.Validation(fmt.Sprintf("%s must be a time in HH:MM format", field), err)
	}
	return &t, nil
}

// storeError maps a repository failure to the error surfaced to clients.
func storeError(err error, entity, action string) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	case repository.IsForeignKeyViolation(err):
		return appErrors.Validation("referenced record does not exist", err)
	default:
		return appErrors.Internal(fmt.Sprintf("failed to %s %s", action, entity), err)
	}
}

func requireReference(ctx context.Context, repo existenceChecker, field string, id int64) error {
	found, err := repo.Exists(ctx, id)
	if err != nil {
		return appErrors.Internal("failed to verify "+field, err)
	}
	if !found {
		return appErrors.Validation(fmt.Sprintf("%s %d does not exist", field, id), nil)
	}
	return nil
}

func invalidateSummaries(ctx context.Context, cache summaryInvalidator, logger *zap.Logger) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, SummaryCachePattern); err != nil {
		logger.Warn("failed to invalidate ledger summaries", zap.Error(err))
	}
}

func setString(dst *string, src *string) bool {
	if src == nil || *dst == *src {
		return false
	}
	*dst = *src
	return true
}

func setOptionalString(dst **string, src *string) bool {
	if src == nil || (*dst != nil && **dst == *src) {
		return false
	}
	v := *src
	*dst = &v
	return true
}

func setFloat(dst *float64, src *float64) bool {
	if src == nil || *dst == *src {
		return false
	}
	*dst = *src
	return true
}

func setBool(dst *bool, src *bool) bool {
	if src == nil || *dst == *src {
		return false
	}
	*dst = *src
	return true
}

func setInt64(dst *int64, src *int64) bool {
	if src == nil || *dst == *src {
		return false
	}
	*dst = *src
	return true
}

func setOptionalInt64(dst **int64, src *int64) bool {
	if src == nil || (*dst != nil && **dst == *src) {
		return false
	}
	v := *src
	*dst = &v
	return true
}

func setOptionalDate(dst **models.Date, src *models.Date) bool {
	if src == nil || (*dst != nil && (*dst).Equal(src.Time)) {
		return false
	}
	v := *src
	*dst = &v
	return true
}

func setDate(dst *models.Date, src *models.Date) bool {
	if src == nil || dst.Equal(src.Time) {
		return false
	}
	*dst = *src
	return true
}

func setOptionalClock(dst **models.ClockTime, src *models.ClockTime) bool {
	if src == nil || (*dst != nil && **dst == *src) {
		return false
	}
	v := *src
	*dst = &v
	return true
}
