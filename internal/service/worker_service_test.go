package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peakstart/ledger-api/internal/models"
	appErrors "github.com/peakstart/ledger-api/pkg/errors"
)

func TestWorkerServiceCreateRequiresExistingSite(t *testing.T) {
	svc := newLedgerServices()

	_, err := svc.workers.Create(context.Background(), CreateWorkerRequest{Name: "B", Position: "Mason", DailyPrice: floatPtr(150), SiteID: 9})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "site_id 9 does not exist", appErr.Message)
	assert.Empty(t, svc.ledger.workers)
}

func TestWorkerServiceCreateRoundTrip(t *testing.T) {
	svc := newLedgerServices()
	ctx := context.Background()

	site, err := svc.sites.Create(ctx, CreateSiteRequest{Name: "A", Status: "active"})
	require.NoError(t, err)

	created, err := svc.workers.Create(ctx, CreateWorkerRequest{Name: "B", Position: "Mason", DailyPrice: floatPtr(150.0), SiteID: site.ID, Email: strPtr("b@example.com")})
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	require.NotNil(t, created.SiteName)
	assert.Equal(t, "A", *created.SiteName)

	fetched, err := svc.workers.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)
	assert.Equal(t, 150.0, fetched.DailyPrice)
	assert.Nil(t, fetched.Phone)
}

func TestWorkerServiceValidation(t *testing.T) {
	svc := newLedgerServices()
	ctx := context.Background()

	_, err := svc.workers.Create(ctx, CreateWorkerRequest{Name: "B", Position: "Mason", DailyPrice: floatPtr(-1), SiteID: 1})
	require.Error(t, err)
	assert.Equal(t, "invalid worker payload: daily_price must be greater than or equal to 0", appErrors.FromError(err).Message)

	_, err = svc.workers.Create(ctx, CreateWorkerRequest{Name: "B", Position: "Mason", DailyPrice: floatPtr(1), SiteID: 1, Email: strPtr("nope")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestWorkerServiceDailyPriceDefaultsToZero(t *testing.T) {
	svc := newLedgerServices()
	ctx := context.Background()

	site, err := svc.sites.Create(ctx, CreateSiteRequest{Name: "A"})
	require.NoError(t, err)

	created, err := svc.workers.Create(ctx, CreateWorkerRequest{Name: "B", Position: "Mason", SiteID: site.ID})
	require.NoError(t, err)
	assert.Equal(t, 0.0, created.DailyPrice)
	assert.True(t, created.IsActive)
}

func TestWorkerServiceUpdateChecksNewSiteOnly(t *testing.T) {
	svc := newLedgerServices()
	ctx := context.Background()

	site, err := svc.sites.Create(ctx, CreateSiteRequest{Name: "A"})
	require.NoError(t, err)
	worker, err := svc.workers.Create(ctx, CreateWorkerRequest{Name: "B", Position: "Mason", DailyPrice: floatPtr(100), SiteID: site.ID})
	require.NoError(t, err)

	_, err = svc.workers.Update(ctx, worker.ID, UpdateWorkerRequest{SiteID: int64Ptr(77)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	updated, err := svc.workers.Update(ctx, worker.ID, UpdateWorkerRequest{IsActive: boolPtr(false), DailyPrice: floatPtr(0)})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, 0.0, updated.DailyPrice)
	assert.Equal(t, "Mason", updated.Position)

	inactive := false
	listed, err := svc.workers.List(ctx, models.WorkerFilter{IsActive: &inactive})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, worker.ID, listed[0].ID)
}

func TestWorkerServiceDeleteKeepsCosts(t *testing.T) {
	svc := newLedgerServices()
	ctx := context.Background()

	site, err := svc.sites.Create(ctx, CreateSiteRequest{Name: "A"})
	require.NoError(t, err)
	worker, err := svc.workers.Create(ctx, CreateWorkerRequest{Name: "B", Position: "Mason", DailyPrice: floatPtr(100), SiteID: site.ID})
	require.NoError(t, err)
	_, err = svc.attendance.Create(ctx, CreateAttendanceRequest{WorkerID: worker.ID, Date: "2024-02-01"})
	require.NoError(t, err)
	cost, err := svc.costs.Create(ctx, CreateCostRequest{SiteID: site.ID, WorkerID: &worker.ID, CostType: "worker", Amount: floatPtr(100), Date: "2024-02-01"})
	require.NoError(t, err)
	require.Equal(t, "B", *cost.WorkerName)

	require.NoError(t, svc.workers.Delete(ctx, worker.ID))
	assert.Empty(t, svc.ledger.attendance)

	kept, err := svc.costs.Get(ctx, cost.ID)
	require.NoError(t, err)
	assert.Equal(t, worker.ID, *kept.WorkerID)
	assert.Nil(t, kept.WorkerName)
	assert.Equal(t, "A", *kept.SiteName)

	// The dangling reference does not block unrelated edits.
	edited, err := svc.costs.Update(ctx, cost.ID, UpdateCostRequest{Amount: floatPtr(120), WorkerID: &worker.ID})
	require.NoError(t, err)
	assert.Equal(t, 120.0, edited.Amount)

	assert.True(t, errors.Is(svc.workers.Delete(ctx, worker.ID), appErrors.ErrNotFound))
}
