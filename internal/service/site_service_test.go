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

func TestSiteServiceCreateDefaultsStatus(t *testing.T) {
	svc := newLedgerServices()

	site, err := svc.sites.Create(context.Background(), CreateSiteRequest{Name: "A", StartDate: strPtr("2024-01-01")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), site.ID)
	assert.Equal(t, models.SiteStatusActive, site.Status)
	require.NotNil(t, site.StartDate)
	assert.Equal(t, "2024-01-01", site.StartDate.String())
	assert.Equal(t, []string{SummaryCachePattern}, svc.cache.patterns)
}

func TestSiteServiceCreateValidation(t *testing.T) {
	cases := []struct {
		name    string
		req     CreateSiteRequest
		message string
	}{
		{name: "missing name", req: CreateSiteRequest{}, message: "invalid site payload: name is required"},
		{name: "unknown status", req: CreateSiteRequest{Name: "A", Status: "paused"}, message: "invalid site payload: status must be one of [active completed on_hold]"},
		{name: "bad date", req: CreateSiteRequest{Name: "A", EndDate: strPtr("31/12/2024")}, message: "end_date must be a date in YYYY-MM-DD format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newLedgerServices()
			_, err := svc.sites.Create(context.Background(), tc.req)
			require.Error(t, err)
			appErr := appErrors.FromError(err)
			assert.Equal(t, http.StatusBadRequest, appErr.Status)
			assert.Equal(t, tc.message, appErr.Message)
			assert.Empty(t, svc.ledger.sites)
		})
	}
}

func TestSiteServiceEmptyPatchIsNoop(t *testing.T) {
	svc := newLedgerServices()
	ctx := context.Background()

	created, err := svc.sites.Create(ctx, CreateSiteRequest{Name: "A", Location: strPtr("Bandung")})
	require.NoError(t, err)
	before := svc.ledger.sites[created.ID]
	writes := svc.ledger.writes

	updated, err := svc.sites.Update(ctx, created.ID, UpdateSiteRequest{})
	require.NoError(t, err)
	assert.Equal(t, before, *updated)
	assert.Equal(t, before, svc.ledger.sites[created.ID])
	assert.Equal(t, writes, svc.ledger.writes)

	// Repeating stored values is also a no-op.
	_, err = svc.sites.Update(ctx, created.ID, UpdateSiteRequest{Name: strPtr("A"), Location: strPtr("Bandung")})
	require.NoError(t, err)
	assert.Equal(t, writes, svc.ledger.writes)
}

func TestSiteServiceUpdateMergesFields(t *testing.T) {
	svc := newLedgerServices()
	ctx := context.Background()

	created, err := svc.sites.Create(ctx, CreateSiteRequest{Name: "A", Location: strPtr("Bandung"), StartDate: strPtr("2024-01-01")})
	require.NoError(t, err)

	updated, err := svc.sites.Update(ctx, created.ID, UpdateSiteRequest{Status: strPtr("on_hold"), EndDate: strPtr("2024-06-30")})
	require.NoError(t, err)
	assert.Equal(t, "A", updated.Name)
	assert.Equal(t, "Bandung", *updated.Location)
	assert.Equal(t, "2024-01-01", updated.StartDate.String())
	assert.Equal(t, "2024-06-30", updated.EndDate.String())
	assert.Equal(t, models.SiteStatusOnHold, updated.Status)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
}

func TestSiteServiceUpdateRejectsBlankName(t *testing.T) {
	svc := newLedgerServices()
	created, err := svc.sites.Create(context.Background(), CreateSiteRequest{Name: "A"})
	require.NoError(t, err)

	_, err = svc.sites.Update(context.Background(), created.ID, UpdateSiteRequest{Name: strPtr("")})
	require.Error(t, err)
	assert.Equal(t, "invalid site payload: name must not be empty", appErrors.FromError(err).Message)
}

func TestSiteServiceNotFound(t *testing.T) {
	svc := newLedgerServices()
	ctx := context.Background()

	_, err := svc.sites.Get(ctx, 42)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	_, err = svc.sites.Update(ctx, 42, UpdateSiteRequest{Name: strPtr("x")})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.True(t, errors.Is(svc.sites.Delete(ctx, 42), appErrors.ErrNotFound))
}

func TestSiteServiceStoreFailureIsInternal(t *testing.T) {
	svc := newLedgerServices()
	svc.ledger.failWith = errors.New("pq: connection refused")

	_, err := svc.sites.Create(context.Background(), CreateSiteRequest{Name: "A"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Equal(t, "failed to create site", appErr.Message)
	assert.Empty(t, svc.cache.patterns)
}

func TestSiteServiceDeleteCascades(t *testing.T) {
	svc := newLedgerServices()
	ctx := context.Background()

	site, err := svc.sites.Create(ctx, CreateSiteRequest{Name: "A"})
	require.NoError(t, err)
	other, err := svc.sites.Create(ctx, CreateSiteRequest{Name: "Other"})
	require.NoError(t, err)

	worker, err := svc.workers.Create(ctx, CreateWorkerRequest{Name: "B", Position: "Mason", DailyPrice: floatPtr(150), SiteID: site.ID})
	require.NoError(t, err)
	keeper, err := svc.workers.Create(ctx, CreateWorkerRequest{Name: "C", Position: "Helper", DailyPrice: floatPtr(90), SiteID: other.ID})
	require.NoError(t, err)
	_, err = svc.attendance.Create(ctx, CreateAttendanceRequest{WorkerID: worker.ID, Date: "2024-01-10"})
	require.NoError(t, err)
	_, err = svc.attendance.Create(ctx, CreateAttendanceRequest{WorkerID: keeper.ID, Date: "2024-01-10"})
	require.NoError(t, err)
	_, err = svc.activities.Create(ctx, CreateDailyActivityRequest{SiteID: site.ID, Date: "2024-01-10", ActivityName: "Dig"})
	require.NoError(t, err)
	_, err = svc.costs.Create(ctx, CreateCostRequest{SiteID: site.ID, CostType: "material", Amount: floatPtr(10), Date: "2024-01-10"})
	require.NoError(t, err)
	// Cross-site reference: booked on the other site against the doomed worker.
	crossSite, err := svc.costs.Create(ctx, CreateCostRequest{SiteID: other.ID, WorkerID: &worker.ID, CostType: "worker", Amount: floatPtr(150), Date: "2024-01-10"})
	require.NoError(t, err)

	require.NoError(t, svc.sites.Delete(ctx, site.ID))

	workers, err := svc.workers.List(ctx, models.WorkerFilter{SiteID: &site.ID})
	require.NoError(t, err)
	assert.Empty(t, workers)
	attendance, err := svc.attendance.List(ctx, models.AttendanceFilter{WorkerID: &worker.ID})
	require.NoError(t, err)
	assert.Empty(t, attendance)
	activities, err := svc.activities.List(ctx, models.DailyActivityFilter{SiteID: &site.ID})
	require.NoError(t, err)
	assert.Empty(t, activities)
	costs, err := svc.costs.List(ctx, models.CostFilter{SiteID: &site.ID})
	require.NoError(t, err)
	assert.Empty(t, costs)

	survivor, err := svc.costs.Get(ctx, crossSite.ID)
	require.NoError(t, err)
	assert.Equal(t, worker.ID, *survivor.WorkerID)
	assert.Nil(t, survivor.WorkerName)
	assert.Len(t, svc.ledger.attendance, 1)
}
