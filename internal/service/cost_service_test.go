package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peakstart/ledger-api/internal/models"
	appErrors "github.com/peakstart/ledger-api/pkg/errors"
)

func seedCostLedger(t *testing.T, svc ledgerServices) (siteA, siteB int64) {
	t.Helper()
	ctx := context.Background()
	a, err := svc.sites.Create(ctx, CreateSiteRequest{Name: "A"})
	require.NoError(t, err)
	b, err := svc.sites.Create(ctx, CreateSiteRequest{Name: "B"})
	require.NoError(t, err)

	for _, req := range []CreateCostRequest{
		{SiteID: a.ID, CostType: "material", Amount: floatPtr(100), Date: "2024-01-05", Category: strPtr("materials")},
		{SiteID: a.ID, CostType: "material", Amount: floatPtr(200), Date: "2024-02-05", Category: strPtr("materials")},
		{SiteID: a.ID, CostType: "equipment", Amount: floatPtr(300), Date: "2024-01-20"},
		{SiteID: b.ID, CostType: "material", Amount: floatPtr(400), Date: "2024-01-05"},
	} {
		_, err := svc.costs.Create(ctx, req)
		require.NoError(t, err)
	}
	return a.ID, b.ID
}

func TestCostServiceFilterComposition(t *testing.T) {
	svc := newLedgerServices()
	ctx := context.Background()
	siteA, _ := seedCostLedger(t, svc)

	costs, err := svc.costs.List(ctx, models.CostFilter{SiteID: &siteA, CostType: "material"})
	require.NoError(t, err)
	require.Len(t, costs, 2)
	for _, c := range costs {
		assert.Equal(t, siteA, c.SiteID)
		assert.Equal(t, "material", c.CostType)
	}

	start, _ := models.ParseDate("2024-01-01")
	end, _ := models.ParseDate("2024-01-31")
	narrowed, err := svc.costs.List(ctx, models.CostFilter{SiteID: &siteA, CostType: "material", DateRange: models.DateRange{Start: &start, End: &end}})
	require.NoError(t, err)
	require.Len(t, narrowed, 1)
	assert.Equal(t, 100.0, narrowed[0].Amount)
}

func TestCostServiceValidatesOptionalReferences(t *testing.T) {
	svc := newLedgerServices()
	ctx := context.Background()
	siteA, siteB := seedCostLedger(t, svc)

	_, err := svc.costs.Create(ctx, CreateCostRequest{SiteID: siteA, WorkerID: int64Ptr(99), CostType: "worker", Amount: floatPtr(1), Date: "2024-01-01"})
	require.Error(t, err)
	assert.Equal(t, "worker_id 99 does not exist", appErrors.FromError(err).Message)

	_, err = svc.costs.Create(ctx, CreateCostRequest{SiteID: siteA, DailyActivityID: int64Ptr(99), CostType: "activity", Amount: floatPtr(1), Date: "2024-01-01"})
	require.Error(t, err)
	assert.Equal(t, "daily_activity_id 99 does not exist", appErrors.FromError(err).Message)

	activity, err := svc.activities.Create(ctx, CreateDailyActivityRequest{SiteID: siteB, Date: "2024-01-01", ActivityName: "Pour"})
	require.NoError(t, err)
	cost, err := svc.costs.Create(ctx, CreateCostRequest{SiteID: siteA, DailyActivityID: &activity.ID, CostType: "activity", Amount: floatPtr(1), Date: "2024-01-01"})
	require.NoError(t, err)
	assert.Equal(t, "Pour", *cost.ActivityName)
	assert.Equal(t, "A", *cost.SiteName)
}

func TestCostServiceRequiredFields(t *testing.T) {
	svc := newLedgerServices()
	ctx := context.Background()

	_, err := svc.costs.Create(ctx, CreateCostRequest{SiteID: 1, Amount: floatPtr(1), Date: "2024-01-01"})
	require.Error(t, err)
	assert.Equal(t, "invalid cost payload: cost_type is required", appErrors.FromError(err).Message)

	_, err = svc.costs.Create(ctx, CreateCostRequest{SiteID: 1, CostType: "other", Date: "2024-01-01"})
	require.Error(t, err)
	assert.Equal(t, "invalid cost payload: amount is required", appErrors.FromError(err).Message)
}

func TestCostServiceFreeFormType(t *testing.T) {
	svc := newLedgerServices()
	ctx := context.Background()
	siteA, _ := seedCostLedger(t, svc)

	cost, err := svc.costs.Create(ctx, CreateCostRequest{SiteID: siteA, CostType: "permits", Amount: floatPtr(75), Date: "2024-04-01", Category: strPtr("overhead")})
	require.NoError(t, err)
	assert.Equal(t, "permits", cost.CostType)

	updated, err := svc.costs.Update(ctx, cost.ID, UpdateCostRequest{Category: strPtr("admin"), Date: strPtr("2024-04-02")})
	require.NoError(t, err)
	assert.Equal(t, "admin", *updated.Category)
	assert.Equal(t, "2024-04-02", updated.Date.String())
	assert.Equal(t, 75.0, updated.Amount)
}

func TestStoreErrorMapping(t *testing.T) {
	fk := storeError(&pq.Error{Code: "23503"}, "cost", "create")
	assert.True(t, errors.Is(fk, appErrors.ErrValidation))

	internal := appErrors.FromError(storeError(errors.New("boom"), "cost", "update"))
	assert.Equal(t, "failed to update cost", internal.Message)
	assert.Equal(t, 500, internal.Status)
}
