package service

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/peakstart/ledger-api/pkg/errors"
)

func TestDailyActivityServiceCreateDefaults(t *testing.T) {
	svc := newLedgerServices()
	ctx := context.Background()

	site, err := svc.sites.Create(ctx, CreateSiteRequest{Name: "A"})
	require.NoError(t, err)

	activity, err := svc.activities.Create(ctx, CreateDailyActivityRequest{SiteID: site.ID, Date: "2024-03-01", ActivityName: "Formwork"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, activity.Quantity)
	assert.Equal(t, 0.0, activity.UnitPrice)
	assert.Equal(t, 0.0, activity.TotalPrice)
	assert.NotNil(t, activity.WorkersInvolved)
	assert.Empty(t, activity.WorkersInvolved)
	assert.Equal(t, "A", *activity.SiteName)
}

func TestDailyActivityServiceKeepsWorkerOrder(t *testing.T) {
	svc := newLedgerServices()
	ctx := context.Background()

	site, err := svc.sites.Create(ctx, CreateSiteRequest{Name: "A"})
	require.NoError(t, err)

	activity, err := svc.activities.Create(ctx, CreateDailyActivityRequest{SiteID: site.ID, Date: "2024-03-01", ActivityName: "Pour", WorkersInvolved: []int64{5, 2, 9}})
	require.NoError(t, err)
	assert.Equal(t, pq.Int64Array{5, 2, 9}, activity.WorkersInvolved)

	updated, err := svc.activities.Update(ctx, activity.ID, UpdateDailyActivityRequest{WorkersInvolved: &[]int64{}})
	require.NoError(t, err)
	assert.Empty(t, updated.WorkersInvolved)

	_, err = svc.activities.Create(ctx, CreateDailyActivityRequest{SiteID: site.ID, Date: "2024-03-01", ActivityName: "Pour", WorkersInvolved: []int64{0}})
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestDailyActivityServiceDoesNotRecomputeTotal(t *testing.T) {
	svc := newLedgerServices()
	ctx := context.Background()

	site, err := svc.sites.Create(ctx, CreateSiteRequest{Name: "A"})
	require.NoError(t, err)
	activity, err := svc.activities.Create(ctx, CreateDailyActivityRequest{
		SiteID:       site.ID,
		Date:         "2024-03-01",
		ActivityName: "Brickwork",
		Quantity:     floatPtr(10),
		UnitPrice:    floatPtr(5),
		TotalPrice:   floatPtr(50),
	})
	require.NoError(t, err)

	updated, err := svc.activities.Update(ctx, activity.ID, UpdateDailyActivityRequest{Quantity: floatPtr(20)})
	require.NoError(t, err)
	assert.Equal(t, 20.0, updated.Quantity)
	assert.Equal(t, 5.0, updated.UnitPrice)
	assert.Equal(t, 50.0, updated.TotalPrice)
}

func TestDailyActivityServiceRequiresSite(t *testing.T) {
	svc := newLedgerServices()

	_, err := svc.activities.Create(context.Background(), CreateDailyActivityRequest{SiteID: 3, Date: "2024-03-01", ActivityName: "Dig"})
	require.Error(t, err)
	assert.Equal(t, "site_id 3 does not exist", appErrors.FromError(err).Message)
	assert.Empty(t, svc.ledger.activities)
}
