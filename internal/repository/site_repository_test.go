package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peakstart/ledger-api/internal/models"
)

func newLedgerRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	cleanup := func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = sqlxDB.Close()
	}
	return sqlxDB, mock, cleanup
}

var siteRowColumns = []string{"id", "name", "location", "description", "start_date", "end_date", "status", "created_at", "updated_at"}

func TestSiteRepositoryListAppliesFilters(t *testing.T) {
	db, mock, cleanup := newLedgerRepoMock(t)
	defer cleanup()
	repo := NewSiteRepository(db)

	start := models.NewDate(2024, time.January, 1)
	end := models.NewDate(2024, time.December, 31)
	now := time.Now()
	rows := sqlmock.NewRows(siteRowColumns).
		AddRow(int64(2), "Tower B", "Jakarta", nil, start.Time, nil, "active", now, now)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + siteColumns + " FROM sites WHERE status = $1 AND start_date >= $2 AND end_date <= $3 ORDER BY created_at DESC, id DESC")).
		WithArgs("active", start, end).
		WillReturnRows(rows)

	sites, err := repo.List(context.Background(), models.SiteFilter{Status: models.SiteStatusActive, StartFrom: &start, EndBy: &end})
	require.NoError(t, err)
	require.Len(t, sites, 1)
	assert.Equal(t, "Tower B", sites[0].Name)
	require.NotNil(t, sites[0].StartDate)
	assert.Equal(t, "2024-01-01", sites[0].StartDate.String())
	assert.Nil(t, sites[0].EndDate)
	assert.Nil(t, sites[0].Description)
}

func TestSiteRepositoryListEmptyIsNotNil(t *testing.T) {
	db, mock, cleanup := newLedgerRepoMock(t)
	defer cleanup()
	repo := NewSiteRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM sites ORDER BY created_at DESC")).
		WillReturnRows(sqlmock.NewRows(siteRowColumns))

	sites, err := repo.List(context.Background(), models.SiteFilter{})
	require.NoError(t, err)
	assert.NotNil(t, sites)
	assert.Empty(t, sites)
}

func TestSiteRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newLedgerRepoMock(t)
	defer cleanup()
	repo := NewSiteRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM sites WHERE id = $1")).
		WithArgs(int64(9)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), 9)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSiteRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newLedgerRepoMock(t)
	defer cleanup()
	repo := NewSiteRepository(db)

	location := "Bandung"
	site := &models.Site{Name: "Depot", Location: &location, Status: models.SiteStatusActive}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO sites")).
		WithArgs("Depot", "Bandung", nil, nil, nil, "active", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), site))
	assert.Equal(t, int64(7), site.ID)
	assert.False(t, site.CreatedAt.IsZero())
	assert.Equal(t, site.CreatedAt, site.UpdatedAt)
}

func TestSiteRepositoryUpdateMissingRow(t *testing.T) {
	db, mock, cleanup := newLedgerRepoMock(t)
	defer cleanup()
	repo := NewSiteRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE sites SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), &models.Site{ID: 3, Name: "Gone", Status: models.SiteStatusOnHold})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSiteRepositoryDeleteRollsBackOnError(t *testing.T) {
	db, mock, cleanup := newLedgerRepoMock(t)
	defer cleanup()
	repo := NewSiteRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sites WHERE id = $1")).
		WithArgs(int64(4)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete site")
}

func TestSiteRepositoryExists(t *testing.T) {
	db, mock, cleanup := newLedgerRepoMock(t)
	defer cleanup()
	repo := NewSiteRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM sites WHERE id = $1)")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	found, err := repo.Exists(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, found)
}
