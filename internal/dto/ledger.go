package dto

import "github.com/peakstart/ledger-api/internal/models"

// Projections resolve one level of relationship at read time. A related row
// that is missing renders its derived fields as null.

// WorkerView is a worker with its site name.
type WorkerView struct {
	models.Worker
	SiteName *string `db:"site_name" json:"site_name"`
}

// AttendanceView is an attendance record with worker and site names.
type AttendanceView struct {
	models.Attendance
	WorkerName *string `db:"worker_name" json:"worker_name"`
	SiteID     *int64  `db:"site_id" json:"site_id"`
	SiteName   *string `db:"site_name" json:"site_name"`
}

// DailyActivityView is a daily activity with its site name.
type DailyActivityView struct {
	models.DailyActivity
	SiteName *string `db:"site_name" json:"site_name"`
}

// CostView is a cost with site, worker and activity names.
type CostView struct {
	models.Cost
	SiteName     *string `db:"site_name" json:"site_name"`
	WorkerName   *string `db:"worker_name" json:"worker_name"`
	ActivityName *string `db:"activity_name" json:"activity_name"`
}
