package models

import "time"

// SiteStatus is the lifecycle state of a construction site.
type SiteStatus string

const (
	SiteStatusActive    SiteStatus = "active"
	SiteStatusCompleted SiteStatus = "completed"
	SiteStatusOnHold    SiteStatus = "on_hold"
)

// Valid returns true when the status is a supported value.
func (s SiteStatus) Valid() bool {
	switch s {
	case SiteStatusActive, SiteStatusCompleted, SiteStatusOnHold:
		return true
	default:
		return false
	}
}

// Site is a construction site. It owns workers, daily activities and costs.
type Site struct {
	ID          int64      `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Location    *string    `db:"location" json:"location"`
	Description *string    `db:"description" json:"description"`
	StartDate   *Date      `db:"start_date" json:"start_date"`
	EndDate     *Date      `db:"end_date" json:"end_date"`
	Status      SiteStatus `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// SiteFilter captures filtering options for listing sites.
// StartFrom bounds start_date from below, EndBy bounds end_date from above.
type SiteFilter struct {
	Status    SiteStatus
	StartFrom *Date
	EndBy     *Date
}
