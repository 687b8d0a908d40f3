package models

import (
	"time"

	"github.com/lib/pq"
)

// DailyActivity is a unit of work performed on a site on a given day.
// TotalPrice is supplied by the caller and never derived from Quantity and UnitPrice.
type DailyActivity struct {
	ID              int64         `db:"id" json:"id"`
	SiteID          int64         `db:"site_id" json:"site_id"`
	Date            Date          `db:"date" json:"date"`
	ActivityName    string        `db:"activity_name" json:"activity_name"`
	Description     *string       `db:"description" json:"description"`
	Quantity        float64       `db:"quantity" json:"quantity"`
	UnitPrice       float64       `db:"unit_price" json:"unit_price"`
	TotalPrice      float64       `db:"total_price" json:"total_price"`
	WorkersInvolved pq.Int64Array `db:"workers_involved" json:"workers_involved"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updated_at"`
}

// DailyActivityFilter defines query filters.
type DailyActivityFilter struct {
	SiteID    *int64
	DateRange DateRange
}
