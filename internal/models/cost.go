package models

import "time"

// Common cost types. The column is free-form; these are the values the UI offers.
const (
	CostTypeWorker    = "worker"
	CostTypeActivity  = "activity"
	CostTypeMaterial  = "material"
	CostTypeEquipment = "equipment"
	CostTypeOther     = "other"
)

// Cost is a monetary entry booked against a site. WorkerID and DailyActivityID
// are optional and may point at rows that no longer exist.
type Cost struct {
	ID              int64     `db:"id" json:"id"`
	SiteID          int64     `db:"site_id" json:"site_id"`
	WorkerID        *int64    `db:"worker_id" json:"worker_id"`
	DailyActivityID *int64    `db:"daily_activity_id" json:"daily_activity_id"`
	CostType        string    `db:"cost_type" json:"cost_type"`
	Description     *string   `db:"description" json:"description"`
	Amount          float64   `db:"amount" json:"amount"`
	Date            Date      `db:"date" json:"date"`
	Category        *string   `db:"category" json:"category"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// CostFilter defines query filters.
type CostFilter struct {
	SiteID    *int64
	WorkerID  *int64
	CostType  string
	Category  string
	DateRange DateRange
}
