package models

import "time"

// Worker is a labourer assigned to a site.
type Worker struct {
	ID         int64     `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Position   string    `db:"position" json:"position"`
	DailyPrice float64   `db:"daily_price" json:"daily_price"`
	Phone      *string   `db:"phone" json:"phone"`
	Email      *string   `db:"email" json:"email"`
	SiteID     int64     `db:"site_id" json:"site_id"`
	IsActive   bool      `db:"is_active" json:"is_active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// WorkerFilter captures filtering options for listing workers.
type WorkerFilter struct {
	SiteID   *int64
	IsActive *bool
}
