package models

// CostBucket aggregates costs sharing a key (type or category).
type CostBucket struct {
	Key    string  `db:"key" json:"key"`
	Amount float64 `db:"amount" json:"amount"`
	Count  int     `db:"count" json:"count"`
}

// CostSummary totals the costs matching a CostFilter.
type CostSummary struct {
	TotalAmount float64      `json:"total_amount"`
	Count       int          `json:"count"`
	ByType      []CostBucket `json:"by_type"`
	ByCategory  []CostBucket `json:"by_category"`
}

// WorkerSummary totals a worker's attendance within an optional range.
// LaborCost is DaysPresent times the worker's current daily price.
type WorkerSummary struct {
	WorkerID    int64   `db:"worker_id" json:"worker_id"`
	WorkerName  string  `db:"worker_name" json:"worker_name"`
	SiteID      int64   `db:"site_id" json:"site_id"`
	SiteName    *string `db:"site_name" json:"site_name"`
	DailyPrice  float64 `db:"daily_price" json:"daily_price"`
	DaysPresent int     `db:"days_present" json:"days_present"`
	DaysAbsent  int     `db:"days_absent" json:"days_absent"`
	TotalHours  float64 `db:"total_hours" json:"total_hours"`
	LaborCost   float64 `db:"-" json:"labor_cost"`
	StartDate   *Date   `db:"-" json:"start_date"`
	EndDate     *Date   `db:"-" json:"end_date"`
}

// SiteSummary gives headline totals for one site.
type SiteSummary struct {
	SiteID          int64   `db:"site_id" json:"site_id"`
	SiteName        string  `db:"site_name" json:"site_name"`
	WorkersTotal    int     `db:"workers_total" json:"workers_total"`
	WorkersActive   int     `db:"workers_active" json:"workers_active"`
	ActivitiesCount int     `db:"activities_count" json:"activities_count"`
	ActivitiesTotal float64 `db:"activities_total" json:"activities_total"`
	CostsCount      int     `db:"costs_count" json:"costs_count"`
	CostsTotal      float64 `db:"costs_total" json:"costs_total"`
}
