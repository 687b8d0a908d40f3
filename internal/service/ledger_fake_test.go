package service

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/peakstart/ledger-api/internal/dto"
	"github.com/peakstart/ledger-api/internal/models"
)

// fakeLedger is an in-memory store honouring the same cascade rules as the schema.
// Each table keeps its own id sequence, like BIGSERIAL.
type fakeLedger struct {
	nextID     map[string]int64
	writes     int
	failWith   error
	sites      map[int64]models.Site
	workers    map[int64]models.Worker
	attendance map[int64]models.Attendance
	activities map[int64]models.DailyActivity
	costs      map[int64]models.Cost
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		nextID:     map[string]int64{},
		sites:      map[int64]models.Site{},
		workers:    map[int64]models.Worker{},
		attendance: map[int64]models.Attendance{},
		activities: map[int64]models.DailyActivity{},
		costs:      map[int64]models.Cost{},
	}
}

func (l *fakeLedger) id(table string) int64 {
	l.nextID[table]++
	return l.nextID[table]
}

func (l *fakeLedger) stamp() time.Time {
	l.writes++
	return time.Date(2024, 1, 1, 0, 0, l.writes, 0, time.UTC)
}

func (l *fakeLedger) siteName(id int64) *string {
	site, ok := l.sites[id]
	if !ok {
		return nil
	}
	name := site.Name
	return &name
}

func (l *fakeLedger) deleteWorker(id int64) {
	delete(l.workers, id)
	for aid, a := range l.attendance {
		if a.WorkerID == id {
			delete(l.attendance, aid)
		}
	}
}

func sortedIDs[T any](m map[int64]T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	return ids
}

func inRange(d models.Date, r models.DateRange) bool {
	if r.On != nil && !d.Equal(r.On.Time) {
		return false
	}
	if r.Start != nil && d.Before(r.Start.Time) {
		return false
	}
	if r.End != nil && d.After(r.End.Time) {
		return false
	}
	return true
}

type fakeSiteStore struct{ l *fakeLedger }

func (f fakeSiteStore) List(_ context.Context, filter models.SiteFilter) ([]models.Site, error) {
	out := make([]models.Site, 0)
	for _, id := range sortedIDs(f.l.sites) {
		s := f.l.sites[id]
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f fakeSiteStore) FindByID(_ context.Context, id int64) (*models.Site, error) {
	s, ok := f.l.sites[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (f fakeSiteStore) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.l.sites[id]
	return ok, nil
}

func (f fakeSiteStore) Create(_ context.Context, site *models.Site) error {
	if f.l.failWith != nil {
		return f.l.failWith
	}
	site.ID = f.l.id("sites")
	site.CreatedAt = f.l.stamp()
	site.UpdatedAt = site.CreatedAt
	f.l.sites[site.ID] = *site
	return nil
}

func (f fakeSiteStore) Update(_ context.Context, site *models.Site) error {
	if _, ok := f.l.sites[site.ID]; !ok {
		return sql.ErrNoRows
	}
	site.UpdatedAt = f.l.stamp()
	f.l.sites[site.ID] = *site
	return nil
}

func (f fakeSiteStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.l.sites[id]; !ok {
		return sql.ErrNoRows
	}
	f.l.writes++
	delete(f.l.sites, id)
	for wid, w := range f.l.workers {
		if w.SiteID == id {
			f.l.deleteWorker(wid)
		}
	}
	for aid, a := range f.l.activities {
		if a.SiteID == id {
			delete(f.l.activities, aid)
		}
	}
	for cid, c := range f.l.costs {
		if c.SiteID == id {
			delete(f.l.costs, cid)
		}
	}
	return nil
}

type fakeWorkerStore struct{ l *fakeLedger }

func (f fakeWorkerStore) view(w models.Worker) dto.WorkerView {
	return dto.WorkerView{Worker: w, SiteName: f.l.siteName(w.SiteID)}
}

func (f fakeWorkerStore) List(_ context.Context, filter models.WorkerFilter) ([]dto.WorkerView, error) {
	out := make([]dto.WorkerView, 0)
	for _, id := range sortedIDs(f.l.workers) {
		w := f.l.workers[id]
		if filter.SiteID != nil && w.SiteID != *filter.SiteID {
			continue
		}
		if filter.IsActive != nil && w.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, f.view(w))
	}
	return out, nil
}

func (f fakeWorkerStore) FindByID(_ context.Context, id int64) (*dto.WorkerView, error) {
	w, ok := f.l.workers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	v := f.view(w)
	return &v, nil
}

func (f fakeWorkerStore) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.l.workers[id]
	return ok, nil
}

func (f fakeWorkerStore) Create(_ context.Context, worker *models.Worker) error {
	worker.ID = f.l.id("workers")
	worker.CreatedAt = f.l.stamp()
	worker.UpdatedAt = worker.CreatedAt
	f.l.workers[worker.ID] = *worker
	return nil
}

func (f fakeWorkerStore) Update(_ context.Context, worker *models.Worker) error {
	worker.UpdatedAt = f.l.stamp()
	f.l.workers[worker.ID] = *worker
	return nil
}

func (f fakeWorkerStore) Delete(_ context.Context, id int64) (int, error) {
	if _, ok := f.l.workers[id]; !ok {
		return 0, sql.ErrNoRows
	}
	orphaned := 0
	for _, c := range f.l.costs {
		if c.WorkerID != nil && *c.WorkerID == id {
			orphaned++
		}
	}
	f.l.writes++
	f.l.deleteWorker(id)
	return orphaned, nil
}

type fakeAttendanceStore struct{ l *fakeLedger }

func (f fakeAttendanceStore) view(a models.Attendance) dto.AttendanceView {
	v := dto.AttendanceView{Attendance: a}
	if w, ok := f.l.workers[a.WorkerID]; ok {
		name, siteID := w.Name, w.SiteID
		v.WorkerName = &name
		v.SiteID = &siteID
		v.SiteName = f.l.siteName(w.SiteID)
	}
	return v
}

func (f fakeAttendanceStore) List(_ context.Context, filter models.AttendanceFilter) ([]dto.AttendanceView, error) {
	out := make([]dto.AttendanceView, 0)
	for _, id := range sortedIDs(f.l.attendance) {
		a := f.l.attendance[id]
		if filter.WorkerID != nil && a.WorkerID != *filter.WorkerID {
			continue
		}
		if filter.SiteID != nil && f.l.workers[a.WorkerID].SiteID != *filter.SiteID {
			continue
		}
		if !inRange(a.Date, filter.DateRange) {
			continue
		}
		out = append(out, f.view(a))
	}
	return out, nil
}

func (f fakeAttendanceStore) FindByID(_ context.Context, id int64) (*dto.AttendanceView, error) {
	a, ok := f.l.attendance[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	v := f.view(a)
	return &v, nil
}

func (f fakeAttendanceStore) Create(_ context.Context, record *models.Attendance) error {
	record.ID = f.l.id("attendance")
	record.CreatedAt = f.l.stamp()
	record.UpdatedAt = record.CreatedAt
	f.l.attendance[record.ID] = *record
	return nil
}

func (f fakeAttendanceStore) Update(_ context.Context, record *models.Attendance) error {
	record.UpdatedAt = f.l.stamp()
	f.l.attendance[record.ID] = *record
	return nil
}

func (f fakeAttendanceStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.l.attendance[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.l.attendance, id)
	return nil
}

type fakeActivityStore struct{ l *fakeLedger }

func (f fakeActivityStore) view(a models.DailyActivity) dto.DailyActivityView {
	return dto.DailyActivityView{DailyActivity: a, SiteName: f.l.siteName(a.SiteID)}
}

func (f fakeActivityStore) List(_ context.Context, filter models.DailyActivityFilter) ([]dto.DailyActivityView, error) {
	out := make([]dto.DailyActivityView, 0)
	for _, id := range sortedIDs(f.l.activities) {
		a := f.l.activities[id]
		if filter.SiteID != nil && a.SiteID != *filter.SiteID {
			continue
		}
		if !inRange(a.Date, filter.DateRange) {
			continue
		}
		out = append(out, f.view(a))
	}
	return out, nil
}

func (f fakeActivityStore) FindByID(_ context.Context, id int64) (*dto.DailyActivityView, error) {
	a, ok := f.l.activities[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	v := f.view(a)
	return &v, nil
}

func (f fakeActivityStore) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.l.activities[id]
	return ok, nil
}

func (f fakeActivityStore) Create(_ context.Context, activity *models.DailyActivity) error {
	activity.ID = f.l.id("daily_activities")
	activity.CreatedAt = f.l.stamp()
	activity.UpdatedAt = activity.CreatedAt
	f.l.activities[activity.ID] = *activity
	return nil
}

func (f fakeActivityStore) Update(_ context.Context, activity *models.DailyActivity) error {
	activity.UpdatedAt = f.l.stamp()
	f.l.activities[activity.ID] = *activity
	return nil
}

func (f fakeActivityStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.l.activities[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.l.activities, id)
	return nil
}

type fakeCostStore struct{ l *fakeLedger }

func (f fakeCostStore) view(c models.Cost) dto.CostView {
	v := dto.CostView{Cost: c, SiteName: f.l.siteName(c.SiteID)}
	if c.WorkerID != nil {
		if w, ok := f.l.workers[*c.WorkerID]; ok {
			name := w.Name
			v.WorkerName = &name
		}
	}
	if c.DailyActivityID != nil {
		if a, ok := f.l.activities[*c.DailyActivityID]; ok {
			name := a.ActivityName
			v.ActivityName = &name
		}
	}
	return v
}

func (f fakeCostStore) List(_ context.Context, filter models.CostFilter) ([]dto.CostView, error) {
	out := make([]dto.CostView, 0)
	for _, id := range sortedIDs(f.l.costs) {
		c := f.l.costs[id]
		if filter.SiteID != nil && c.SiteID != *filter.SiteID {
			continue
		}
		if filter.WorkerID != nil && (c.WorkerID == nil || *c.WorkerID != *filter.WorkerID) {
			continue
		}
		if filter.CostType != "" && c.CostType != filter.CostType {
			continue
		}
		if filter.Category != "" && (c.Category == nil || *c.Category != filter.Category) {
			continue
		}
		if !inRange(c.Date, filter.DateRange) {
			continue
		}
		out = append(out, f.view(c))
	}
	return out, nil
}

func (f fakeCostStore) FindByID(_ context.Context, id int64) (*dto.CostView, error) {
	c, ok := f.l.costs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	v := f.view(c)
	return &v, nil
}

func (f fakeCostStore) Create(_ context.Context, cost *models.Cost) error {
	cost.ID = f.l.id("costs")
	cost.CreatedAt = f.l.stamp()
	cost.UpdatedAt = cost.CreatedAt
	f.l.costs[cost.ID] = *cost
	return nil
}

func (f fakeCostStore) Update(_ context.Context, cost *models.Cost) error {
	cost.UpdatedAt = f.l.stamp()
	f.l.costs[cost.ID] = *cost
	return nil
}

func (f fakeCostStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.l.costs[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.l.costs, id)
	return nil
}

type recordingInvalidator struct {
	patterns []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, pattern string) error {
	r.patterns = append(r.patterns, pattern)
	return nil
}

type ledgerServices struct {
	ledger     *fakeLedger
	cache      *recordingInvalidator
	sites      *SiteService
	workers    *WorkerService
	attendance *AttendanceService
	activities *DailyActivityService
	costs      *CostService
}

func newLedgerServices() ledgerServices {
	l := newFakeLedger()
	cache := &recordingInvalidator{}
	sites := fakeSiteStore{l}
	workers := fakeWorkerStore{l}
	activities := fakeActivityStore{l}
	return ledgerServices{
		ledger:     l,
		cache:      cache,
		sites:      NewSiteService(sites, cache, nil, nil),
		workers:    NewWorkerService(workers, sites, cache, nil, nil),
		attendance: NewAttendanceService(fakeAttendanceStore{l}, workers, cache, nil, nil),
		activities: NewDailyActivityService(activities, sites, cache, nil, nil),
		costs:      NewCostService(fakeCostStore{l}, sites, workers, activities, cache, nil, nil),
	}
}

func strPtr(s string) *string    { return &s }
func floatPtr(f float64) *float64 { return &f }
func int64Ptr(i int64) *int64     { return &i }
func boolPtr(b bool) *bool        { return &b }
