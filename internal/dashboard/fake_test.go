package dashboard_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Tiliavir/ttdash/internal/dashboard"
	"github.com/Tiliavir/ttdash/internal/model"
)

// fakeRemote is an in-memory runtime.
type fakeRemote struct {
	entries  []model.TimeEntry
	projects []model.Ref
	items    map[model.Scope][]model.Ref

	nextID       int
	calls        []string
	fail         map[string]error
	noRecord     bool  // LogTime answers without the created record
	capTimeSpent int64 // UpdateTimeEntry stores at most this much when > 0

	lastLog    model.LogTimeRequest
	lastUpdate model.EntryUpdate
}

func (f *fakeRemote) call(name string) error {
	f.calls = append(f.calls, name)
	return f.fail[name]
}

func (f *fakeRemote) count(name string) int {
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeRemote) projectLabel(id string) string {
	for _, p := range f.projects {
		if p.ID == id {
			return p.Label
		}
	}
	return id
}

func (f *fakeRemote) ListTimeEntries(_ context.Context, _ string, from, to time.Time) ([]model.TimeEntry, error) {
	if err := f.call("ListTimeEntries"); err != nil {
		return nil, err
	}
	var out []model.TimeEntry
	for _, e := range f.entries {
		d, err := time.ParseInLocation("2006-01-02", e.Date, from.Location())
		if err != nil {
			return nil, err
		}
		if !d.Before(from) && !d.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRemote) ListDayEntries(_ context.Context, _ string, date string) ([]model.TimeEntry, error) {
	if err := f.call("ListDayEntries"); err != nil {
		return nil, err
	}
	var out []model.TimeEntry
	for _, e := range f.entries {
		if e.Date == date {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRemote) LogTime(_ context.Context, req model.LogTimeRequest) (model.TimeEntry, error) {
	if err := f.call("LogTime"); err != nil {
		return model.TimeEntry{}, err
	}
	f.lastLog = req
	f.nextID++
	e := model.TimeEntry{
		ID:        fmt.Sprintf("new-%d", f.nextID),
		Project:   model.Ref{ID: req.Project, Label: f.projectLabel(req.Project)},
		Date:      req.Date,
		TimeSpent: req.TimeSpent,
		Notes:     req.Notes,
	}
	if req.Task != nil {
		e.Task = &model.Ref{ID: *req.Task, Label: "task " + *req.Task}
	}
	if req.Ticket != nil {
		e.Ticket = &model.Ref{ID: *req.Ticket, Label: "ticket " + *req.Ticket}
	}
	f.entries = append(f.entries, e)
	if f.noRecord {
		return model.TimeEntry{}, nil
	}
	return e, nil
}

func (f *fakeRemote) UpdateTimeEntry(_ context.Context, id string, upd model.EntryUpdate) (model.TimeEntry, error) {
	if err := f.call("UpdateTimeEntry"); err != nil {
		return model.TimeEntry{}, err
	}
	f.lastUpdate = upd
	for i := range f.entries {
		e := &f.entries[i]
		if e.ID != id {
			continue
		}
		e.Project = model.Ref{ID: upd.Project, Label: f.projectLabel(upd.Project)}
		e.Task, e.Ticket = nil, nil
		if upd.Task != nil {
			e.Task = &model.Ref{ID: *upd.Task, Label: "task " + *upd.Task}
		}
		if upd.Ticket != nil {
			e.Ticket = &model.Ref{ID: *upd.Ticket, Label: "ticket " + *upd.Ticket}
		}
		e.TimeSpent = upd.TimeSpent
		if f.capTimeSpent > 0 && e.TimeSpent > f.capTimeSpent {
			e.TimeSpent = f.capTimeSpent
		}
		e.Notes = upd.Notes
		return *e, nil
	}
	return model.TimeEntry{}, fmt.Errorf("no entry %s", id)
}

func (f *fakeRemote) DeleteTimeEntry(_ context.Context, id string) error {
	if err := f.call("DeleteTimeEntry"); err != nil {
		return err
	}
	for i, e := range f.entries {
		if e.ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no entry %s", id)
}

func (f *fakeRemote) ListProjects(context.Context, string) ([]model.Ref, error) {
	if err := f.call("ListProjects"); err != nil {
		return nil, err
	}
	return f.projects, nil
}

func (f *fakeRemote) ListScopeItems(_ context.Context, scope model.Scope, _ string) ([]model.Ref, error) {
	if err := f.call("ListScopeItems"); err != nil {
		return nil, err
	}
	if scope == model.ScopeGlobal {
		return nil, nil
	}
	return f.items[scope], nil
}

type fakeHolidays struct {
	list []model.Holiday
	err  error
}

func (h fakeHolidays) Holidays(context.Context, time.Time, time.Time) ([]model.Holiday, error) {
	return h.list, h.err
}

type fakeLeaveStore struct {
	saved [][]string
	err   error
}

func (s *fakeLeaveStore) SaveLeaveDays(days []string) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, days)
	return nil
}

func hours(n float64) int64 { return int64(n * float64(time.Hour/time.Millisecond)) }

func taskEntry(id, date string, ms int64) model.TimeEntry {
	return model.TimeEntry{
		ID:        id,
		Project:   model.Ref{ID: "p1", Label: "Platform"},
		Task:      &model.Ref{ID: "t1", Label: "Fix login"},
		Date:      date,
		TimeSpent: ms,
		Notes:     "work",
	}
}

func globalEntry(id, date string, ms int64) model.TimeEntry {
	return model.TimeEntry{
		ID:        id,
		Project:   model.Ref{ID: "p2", Label: "Support"},
		Date:      date,
		TimeSpent: ms,
		Notes:     "support",
	}
}

// at returns a fixed clock.
func at(year int, month time.Month, day int) func() time.Time {
	return func() time.Time { return time.Date(year, month, day, 10, 0, 0, 0, time.UTC) }
}

// newMay builds a dashboard with May 2025 loaded, today being May 7.
func newMay(t *testing.T, remote *fakeRemote, opts dashboard.Options) *dashboard.Dashboard {
	t.Helper()
	if remote.projects == nil {
		remote.projects = []model.Ref{{ID: "p1", Label: "Platform"}, {ID: "p2", Label: "Support"}}
	}
	if opts.Holidays == nil {
		opts.Holidays = fakeHolidays{list: []model.Holiday{{Day: "2025-05-01", Title: "Labour Day"}}}
	}
	if opts.Now == nil {
		opts.Now = at(2025, time.May, 7)
	}
	opts.Location = time.UTC
	opts.UserID = "u1"
	opts.Logf = t.Logf
	d := dashboard.New(remote, opts)
	if err := d.LoadMonth(context.Background(), 2025, time.May); err != nil {
		t.Fatalf("LoadMonth: %v", err)
	}
	return d
}

func sumEntries(day *dashboard.Day) int64 {
	var total int64
	for _, e := range day.Entries() {
		total += e.TimeSpent()
	}
	return total
}
