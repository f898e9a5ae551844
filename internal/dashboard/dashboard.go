// Package dashboard derives the calendar view of a month of time entries:
// weeks of days of entries, their totals and statistics, and the keyboard
// selection over them. Every mutation goes to the remote API first and is
// reconciled from its response.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Tiliavir/ttdash/internal/api"
	"github.com/Tiliavir/ttdash/internal/model"
	"github.com/Tiliavir/ttdash/internal/timecalc"
)

// Options configures a Dashboard.
type Options struct {
	// UserID is the owner of the listed entries.
	UserID string
	// Holidays is consulted on every month load; nil means no holidays.
	Holidays HolidaySource
	// LeaveDays is the initial leave set; LeaveStore persists changes.
	LeaveDays  []string
	LeaveStore LeaveStore
	Filters    Filters
	// DefaultProject is the label of the project new-entry forms start with.
	DefaultProject     string
	KeybindingsEnabled bool
	Location           *time.Location
	Now                func() time.Time
	// Logf receives remote failures. Defaults to stderr.
	Logf func(format string, args ...any)
	// OnAuthError is called when the session was rejected.
	OnAuthError func(err error)
}

// Dashboard is the state of one user's month. Operations are serialized by
// op, held across the remote call and the reconciliation. mu guards the state
// and is released while a remote call is in flight, so snapshots and notices
// stay available meanwhile.
type Dashboard struct {
	op      sync.Mutex
	mu      sync.Mutex
	remote  Remote
	opts    Options
	loading atomic.Int32

	year     int
	month    time.Month
	weeks    []*Week
	projects []model.Ref
	holidays map[string]model.Holiday
	leave    map[string]bool
	filters  Filters
	stats    MonthProgress

	keybindings bool
	nav         navigator
	pending     *Entry
	notices     []Notice
}

// New creates a dashboard. Call LoadMonth before reading it.
func New(remote Remote, opts Options) *Dashboard {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logf == nil {
		opts.Logf = func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}
	}
	d := &Dashboard{
		remote:      remote,
		opts:        opts,
		holidays:    map[string]model.Holiday{},
		leave:       map[string]bool{},
		filters:     opts.Filters,
		keybindings: opts.KeybindingsEnabled,
	}
	for _, key := range opts.LeaveDays {
		d.leave[key] = true
	}
	now := d.now()
	d.year, d.month = now.Year(), now.Month()
	return d
}

func (d *Dashboard) now() time.Time {
	return d.opts.Now().In(d.opts.Location)
}

// begin raises the loading flag; the returned func lowers it.
func (d *Dashboard) begin() func() {
	d.loading.Add(1)
	return func() { d.loading.Add(-1) }
}

// lockOp takes the operation lock, then the state lock. The returned func
// releases both.
func (d *Dashboard) lockOp() func() {
	d.op.Lock()
	d.mu.Lock()
	return func() {
		d.mu.Unlock()
		d.op.Unlock()
	}
}

// call runs a remote round trip with the state lock released. The caller
// holds both locks.
func (d *Dashboard) call(fn func() error) error {
	d.mu.Unlock()
	defer d.mu.Lock()
	return fn()
}

// settle recomputes the statistics and the selection after a change.
func (d *Dashboard) settle() {
	d.recomputeStats()
	d.reconcileNav()
}

// Loading reports whether a remote round trip is in flight.
func (d *Dashboard) Loading() bool {
	return d.loading.Load() > 0
}

// fail turns an error into a notice and returns it wrapped with msg.
// Validation errors are shown as they are; auth errors also clear the session.
func (d *Dashboard) fail(err error, msg string) error {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		d.notify(LevelError, vErr.Message)
		return err
	}
	msg = strings.TrimSuffix(msg, ".")
	d.opts.Logf("Error: %s: %v", msg, err)
	var authErr *api.AuthError
	if errors.As(err, &authErr) {
		d.notify(LevelError, "Session expired or invalid, please log in again.")
		if d.opts.OnAuthError != nil {
			d.opts.OnAuthError(err)
		}
	} else {
		d.notify(LevelError, msg+".")
	}
	return fmt.Errorf("%s: %w", strings.ToLower(msg[:1])+msg[1:], err)
}

func (d *Dashboard) project(id string) *model.Ref {
	for i := range d.projects {
		if d.projects[i].ID == id {
			p := d.projects[i]
			return &p
		}
	}
	return nil
}

func (d *Dashboard) defaultProject() *model.Ref {
	if d.opts.DefaultProject == "" {
		return nil
	}
	for _, p := range d.projects {
		if p.Label == d.opts.DefaultProject {
			return &p
		}
	}
	return nil
}

// loadCandidates replaces the form's task or ticket candidates.
func (d *Dashboard) loadCandidates(ctx context.Context, f *EntryForm) error {
	f.Candidates = nil
	if f.Project == nil || f.Scope == model.ScopeGlobal {
		return nil
	}
	done := d.begin()
	defer done()
	scope, project := f.Scope, f.Project.ID
	var items []model.Ref
	err := d.call(func() (err error) {
		items, err = d.remote.ListScopeItems(ctx, scope, project)
		return err
	})
	if err != nil {
		return d.fail(err, "Error loading tasks/tickets.")
	}
	f.Candidates = items
	return nil
}

// Month returns the loaded year and month.
func (d *Dashboard) Month() (int, time.Month) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.year, d.month
}

// Location returns the time zone days are computed in.
func (d *Dashboard) Location() *time.Location { return d.opts.Location }

// LoadMonth fetches holidays, entries and projects for the month and rebuilds
// the weeks from scratch. Leave days, filters and the selection are kept.
// On failure the previous state is left untouched.
func (d *Dashboard) LoadMonth(ctx context.Context, year int, month time.Month) error {
	defer d.lockOp()()
	return d.loadMonth(ctx, year, month)
}

func (d *Dashboard) loadMonth(ctx context.Context, year int, month time.Month) error {
	// Normalize overflowing months such as 13 or 0.
	first := time.Date(year, month, 1, 0, 0, 0, 0, d.opts.Location)
	year, month = first.Year(), first.Month()
	start, end := timecalc.MonthRange(year, month, d.opts.Location)

	done := d.begin()
	defer done()

	var (
		list     []model.Holiday
		recs     []model.TimeEntry
		projects []model.Ref
		failMsg  string
	)
	err := d.call(func() (err error) {
		if d.opts.Holidays != nil {
			if list, err = d.opts.Holidays.Holidays(ctx, start, end); err != nil {
				failMsg = "Error loading holidays."
				return err
			}
		}
		if recs, err = d.remote.ListTimeEntries(ctx, d.opts.UserID, start, end); err != nil {
			failMsg = "Error loading time entries."
			return err
		}
		if projects, err = d.remote.ListProjects(ctx, d.opts.UserID); err != nil {
			failMsg = "Error loading projects."
		}
		return err
	})
	if err != nil {
		return d.fail(err, failMsg)
	}
	holidays := map[string]model.Holiday{}
	for _, h := range list {
		holidays[dateOf(h.Day)] = h
	}

	byDate := make(map[string][]model.TimeEntry)
	for _, rec := range recs {
		key := dateOf(rec.Date)
		byDate[key] = append(byDate[key], rec)
	}

	d.year, d.month = year, month
	d.holidays = holidays
	d.projects = projects
	d.pending = nil
	d.weeks = nil
	for i, dates := range timecalc.MonthWeeks(year, month, d.opts.Location) {
		w := &Week{index: i}
		for _, date := range dates {
			w.days = append(w.days, newDay(d, w, date, byDate[timecalc.DateKey(date)]))
		}
		d.weeks = append(d.weeks, w)
	}

	d.settle()
	return nil
}

// NextMonth loads the month after the loaded one.
func (d *Dashboard) NextMonth(ctx context.Context) error {
	defer d.lockOp()()
	return d.loadMonth(ctx, d.year, d.month+1)
}

// PrevMonth loads the month before the loaded one.
func (d *Dashboard) PrevMonth(ctx context.Context) error {
	defer d.lockOp()()
	return d.loadMonth(ctx, d.year, d.month-1)
}

// GoToToday loads the current month if needed and selects today when
// keybindings are on and today is visible.
func (d *Dashboard) GoToToday(ctx context.Context) ([]Intent, error) {
	defer d.lockOp()()
	return d.goToToday(ctx)
}

func (d *Dashboard) goToToday(ctx context.Context) ([]Intent, error) {
	now := d.now()
	if d.weeks == nil || d.year != now.Year() || d.month != now.Month() {
		if err := d.loadMonth(ctx, now.Year(), now.Month()); err != nil {
			return nil, err
		}
	}
	today := d.day(timecalc.DateKey(now))
	if today == nil {
		return nil, nil
	}
	if d.keybindings && today.IsVisible() {
		d.nav.mode = ModeDay
		return d.selectDay(today), nil
	}
	return []Intent{{Kind: IntentScrollToDay, Day: today.key}}, nil
}

// Weeks returns the weeks of the loaded month.
func (d *Dashboard) Weeks() []*Week {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.weeks
}

// Day returns the day with the given yyyy-mm-dd key, or nil when it is not
// part of the loaded month.
func (d *Dashboard) Day(key string) *Day {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.day(key)
}

func (d *Dashboard) day(key string) *Day {
	for _, w := range d.weeks {
		for _, day := range w.days {
			if day.key == key {
				return day
			}
		}
	}
	return nil
}

// Entry returns the entry with the given id, or nil.
func (d *Dashboard) Entry(id string) *Entry {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, w := range d.weeks {
		for _, day := range w.days {
			if e := day.entry(id); e != nil {
				return e
			}
		}
	}
	return nil
}

// Projects returns the user's projects, by name.
func (d *Dashboard) Projects() []model.Ref {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]model.Ref(nil), d.projects...)
}

// Filters returns the active filters.
func (d *Dashboard) Filters() Filters {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.filters
}

// SetFilters replaces the filters, then recomputes statistics and selection.
func (d *Dashboard) SetFilters(f Filters) {
	defer d.lockOp()()
	d.filters = f
	d.settle()
}

// ToggleWeek folds or unfolds a week of the loaded month.
func (d *Dashboard) ToggleWeek(index int) {
	defer d.lockOp()()
	if index >= 0 && index < len(d.weeks) {
		d.weeks[index].collapsed = !d.weeks[index].collapsed
	}
}

// PendingRemoval returns the entry marked for removal, or nil.
func (d *Dashboard) PendingRemoval() *Entry {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// CancelRemove forgets the entry marked for removal.
func (d *Dashboard) CancelRemove() {
	defer d.lockOp()()
	d.pending = nil
}

// ConfirmRemove deletes the entry marked for removal and splices it out of
// its day. A selected entry is replaced by its neighbour, or by nothing when
// the day became empty.
func (d *Dashboard) ConfirmRemove(ctx context.Context) error {
	defer d.lockOp()()
	e := d.pending
	if e == nil {
		return nil
	}
	day := e.day
	idx := day.indexOf(e.rec.ID)
	if idx < 0 {
		d.pending = nil
		return nil
	}

	done := d.begin()
	defer done()
	id := e.rec.ID
	if err := d.call(func() error { return d.remote.DeleteTimeEntry(ctx, id) }); err != nil {
		return d.fail(err, "Error removing entry.")
	}

	day.entries = append(day.entries[:idx:idx], day.entries[idx+1:]...)
	day.durationMs -= e.rec.TimeSpent
	day.billableMs -= e.rec.TimeSpent
	d.pending = nil

	if d.nav.mode == ModeEntry && d.nav.day == day.key && d.nav.entry == e.rec.ID {
		d.nav.entry = ""
		if n := len(day.entries); n > 0 {
			d.nav.entry = day.entries[min(idx, n-1)].rec.ID
		}
	}
	d.settle()
	d.notify(LevelSuccess, "Entry removed successfully.")
	return nil
}

// LeaveDays returns the leave set in date order.
func (d *Dashboard) LeaveDays() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.leaveDays()
}

func (d *Dashboard) leaveDays() []string {
	days := make([]string, 0, len(d.leave))
	for key := range d.leave {
		days = append(days, key)
	}
	sort.Strings(days)
	return days
}

func (d *Dashboard) setLeave(key string, on bool) {
	if on {
		d.leave[key] = true
	} else {
		delete(d.leave, key)
	}
}

func (d *Dashboard) saveLeave() error {
	if d.opts.LeaveStore == nil {
		return nil
	}
	return d.opts.LeaveStore.SaveLeaveDays(d.leaveDays())
}

// MarkLeave adds the given dates to the leave set. Dates outside the loaded
// month, already on leave or not eligible for leave are skipped.
func (d *Dashboard) MarkLeave(dates []string) (added, skipped []string, err error) {
	defer d.lockOp()()
	for _, key := range dates {
		day := d.day(key)
		if day == nil || day.IsLeave() || !day.CanToggleLeave() {
			skipped = append(skipped, key)
			continue
		}
		d.setLeave(key, true)
		added = append(added, key)
	}
	if len(added) == 0 {
		return nil, skipped, nil
	}
	if err := d.saveLeave(); err != nil {
		for _, key := range added {
			d.setLeave(key, false)
		}
		return nil, skipped, d.fail(err, "Error saving leave days.")
	}
	d.settle()
	return added, skipped, nil
}
