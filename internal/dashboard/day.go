package dashboard

import (
	"context"
	"time"

	"github.com/Tiliavir/ttdash/internal/model"
	"github.com/Tiliavir/ttdash/internal/timecalc"
)

// DurationClass grades a day's logged time against the workday.
type DurationClass string

const (
	DurationUnder DurationClass = "under" // below 100 %
	DurationOK    DurationClass = "ok"    // 100 % up to 110 %
	DurationOver  DurationClass = "over"  // above 110 %
)

// Day is one calendar day of the loaded month.
type Day struct {
	dash    *Dashboard
	week    *Week
	date    time.Time
	key     string
	holiday *model.Holiday

	entries    []*Entry
	durationMs int64
	// billableMs tracks the billable share of durationMs. The runtime bills
	// every entry, so both move together.
	billableMs int64
	form       *EntryForm
}

func newDay(d *Dashboard, w *Week, date time.Time, recs []model.TimeEntry) *Day {
	day := &Day{
		dash: d,
		week: w,
		date: date,
		key:  timecalc.DateKey(date),
		form: newEntryForm(d.defaultProject()),
	}
	if h, ok := d.holidays[day.key]; ok {
		day.holiday = &h
	}
	day.setEntries(recs)
	return day
}

func (day *Day) setEntries(recs []model.TimeEntry) {
	day.entries = nil
	day.durationMs, day.billableMs = 0, 0
	for _, rec := range recs {
		day.entries = append(day.entries, &Entry{day: day, rec: rec})
		day.durationMs += rec.TimeSpent
		day.billableMs += rec.TimeSpent
	}
}

// Key returns the canonical yyyy-mm-dd key.
func (day *Day) Key() string { return day.key }

// Date returns local midnight of the day.
func (day *Day) Date() time.Time { return day.date }

// Title returns a long human title such as "Mon, May 5, 2025".
func (day *Day) Title() string { return day.date.Format("Mon, January 2, 2006") }

// Week returns the week the day belongs to.
func (day *Day) Week() *Week { return day.week }

// Entries returns the day's entries in remote order.
func (day *Day) Entries() []*Entry { return day.entries }

// Form returns the new-entry form.
func (day *Day) Form() *EntryForm { return day.form }

// DurationMs returns the sum of the entries' time.
func (day *Day) DurationMs() int64 { return day.durationMs }

// BillableMs returns the billable part of the day's time.
func (day *Day) BillableMs() int64 { return day.billableMs }

// Duration returns DurationMs formatted.
func (day *Day) Duration() string { return timecalc.FormatMs(day.durationMs) }

// Holiday returns the holiday title, or "".
func (day *Day) Holiday() string {
	if day.holiday == nil {
		return ""
	}
	return day.holiday.Name()
}

func (day *Day) IsToday() bool   { return timecalc.SameDay(day.date, day.dash.now()) }
func (day *Day) IsWeekend() bool { return timecalc.IsWeekend(day.date) }
func (day *Day) IsHoliday() bool { return day.holiday != nil }
func (day *Day) IsLeave() bool   { return day.dash.leave[day.key] }

// IsBusinessDay reports a weekday that is neither holiday nor leave.
func (day *Day) IsBusinessDay() bool {
	return !day.IsWeekend() && !day.IsHoliday() && !day.IsLeave()
}

// IsMissingTime reports a business day with less than a workday logged.
func (day *Day) IsMissingTime() bool {
	return day.IsBusinessDay() && day.durationMs < timecalc.WorkdayMs
}

// MissingDuration returns the time left to a full workday, or "".
func (day *Day) MissingDuration() string {
	if !day.IsMissingTime() {
		return ""
	}
	return timecalc.FormatMs(timecalc.WorkdayMs - day.durationMs)
}

// DurationPercentage is the share of a workday logged, capped at 100. It is 0
// for days that are not business days.
func (day *Day) DurationPercentage() float64 {
	if !day.IsBusinessDay() || day.durationMs <= 0 {
		return 0
	}
	return min(float64(day.durationMs)/float64(timecalc.WorkdayMs)*100, 100)
}

// DurationClass grades the uncapped percentage.
func (day *Day) DurationClass() DurationClass {
	p := float64(day.durationMs) / float64(timecalc.WorkdayMs) * 100
	switch {
	case p < 100:
		return DurationUnder
	case p < 110:
		return DurationOK
	default:
		return DurationOver
	}
}

// CanToggleLeave reports whether the leave marker may be flipped: never on
// weekends or holidays, always to clear it, otherwise only on empty days.
func (day *Day) CanToggleLeave() bool {
	if day.IsWeekend() || day.IsHoliday() {
		return false
	}
	if day.IsLeave() {
		return true
	}
	return len(day.entries) == 0
}

func (day *Day) state() dayState {
	return dayState{
		date:        day.date,
		isWeekend:   day.IsWeekend(),
		isLeave:     day.IsLeave(),
		missingTime: day.IsMissingTime(),
	}
}

// VisibleUnder reports whether the day passes every active filter.
func (day *Day) VisibleUnder(f Filters, now time.Time) bool {
	return f.admits(day.state(), now)
}

// IsVisible applies the dashboard's current filters.
func (day *Day) IsVisible() bool {
	return day.VisibleUnder(day.dash.filters, day.dash.now())
}

func (day *Day) indexOf(id string) int {
	for i, e := range day.entries {
		if e.rec.ID == id {
			return i
		}
	}
	return -1
}

// entry returns the entry with the given id, or nil.
func (day *Day) entry(id string) *Entry {
	if i := day.indexOf(id); i >= 0 {
		return day.entries[i]
	}
	return nil
}

// AddEntry logs the new-entry form on this day. The form is reset on success
// (the project is kept).
func (day *Day) AddEntry(ctx context.Context) error {
	d := day.dash
	defer d.lockOp()()

	if err := day.form.Validate(); err != nil {
		return d.fail(err, "")
	}
	done := d.begin()
	defer done()

	req := day.form.logRequest(day.key)
	var created model.TimeEntry
	err := d.call(func() (err error) {
		created, err = d.remote.LogTime(ctx, req)
		return err
	})
	if err != nil {
		return d.fail(err, "Error logging entry.")
	}
	if created.ID == "" || (created.Date != "" && dateOf(created.Date) != day.key) {
		if err := day.refetch(ctx); err != nil {
			return err
		}
	} else {
		day.entries = append(day.entries, &Entry{day: day, rec: created})
		day.durationMs += created.TimeSpent
		day.billableMs += created.TimeSpent
	}

	if d.nav.mode == ModeEntry && d.nav.day == day.key && len(day.entries) > 0 {
		d.nav.entry = day.entries[len(day.entries)-1].rec.ID
	}
	day.form.reset()
	d.settle()
	d.notify(LevelSuccess, "Entry logged.")
	return nil
}

// refetch reloads the day's entries in creation order.
func (day *Day) refetch(ctx context.Context) error {
	d := day.dash
	var recs []model.TimeEntry
	err := d.call(func() (err error) {
		recs, err = d.remote.ListDayEntries(ctx, d.opts.UserID, day.key)
		return err
	})
	if err != nil {
		return d.fail(err, "Error reloading day.")
	}
	day.setEntries(recs)
	return nil
}

// SetFormProject selects the form's project and reloads the candidates.
func (day *Day) SetFormProject(ctx context.Context, project model.Ref) error {
	d := day.dash
	defer d.lockOp()()
	p := project
	day.form.Project = &p
	return d.loadCandidates(ctx, day.form)
}

// SetFormScope selects the form's scope, clears the selected task or ticket
// and reloads the candidates.
func (day *Day) SetFormScope(ctx context.Context, scope model.Scope) error {
	d := day.dash
	defer d.lockOp()()
	day.form.Scope = scope
	day.form.TaskID, day.form.TicketID = "", ""
	return d.loadCandidates(ctx, day.form)
}

// ToggleLeave flips the leave marker and persists the leave set.
func (day *Day) ToggleLeave() error {
	d := day.dash
	defer d.lockOp()()

	if !day.CanToggleLeave() {
		return d.fail(invalid("leave", "Leave can only be set on empty working days."), "")
	}
	prev := day.IsLeave()
	d.setLeave(day.key, !prev)
	if err := d.saveLeave(); err != nil {
		d.setLeave(day.key, prev)
		return d.fail(err, "Error saving leave days.")
	}
	d.settle()
	return nil
}

// dateOf trims a remote date value to its yyyy-mm-dd key.
func dateOf(s string) string {
	if len(s) > len(timecalc.DateLayout) {
		return s[:len(timecalc.DateLayout)]
	}
	return s
}
