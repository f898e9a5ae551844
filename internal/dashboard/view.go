package dashboard

import (
	"time"

	"github.com/Tiliavir/ttdash/internal/model"
)

// EntryView is a read-only copy of an Entry.
type EntryView struct {
	ID        string
	Date      string
	ProjectID string
	Project   string
	Scope     model.Scope
	Item      string
	TimeSpent int64
	Duration  string
	Notes     string
}

// DayView is a read-only copy of a Day.
type DayView struct {
	Key             string
	Date            time.Time
	Title           string
	Holiday         string
	IsToday         bool
	IsWeekend       bool
	IsHoliday       bool
	IsLeave         bool
	IsBusinessDay   bool
	IsMissingTime   bool
	CanToggleLeave  bool
	Visible         bool
	DurationMs      int64
	Duration        string
	BillableMs      int64
	MissingDuration string
	Percentage      float64
	Class           DurationClass
	Entries         []EntryView
}

// WeekView is a read-only copy of a Week.
type WeekView struct {
	Index     int
	Title     string
	DateRange string
	Collapsed bool
	Visible   bool
	Days      []DayView
}

// MonthView is a consistent copy of the whole dashboard state, safe to
// render while further operations run.
type MonthView struct {
	Year           int
	Month          time.Month
	Weeks          []WeekView
	Progress       MonthProgress
	Filters        Filters
	Projects       []model.Ref
	LeaveDays      []string
	Keybindings    bool
	Mode           Mode
	SelectedDay    string
	SelectedEntry  string
	PendingRemoval string
	Loading        bool
	Notices        []Notice
}

// Title returns e.g. "May 2025".
func (v MonthView) Title() string {
	return time.Date(v.Year, v.Month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}

// VisibleEntries returns the entries of the visible days of the visible
// weeks in calendar order.
func (v MonthView) VisibleEntries() []EntryView {
	var out []EntryView
	for _, w := range v.Weeks {
		if !w.Visible {
			continue
		}
		for _, day := range w.Days {
			if day.Visible {
				out = append(out, day.Entries...)
			}
		}
	}
	return out
}

func entryView(e *Entry) EntryView {
	return EntryView{
		ID:        e.rec.ID,
		Date:      e.day.key,
		ProjectID: e.rec.Project.ID,
		Project:   e.rec.Project.Label,
		Scope:     e.rec.Scope(),
		Item:      e.rec.ItemLabel(),
		TimeSpent: e.rec.TimeSpent,
		Duration:  e.Duration(),
		Notes:     e.rec.Notes,
	}
}

func dayView(day *Day) DayView {
	v := DayView{
		Key:             day.key,
		Date:            day.date,
		Title:           day.Title(),
		Holiday:         day.Holiday(),
		IsToday:         day.IsToday(),
		IsWeekend:       day.IsWeekend(),
		IsHoliday:       day.IsHoliday(),
		IsLeave:         day.IsLeave(),
		IsBusinessDay:   day.IsBusinessDay(),
		IsMissingTime:   day.IsMissingTime(),
		CanToggleLeave:  day.CanToggleLeave(),
		Visible:         day.IsVisible(),
		DurationMs:      day.durationMs,
		Duration:        day.Duration(),
		BillableMs:      day.billableMs,
		MissingDuration: day.MissingDuration(),
		Percentage:      day.DurationPercentage(),
		Class:           day.DurationClass(),
	}
	for _, e := range day.entries {
		v.Entries = append(v.Entries, entryView(e))
	}
	return v
}

// Snapshot copies the current state.
func (d *Dashboard) Snapshot() MonthView {
	d.mu.Lock()
	defer d.mu.Unlock()
	v := MonthView{
		Year:          d.year,
		Month:         d.month,
		Progress:      d.stats,
		Filters:       d.filters,
		Projects:      append([]model.Ref(nil), d.projects...),
		LeaveDays:     d.leaveDays(),
		Keybindings:   d.keybindings,
		Mode:          d.nav.mode,
		SelectedDay:   d.nav.day,
		SelectedEntry: d.nav.entry,
		Loading:       d.Loading(),
		Notices:       append([]Notice(nil), d.notices...),
	}
	if d.pending != nil {
		v.PendingRemoval = d.pending.rec.ID
	}
	for _, w := range d.weeks {
		wv := WeekView{
			Index:     w.index,
			Title:     w.Title(),
			DateRange: w.DateRange(),
			Collapsed: w.collapsed,
		}
		for _, day := range w.days {
			dv := dayView(day)
			wv.Visible = wv.Visible || dv.Visible
			wv.Days = append(wv.Days, dv)
		}
		v.Weeks = append(v.Weeks, wv)
	}
	return v
}
