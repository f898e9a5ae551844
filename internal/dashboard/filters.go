package dashboard

import (
	"time"

	"github.com/Tiliavir/ttdash/internal/timecalc"
)

// Filters is the set of day filters. Active filters are combined with AND.
type Filters struct {
	OnlyToday       bool `json:"only_today"`
	OnlyCurrentWeek bool `json:"only_current_week"`
	HideLeaveDays   bool `json:"hide_leave_days"`
	MissingHours    bool `json:"missing_hours"`
	ShowWeekends    bool `json:"show_weekends"`
}

// DefaultFilters hides leave days and weekends.
func DefaultFilters() Filters {
	return Filters{HideLeaveDays: true}
}

// dayState is the part of a Day the filters look at.
type dayState struct {
	date        time.Time
	isWeekend   bool
	isLeave     bool
	missingTime bool
}

func (f Filters) admits(s dayState, now time.Time) bool {
	if f.OnlyToday && !timecalc.SameDay(s.date, now) {
		return false
	}
	if f.OnlyCurrentWeek {
		monday, sunday := timecalc.WeekRange(now)
		if s.date.Before(monday) || s.date.After(sunday) {
			return false
		}
	}
	if f.HideLeaveDays && s.isLeave {
		return false
	}
	if f.MissingHours && !s.missingTime {
		return false
	}
	// A weekend day marked as leave stays visible.
	if !f.ShowWeekends && s.isWeekend && !s.isLeave {
		return false
	}
	return true
}
