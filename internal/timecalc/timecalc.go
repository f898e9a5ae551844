package timecalc

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Durations are carried as integer milliseconds, the unit the runtime API uses
// for timeSpent.
const (
	MsPerMinute int64 = 60 * 1000
	MsPerHour   int64 = 60 * MsPerMinute

	// Step is the granularity of every time value entered by the user.
	Step = 30 * MsPerMinute
	// MinEntry and MaxEntry bound the time of a single entry.
	MinEntry = Step
	MaxEntry = 8 * MsPerHour
	// WorkdayMs is the expected logged time of a business day.
	WorkdayMs = 8 * MsPerHour
)

// DateLayout is the layout of the canonical day key (ISO yyyy-mm-dd).
const DateLayout = "2006-01-02"

var (
	hourPattern   = regexp.MustCompile(`(\d*\.?\d+)\s*h`)
	// Minutes are whole; "1.5m" must not read as "5m".
	minutePattern = regexp.MustCompile(`(?:^|[^\d.])(\d+)\s*m`)
)

// FormatMs formats milliseconds as "2h30m", "2h", "45m" or "0m".
// Hours and minutes are floored; zero components are omitted.
func FormatMs(ms int64) string {
	if ms < MsPerMinute {
		return "0m"
	}
	h := ms / MsPerHour
	m := (ms % MsPerHour) / MsPerMinute
	var b strings.Builder
	if h > 0 {
		fmt.Fprintf(&b, "%dh", h)
	}
	if m > 0 {
		fmt.Fprintf(&b, "%dm", m)
	}
	return b.String()
}

// ParseMs parses free-text durations such as "1h 30m", "1.5h", "45m" or a bare
// number of hours ("2"). Input is case-insensitive and whitespace tolerant.
// Unrecognised input, fractional minutes and anything signed negative yield 0.
func ParseMs(text string) int64 {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" || strings.Contains(s, "-") {
		return 0
	}

	var total float64
	hm := hourPattern.FindStringSubmatch(s)
	mm := minutePattern.FindStringSubmatch(s)
	if hm != nil {
		if h, err := strconv.ParseFloat(hm[1], 64); err == nil {
			total += h * float64(MsPerHour)
		}
	}
	if mm != nil {
		if m, err := strconv.ParseInt(mm[1], 10, 64); err == nil {
			total += float64(m * MsPerMinute)
		}
	}

	if hm == nil && mm == nil {
		h, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsInf(h, 0) || math.IsNaN(h) {
			return 0
		}
		total = h * float64(MsPerHour)
	}

	if total <= 0 {
		return 0
	}
	return int64(math.Round(total))
}

// SnapToStep rounds ms to the nearest 30-minute step (halves round up) and
// clamps the result to [MinEntry, MaxEntry].
func SnapToStep(ms int64) int64 {
	snapped := (ms + Step/2) / Step * Step
	if snapped < MinEntry {
		return MinEntry
	}
	if snapped > MaxEntry {
		return MaxEntry
	}
	return snapped
}

// InEntryBounds reports whether ms is an acceptable entry time.
func InEntryBounds(ms int64) bool {
	return ms >= MinEntry && ms <= MaxEntry
}

// MonthRange returns local midnight of the first and of the last day of the month.
func MonthRange(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	end := time.Date(year, month+1, 0, 0, 0, 0, 0, loc)
	return start, end
}

// MonthWeeks splits the days of a month into Monday-to-Sunday spans. The first
// and last span may hold fewer than seven days.
func MonthWeeks(year int, month time.Month, loc *time.Location) [][]time.Time {
	start, end := MonthRange(year, month, loc)
	var weeks [][]time.Time
	var current []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Monday && len(current) > 0 {
			weeks = append(weeks, current)
			current = nil
		}
		current = append(current, d)
	}
	if len(current) > 0 {
		weeks = append(weeks, current)
	}
	return weeks
}

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) (time.Time, time.Time) {
	// Go's weekday: Sunday=0, Monday=1, …, Saturday=6
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // treat Sunday as 7 (ISO)
	}
	monday := t.AddDate(0, 0, -(wd - 1))
	monday = time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
	sunday := monday.AddDate(0, 0, 6)
	sunday = time.Date(sunday.Year(), sunday.Month(), sunday.Day(), 23, 59, 59, 0, t.Location())
	return monday, sunday
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// DateKey returns the canonical yyyy-mm-dd key of t in its own location.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDateKey parses a yyyy-mm-dd key as local midnight in loc.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", key, err)
	}
	return t, nil
}

// Between renders the runtime's range filter between(t0,t1) in epoch milliseconds.
func Between(from, to time.Time) string {
	return fmt.Sprintf("between(%d,%d)", from.UnixMilli(), to.UnixMilli())
}
