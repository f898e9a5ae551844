package msgraph

import (
	"fmt"
	"sort"
	"time"

	"github.com/Tiliavir/ttdash/internal/timecalc"
)

// parseGraphTime parses a Graph API dateTime string in the given timezone.
// Graph returns times like "2026-02-27T09:00:00.0000000" without a zone suffix
// when a Prefer: outlook.timezone header is set.
func parseGraphTime(dt string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, dt); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range []string{
		"2006-01-02T15:04:05.0000000",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.ParseInLocation(layout, dt, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse graph time %q", dt)
}

// isOutOfOffice reports whether the event marks the user as away.
func isOutOfOffice(event CalendarEvent) bool {
	if event.IsCancelled || event.ShowAs != "oof" {
		return false
	}
	return event.Start.DateTime != "" && event.End.DateTime != ""
}

// LeaveDates returns the sorted dates within [from, to] that the events mark
// as out of office. All-day events cover every day up to their exclusive
// end. Timed events count towards a day only once they add up to a full
// workday on it.
func LeaveDates(events []CalendarEvent, loc *time.Location, from, to time.Time) ([]string, error) {
	if loc == nil {
		loc = time.UTC
	}
	fromKey, toKey := timecalc.DateKey(from.In(loc)), timecalc.DateKey(to.In(loc))
	full := map[string]bool{}
	partial := map[string]time.Duration{}

	for _, event := range events {
		if !isOutOfOffice(event) {
			continue
		}
		start, err := parseGraphTime(event.Start.DateTime, loc)
		if err != nil {
			return nil, fmt.Errorf("event %q start: %w", event.Subject, err)
		}
		end, err := parseGraphTime(event.End.DateTime, loc)
		if err != nil {
			return nil, fmt.Errorf("event %q end: %w", event.Subject, err)
		}

		if event.IsAllDay {
			for d := timecalc.StartOfDay(start); d.Before(end); d = d.AddDate(0, 0, 1) {
				full[timecalc.DateKey(d)] = true
			}
			continue
		}
		for d := timecalc.StartOfDay(start); d.Before(end); d = d.AddDate(0, 0, 1) {
			next := d.AddDate(0, 0, 1)
			lo, hi := start, end
			if d.After(lo) {
				lo = d
			}
			if next.Before(hi) {
				hi = next
			}
			partial[timecalc.DateKey(d)] += hi.Sub(lo)
		}
	}

	workday := time.Duration(timecalc.WorkdayMs) * time.Millisecond
	for key, d := range partial {
		if d >= workday {
			full[key] = true
		}
	}

	var dates []string
	for key := range full {
		if key >= fromKey && key <= toKey {
			dates = append(dates, key)
		}
	}
	sort.Strings(dates)
	return dates, nil
}
