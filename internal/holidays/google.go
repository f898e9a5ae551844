package holidays

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/Tiliavir/ttdash/internal/model"
	"github.com/Tiliavir/ttdash/internal/timecalc"
)

// DefaultGoogleCalendar is Google's public holiday calendar for Germany.
const DefaultGoogleCalendar = "en.german#holiday@group.v.calendar.google.com"

// Google reads all-day events of a public Google calendar as holidays.
type Google struct {
	srv        *calendar.Service
	calendarID string
}

// NewGoogle creates a source for calendarID. Public holiday calendars only
// need an API key; extra options (endpoint, HTTP client) are passed through.
func NewGoogle(ctx context.Context, calendarID, apiKey string, opts ...option.ClientOption) (*Google, error) {
	if calendarID == "" {
		calendarID = DefaultGoogleCalendar
	}
	if apiKey != "" {
		opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	}
	srv, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating calendar service: %w", err)
	}
	return &Google{srv: srv, calendarID: calendarID}, nil
}

// Holidays lists the all-day events overlapping [from, to].
func (g *Google) Holidays(ctx context.Context, from, to time.Time) ([]model.Holiday, error) {
	events, err := g.srv.Events.List(g.calendarID).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.AddDate(0, 0, 1).Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve holidays from calendar: %w", err)
	}
	return eventsToHolidays(events.Items, timecalc.DateKey(from), timecalc.DateKey(to)), nil
}

// eventsToHolidays turns all-day events into one holiday per covered date
// within [fromKey, toKey]. Timed events are ignored.
func eventsToHolidays(items []*calendar.Event, fromKey, toKey string) []model.Holiday {
	var out []model.Holiday
	for _, ev := range items {
		if ev.Start == nil || ev.Start.Date == "" {
			continue
		}
		start, err := time.Parse(timecalc.DateLayout, ev.Start.Date)
		if err != nil {
			continue
		}
		// All-day end dates are exclusive.
		end := start.AddDate(0, 0, 1)
		if ev.End != nil && ev.End.Date != "" {
			if e, err := time.Parse(timecalc.DateLayout, ev.End.Date); err == nil && e.After(start) {
				end = e
			}
		}
		for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
			key := timecalc.DateKey(d)
			if key < fromKey || key > toKey {
				continue
			}
			out = append(out, model.Holiday{ID: ev.Id, Day: key, Title: ev.Summary})
		}
	}
	return out
}
