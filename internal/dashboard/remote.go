package dashboard

import (
	"context"
	"time"

	"github.com/Tiliavir/ttdash/internal/model"
)

// Remote is the part of the runtime API the dashboard depends on.
// *api.Client satisfies it.
type Remote interface {
	ListTimeEntries(ctx context.Context, userID string, from, to time.Time) ([]model.TimeEntry, error)
	ListDayEntries(ctx context.Context, userID, date string) ([]model.TimeEntry, error)
	LogTime(ctx context.Context, req model.LogTimeRequest) (model.TimeEntry, error)
	UpdateTimeEntry(ctx context.Context, id string, upd model.EntryUpdate) (model.TimeEntry, error)
	DeleteTimeEntry(ctx context.Context, id string) error
	ListProjects(ctx context.Context, userID string) ([]model.Ref, error)
	ListScopeItems(ctx context.Context, scope model.Scope, projectID string) ([]model.Ref, error)
}

// HolidaySource lists the public holidays within [from, to].
type HolidaySource interface {
	Holidays(ctx context.Context, from, to time.Time) ([]model.Holiday, error)
}

// LeaveStore persists the leave-day set.
type LeaveStore interface {
	SaveLeaveDays(days []string) error
}
