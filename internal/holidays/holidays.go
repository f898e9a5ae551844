// Package holidays provides the public holidays of a month, either from the
// runtime's holidays entity or from a Google public-holiday calendar.
package holidays

import (
	"context"
	"fmt"
	"time"

	"github.com/Tiliavir/ttdash/internal/model"
)

// Lister is the runtime call behind Runtime. *api.Client satisfies it.
type Lister interface {
	ListHolidays(ctx context.Context, entity string, from, to time.Time) ([]model.Holiday, error)
}

// Runtime reads holidays from an entity of the runtime.
type Runtime struct {
	Client Lister
	// Entity defaults to management.holidays.
	Entity string
}

// Holidays lists the holidays dated within [from, to].
func (r Runtime) Holidays(ctx context.Context, from, to time.Time) ([]model.Holiday, error) {
	list, err := r.Client.ListHolidays(ctx, r.Entity, from, to)
	if err != nil {
		return nil, fmt.Errorf("runtime holidays: %w", err)
	}
	return list, nil
}

// None is a source without holidays.
type None struct{}

// Holidays returns nothing.
func (None) Holidays(context.Context, time.Time, time.Time) ([]model.Holiday, error) {
	return nil, nil
}
