package dashboard

import "fmt"

// Week is the Monday-to-Sunday span of a month. The first and last week of a
// month may hold fewer than seven days.
type Week struct {
	index     int
	days      []*Day
	collapsed bool
}

// Index is the zero-based position of the week within the month.
func (w *Week) Index() int { return w.index }

// Title returns "Week N", counted from 1 within the month.
func (w *Week) Title() string { return fmt.Sprintf("Week %d", w.index+1) }

// DateRange returns e.g. "May 5 - May 11".
func (w *Week) DateRange() string {
	if len(w.days) == 0 {
		return ""
	}
	first, last := w.days[0].date, w.days[len(w.days)-1].date
	return first.Format("Jan 2") + " - " + last.Format("Jan 2")
}

// Days returns the days of the week in calendar order.
func (w *Week) Days() []*Day { return w.days }

// IsCollapsed reports whether the week is folded in the view.
func (w *Week) IsCollapsed() bool { return w.collapsed }

// IsVisible reports whether any day of the week is visible.
func (w *Week) IsVisible() bool {
	for _, day := range w.days {
		if day.IsVisible() {
			return true
		}
	}
	return false
}
