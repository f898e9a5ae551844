package dashboard_test

import (
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/Tiliavir/ttdash/internal/dashboard"
	"github.com/Tiliavir/ttdash/internal/model"
)

// filterDays are the days the filter tests look at; today is Wed May 7.
var filterDays = []string{
	"2025-05-05", // Monday, 2h logged
	"2025-05-07", // today, empty
	"2025-05-09", // Friday, leave
	"2025-05-10", // Saturday
	"2025-05-11", // Sunday, leave
	"2025-05-12", // next Monday, empty
	"2025-05-15", // Thursday, 8h logged
}

type toggle struct {
	name  string
	apply func(*dashboard.Filters)
	want  []string
}

var toggles = []toggle{
	{"only today", func(f *dashboard.Filters) { f.OnlyToday = true },
		[]string{"2025-05-07"}},
	{"only current week", func(f *dashboard.Filters) { f.OnlyCurrentWeek = true },
		[]string{"2025-05-05", "2025-05-07", "2025-05-09", "2025-05-10", "2025-05-11"}},
	{"hide leave days", func(f *dashboard.Filters) { f.HideLeaveDays = true },
		[]string{"2025-05-05", "2025-05-07", "2025-05-10", "2025-05-12", "2025-05-15"}},
	{"missing hours", func(f *dashboard.Filters) { f.MissingHours = true },
		[]string{"2025-05-05", "2025-05-07", "2025-05-12"}},
	{"hide weekends", func(f *dashboard.Filters) { f.ShowWeekends = false },
		[]string{"2025-05-05", "2025-05-07", "2025-05-09", "2025-05-11", "2025-05-12", "2025-05-15"}},
}

func visibleKeys(d *dashboard.Dashboard, f dashboard.Filters, now time.Time) []string {
	var keys []string
	for _, key := range filterDays {
		if d.Day(key).VisibleUnder(f, now) {
			keys = append(keys, key)
		}
	}
	return keys
}

func intersect(a, b []string) []string {
	in := map[string]bool{}
	for _, k := range a {
		in[k] = true
	}
	var out []string
	for _, k := range b {
		if in[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func TestFilterComposition(t *testing.T) {
	remote := &fakeRemote{entries: []model.TimeEntry{
		taskEntry("e1", "2025-05-05", hours(2)),
		globalEntry("e2", "2025-05-15", hours(8)),
	}}
	d := newMay(t, remote, dashboard.Options{LeaveDays: []string{"2025-05-09", "2025-05-11"}})
	now := at(2025, time.May, 7)()
	base := dashboard.Filters{ShowWeekends: true}

	if got := visibleKeys(d, base, now); len(got) != len(filterDays) {
		t.Fatalf("no filter active: visible %v", got)
	}

	for _, tg := range toggles {
		f := base
		tg.apply(&f)
		if got := visibleKeys(d, f, now); strings.Join(got, ",") != strings.Join(tg.want, ",") {
			t.Errorf("%s: visible %v, want %v", tg.name, got, tg.want)
		}
	}

	for i := range toggles {
		for j := i + 1; j < len(toggles); j++ {
			a, b := toggles[i], toggles[j]
			t.Run(fmt.Sprintf("%s+%s", a.name, b.name), func(t *testing.T) {
				f := base
				a.apply(&f)
				b.apply(&f)
				want := intersect(a.want, b.want)
				got := visibleKeys(d, f, now)
				if strings.Join(got, ",") != strings.Join(want, ",") {
					t.Errorf("visible %v, want %v", got, want)
				}
			})
		}
	}
}

func TestWeekVisibility(t *testing.T) {
	d := newMay(t, &fakeRemote{}, dashboard.Options{})
	d.SetFilters(dashboard.Filters{OnlyToday: true})
	for _, w := range d.Weeks() {
		want := w.Index() == 1 // May 5 - May 11
		if got := w.IsVisible(); got != want {
			t.Errorf("%s visible = %v, want %v", w.Title(), got, want)
		}
	}
}
