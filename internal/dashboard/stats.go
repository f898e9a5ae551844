package dashboard

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Tiliavir/ttdash/internal/model"
	"github.com/Tiliavir/ttdash/internal/timecalc"
)

// ScopeColors are the chart colors of the scopes.
var ScopeColors = map[model.Scope]string{
	model.ScopeGlobal: "rgb(13, 110, 253)",
	model.ScopeTask:   "rgb(25, 135, 84)",
	model.ScopeTicket: "rgb(220, 53, 69)",
}

// ScopeStat is the month's time of one scope.
type ScopeStat struct {
	Scope      model.Scope
	Name       string
	Color      string
	Ms         int64
	Duration   string
	Percentage string // of capacity, e.g. "1.19%"
}

// ProjectStat is the month's time of one project, split by scope.
type ProjectStat struct {
	ID         string
	Name       string
	Global     int64
	Task       int64
	Ticket     int64
	Total      int64
	Percentage string
}

// Dataset is one series of a chart.
type Dataset struct {
	Label  string
	Data   []float64
	Colors []string
}

// Chart is chart-ready data: one label per point, one or more datasets.
type Chart struct {
	Labels   []string
	Datasets []Dataset
}

// MonthProgress is the statistics of the loaded month.
type MonthProgress struct {
	BusinessDays int
	CapacityMs   int64
	TotalMs      int64
	MissingMs    int64
	Total        string
	Missing      string
	Scopes       []ScopeStat
	Projects     []ProjectStat
	ScopeChart   Chart // doughnut of ms per scope
	ProjectChart Chart // stacked bars of hours per project and scope
}

// percentOf renders ms/capacity as a percentage with two decimals.
func percentOf(ms, capacity int64) string {
	p := decimal.NewFromInt(ms).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(capacity))
	return p.StringFixed(2) + "%"
}

func hours(ms int64) float64 {
	return decimal.NewFromInt(ms).Div(decimal.NewFromInt(timecalc.MsPerHour)).InexactFloat64()
}

// recomputeStats rebuilds d.stats from the visible days' entries. Capacity
// counts every business day of the month.
func (d *Dashboard) recomputeStats() {
	var ps MonthProgress
	for _, w := range d.weeks {
		for _, day := range w.days {
			if day.IsBusinessDay() {
				ps.BusinessDays++
			}
		}
	}
	ps.CapacityMs = int64(ps.BusinessDays) * timecalc.WorkdayMs
	if ps.CapacityMs == 0 {
		ps.CapacityMs = 1
	}

	byScope := make(map[model.Scope]int64, len(model.Scopes))
	byProject := make(map[string]*ProjectStat)
	var unlisted []string
	for _, w := range d.weeks {
		for _, day := range w.days {
			if !day.IsVisible() {
				continue
			}
			for _, e := range day.entries {
				ms := e.rec.TimeSpent
				scope := e.rec.Scope()
				byScope[scope] += ms
				ps.TotalMs += ms

				id := e.rec.Project.ID
				p, ok := byProject[id]
				if !ok {
					p = &ProjectStat{ID: id, Name: e.rec.Project.Label}
					byProject[id] = p
					if d.project(id) == nil {
						unlisted = append(unlisted, id)
					}
				}
				switch scope {
				case model.ScopeTask:
					p.Task += ms
				case model.ScopeTicket:
					p.Ticket += ms
				default:
					p.Global += ms
				}
				p.Total += ms
			}
		}
	}

	ps.Total = timecalc.FormatMs(ps.TotalMs)
	ps.MissingMs = max(ps.CapacityMs-ps.TotalMs, 0)
	ps.Missing = timecalc.FormatMs(ps.MissingMs)

	doughnut := Dataset{}
	for _, scope := range model.Scopes {
		ms := byScope[scope]
		if ms <= 0 {
			continue
		}
		ps.Scopes = append(ps.Scopes, ScopeStat{
			Scope:      scope,
			Name:       scope.Name(),
			Color:      ScopeColors[scope],
			Ms:         ms,
			Duration:   timecalc.FormatMs(ms),
			Percentage: percentOf(ms, ps.CapacityMs),
		})
		ps.ScopeChart.Labels = append(ps.ScopeChart.Labels, scope.Name())
		doughnut.Data = append(doughnut.Data, float64(ms))
		doughnut.Colors = append(doughnut.Colors, ScopeColors[scope])
	}
	ps.ScopeChart.Datasets = []Dataset{doughnut}

	// Every member project is listed, with or without time, followed by
	// projects only known from entries.
	for _, ref := range d.projects {
		p, ok := byProject[ref.ID]
		if !ok {
			p = &ProjectStat{ID: ref.ID}
		}
		p.Name = ref.Label
		ps.Projects = append(ps.Projects, *p)
	}
	for _, id := range unlisted {
		ps.Projects = append(ps.Projects, *byProject[id])
	}
	sort.SliceStable(ps.Projects, func(i, j int) bool {
		return ps.Projects[i].Total > ps.Projects[j].Total
	})

	bars := []Dataset{
		{Label: model.ScopeGlobal.Name(), Colors: []string{ScopeColors[model.ScopeGlobal]}},
		{Label: model.ScopeTask.Name(), Colors: []string{ScopeColors[model.ScopeTask]}},
		{Label: model.ScopeTicket.Name(), Colors: []string{ScopeColors[model.ScopeTicket]}},
	}
	for i := range ps.Projects {
		p := &ps.Projects[i]
		p.Percentage = percentOf(p.Total, ps.CapacityMs)
		ps.ProjectChart.Labels = append(ps.ProjectChart.Labels, p.Name)
		bars[0].Data = append(bars[0].Data, hours(p.Global))
		bars[1].Data = append(bars[1].Data, hours(p.Task))
		bars[2].Data = append(bars[2].Data, hours(p.Ticket))
	}
	ps.ProjectChart.Datasets = bars

	d.stats = ps
}

// RecomputeStats recomputes the month statistics.
func (d *Dashboard) RecomputeStats() MonthProgress {
	defer d.lockOp()()
	d.recomputeStats()
	return d.stats
}

// Stats returns the statistics computed after the last change.
func (d *Dashboard) Stats() MonthProgress {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}
