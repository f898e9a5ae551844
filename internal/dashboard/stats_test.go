package dashboard_test

import (
	"testing"

	"github.com/Tiliavir/ttdash/internal/dashboard"
	"github.com/Tiliavir/ttdash/internal/model"
)

func TestProjectStats(t *testing.T) {
	ticket := model.TimeEntry{
		ID:        "s1",
		Project:   model.Ref{ID: "p2", Label: "Support"},
		Ticket:    &model.Ref{ID: "k1", Label: "Outage"},
		Date:      "2025-05-07",
		TimeSpent: hours(4),
	}
	foreign := model.TimeEntry{
		ID:        "x1",
		Project:   model.Ref{ID: "p9", Label: "Former project"},
		Date:      "2025-05-08",
		TimeSpent: hours(0.5),
	}
	remote := &fakeRemote{
		entries: []model.TimeEntry{
			taskEntry("e1", "2025-05-05", hours(2)),
			globalEntry("g1", "2025-05-06", hours(1)),
			ticket,
			foreign,
		},
		projects: []model.Ref{{ID: "p0", Label: "Idle"}, {ID: "p1", Label: "Platform"}, {ID: "p2", Label: "Support"}},
	}
	d := newMay(t, remote, dashboard.Options{})
	stats := d.Stats()

	wantOrder := []string{"Support", "Platform", "Former project", "Idle"}
	if len(stats.Projects) != len(wantOrder) {
		t.Fatalf("projects = %+v", stats.Projects)
	}
	for i, name := range wantOrder {
		if stats.Projects[i].Name != name {
			t.Errorf("project %d = %s, want %s", i, stats.Projects[i].Name, name)
		}
	}

	support := stats.Projects[0]
	if support.Global != hours(1) || support.Ticket != hours(4) || support.Total != hours(5) {
		t.Errorf("support = %+v", support)
	}
	// 5h of 21 business days.
	if support.Percentage != "2.98%" {
		t.Errorf("support percentage = %s", support.Percentage)
	}

	chart := stats.ProjectChart
	if len(chart.Labels) != 4 || len(chart.Datasets) != 3 {
		t.Fatalf("project chart = %+v", chart)
	}
	if chart.Datasets[2].Label != "Ticket" || chart.Datasets[2].Data[0] != 4 || chart.Datasets[0].Data[2] != 0.5 {
		t.Errorf("project chart datasets = %+v", chart.Datasets)
	}

	if got := len(stats.Scopes); got != 3 {
		t.Fatalf("scopes = %+v", stats.Scopes)
	}
	wantScopes := []model.Scope{model.ScopeGlobal, model.ScopeTask, model.ScopeTicket}
	for i, s := range stats.Scopes {
		if s.Scope != wantScopes[i] || s.Color != dashboard.ScopeColors[s.Scope] {
			t.Errorf("scope %d = %+v", i, s)
		}
	}
	if stats.ScopeChart.Labels[0] != "Global" || stats.ScopeChart.Datasets[0].Data[0] != float64(hours(1.5)) {
		t.Errorf("scope chart = %+v", stats.ScopeChart)
	}
}

func TestStatsFollowFilters(t *testing.T) {
	remote := &fakeRemote{entries: []model.TimeEntry{
		taskEntry("e1", "2025-05-05", hours(2)),
		taskEntry("e2", "2025-05-07", hours(3)),
	}}
	d := newMay(t, remote, dashboard.Options{})
	if got := d.Stats().Total; got != "5h" {
		t.Fatalf("total = %s, want 5h", got)
	}
	d.SetFilters(dashboard.Filters{OnlyToday: true})
	stats := d.Stats()
	if stats.Total != "3h" {
		t.Errorf("total today only = %s, want 3h", stats.Total)
	}
	if stats.BusinessDays != 21 {
		t.Errorf("capacity must count every business day, got %d", stats.BusinessDays)
	}
}
