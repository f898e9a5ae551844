package tui

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Tiliavir/ttdash/internal/dashboard"
	"github.com/Tiliavir/ttdash/internal/model"
	"github.com/Tiliavir/ttdash/internal/timecalc"
)

type memRemote struct {
	entries  []model.TimeEntry
	projects []model.Ref
	logged   []model.LogTimeRequest
	deleted  []string

	// entered and release hold ListTimeEntries when set.
	entered chan struct{}
	release chan struct{}
}

func (r *memRemote) ListTimeEntries(context.Context, string, time.Time, time.Time) ([]model.TimeEntry, error) {
	if r.entered != nil {
		r.entered <- struct{}{}
		<-r.release
	}
	return append([]model.TimeEntry(nil), r.entries...), nil
}

func (r *memRemote) ListDayEntries(_ context.Context, _ string, date string) ([]model.TimeEntry, error) {
	var out []model.TimeEntry
	for _, e := range r.entries {
		if e.Date == date {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memRemote) LogTime(_ context.Context, req model.LogTimeRequest) (model.TimeEntry, error) {
	r.logged = append(r.logged, req)
	e := model.TimeEntry{
		ID:        fmt.Sprintf("n%d", len(r.logged)),
		Project:   model.Ref{ID: req.Project, Label: "Platform"},
		Date:      req.Date,
		TimeSpent: req.TimeSpent,
		Notes:     req.Notes,
	}
	r.entries = append(r.entries, e)
	return e, nil
}

func (r *memRemote) UpdateTimeEntry(_ context.Context, id string, upd model.EntryUpdate) (model.TimeEntry, error) {
	for i, e := range r.entries {
		if e.ID == id {
			r.entries[i].TimeSpent = upd.TimeSpent
			r.entries[i].Notes = upd.Notes
			return r.entries[i], nil
		}
	}
	return model.TimeEntry{}, fmt.Errorf("no entry %s", id)
}

func (r *memRemote) DeleteTimeEntry(_ context.Context, id string) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *memRemote) ListProjects(context.Context, string) ([]model.Ref, error) {
	return r.projects, nil
}

func (r *memRemote) ListScopeItems(context.Context, model.Scope, string) ([]model.Ref, error) {
	return []model.Ref{{ID: "t1", Label: "Fix login"}}, nil
}

func newModel(t *testing.T, opts Options) (*Model, *memRemote) {
	t.Helper()
	remote := &memRemote{
		projects: []model.Ref{{ID: "p1", Label: "Platform"}, {ID: "p2", Label: "Support"}},
		entries: []model.TimeEntry{
			{ID: "e1", Project: model.Ref{ID: "p1", Label: "Platform"}, Date: "2025-05-07", TimeSpent: 2 * timecalc.MsPerHour, Notes: "review"},
		},
	}
	dash := dashboard.New(remote, dashboard.Options{
		UserID:             "u1",
		Filters:            dashboard.DefaultFilters(),
		DefaultProject:     "Platform",
		KeybindingsEnabled: true,
		Location:           time.UTC,
		Now:                func() time.Time { return time.Date(2025, 5, 7, 10, 0, 0, 0, time.UTC) },
		Logf:               func(string, ...any) {},
	})
	opts.NoticeTTL = time.Millisecond
	m := New(context.Background(), dash, opts)
	drain(m, m.Init())
	return m, remote
}

// drain runs cmd and every command it leads to. Notice expiry is not
// delivered so that notices can be asserted.
func drain(m *Model, cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case dismissMsg, tea.QuitMsg:
		default:
			_, next := m.Update(msg)
			queue = append(queue, next)
		}
	}
}

func press(m *Model, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "backspace":
			msg = tea.KeyMsg{Type: tea.KeyBackspace}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd := m.Update(msg)
		drain(m, cmd)
	}
}

func lastNotice(m *Model) string {
	n := m.view.Notices
	if len(n) == 0 {
		return ""
	}
	return n[len(n)-1].Message
}

func TestInitLoadsMonth(t *testing.T) {
	m, _ := newModel(t, Options{})
	if m.busy {
		t.Error("still busy after load")
	}
	if m.view.Month != time.May || len(m.view.Weeks) != 5 {
		t.Errorf("view = %v %d weeks", m.view.Month, len(m.view.Weeks))
	}
	out := m.View()
	for _, want := range []string{"May 2025", "Week 2", "Platform · Global · Global to the project  2h"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() lacks %q", want)
		}
	}
}

func TestNavigationKeys(t *testing.T) {
	m, _ := newModel(t, Options{})
	press(m, "j")
	if m.view.Mode != dashboard.ModeDay || m.view.SelectedDay != "2025-05-02" {
		t.Errorf("after j: %v %s", m.view.Mode, m.view.SelectedDay)
	}
	press(m, "t", "enter")
	if m.view.SelectedDay != "2025-05-07" || m.view.Mode != dashboard.ModeEntry || m.view.SelectedEntry != "e1" {
		t.Errorf("after t enter: %v %s %s", m.view.Mode, m.view.SelectedDay, m.view.SelectedEntry)
	}
	press(m, "h")
	if !m.help {
		t.Error("h should open help")
	}
	press(m, "x")
	if m.help {
		t.Error("any key should close help")
	}
}

func TestRemoveWithConfirmation(t *testing.T) {
	m, remote := newModel(t, Options{})
	press(m, "t", "enter", "r")
	if m.view.PendingRemoval != "e1" {
		t.Fatalf("pending = %q", m.view.PendingRemoval)
	}
	if !strings.Contains(m.View(), "y/n") {
		t.Error("confirmation not shown")
	}
	press(m, "n")
	if m.view.PendingRemoval != "" || len(remote.deleted) != 0 {
		t.Fatal("n should cancel")
	}
	press(m, "r", "y")
	if len(remote.deleted) != 1 || remote.deleted[0] != "e1" {
		t.Errorf("deleted = %v", remote.deleted)
	}
	if lastNotice(m) != "Entry removed successfully." {
		t.Errorf("notice = %q", lastNotice(m))
	}
}

func TestAddEntryThroughEditor(t *testing.T) {
	m, remote := newModel(t, Options{})
	press(m, "t", "a")
	if m.editor == nil || m.editor.entry != nil {
		t.Fatal("a should open the new-entry editor")
	}
	// Move to the time field, step it up and type notes.
	press(m, "tab", "tab", "tab", "right", "tab")
	for _, r := range "standup" {
		press(m, string(r))
	}
	press(m, "backspace", "enter")

	if m.editor != nil {
		t.Error("editor should close after a successful submit")
	}
	if len(remote.logged) != 1 {
		t.Fatalf("logged = %v", remote.logged)
	}
	got := remote.logged[0]
	if got.Date != "2025-05-07" || got.Project != "p1" || got.TimeSpent != 90*timecalc.MsPerMinute || got.Notes != "standu" {
		t.Errorf("log request = %+v", got)
	}
	if lastNotice(m) != "Entry logged." {
		t.Errorf("notice = %q", lastNotice(m))
	}
}

func TestEditorNotesMoveCursor(t *testing.T) {
	m, _ := newModel(t, Options{})
	press(m, "t", "a", "tab", "tab", "tab", "tab", "a", "b", "left", "x")
	if got := m.editor.form.Notes; got != "axb" {
		t.Errorf("notes = %q, want axb", got)
	}
	if got := m.editor.form.TimeText; got != "1h" {
		t.Errorf("time text = %q, want untouched 1h", got)
	}
}

func TestEditorKeepsOpenOnValidationError(t *testing.T) {
	m, remote := newModel(t, Options{})
	press(m, "t", "a", "tab", "right")
	if m.editor.form.Scope != model.ScopeTask {
		t.Fatalf("scope = %s", m.editor.form.Scope)
	}
	press(m, "enter")
	if m.editor == nil {
		t.Fatal("editor closed despite a missing task")
	}
	if len(remote.logged) != 0 || lastNotice(m) != "Please select a task." {
		t.Errorf("logged = %v, notice = %q", remote.logged, lastNotice(m))
	}
	press(m, "tab", "right", "enter")
	if m.editor != nil || len(remote.logged) != 1 || *remote.logged[0].Task != "t1" {
		t.Errorf("after selecting a task: editor = %v, logged = %v", m.editor, remote.logged)
	}
}

func TestFilterKeys(t *testing.T) {
	m, _ := newModel(t, Options{})
	press(m, "5")
	if !m.view.Filters.ShowWeekends {
		t.Error("5 should show weekends")
	}
	press(m, "1")
	if !m.view.Filters.OnlyToday || len(m.view.VisibleEntries()) != 1 {
		t.Errorf("only today: filters = %+v", m.view.Filters)
	}
}

func TestBusyIgnoresKeys(t *testing.T) {
	m, _ := newModel(t, Options{})
	m.busy = true
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	if cmd != nil {
		t.Error("keys must be ignored while busy")
	}
}

func TestDismissDuringRemoteCall(t *testing.T) {
	m, remote := newModel(t, Options{})
	press(m, "t", "enter", "r", "y")
	if len(m.view.Notices) == 0 {
		t.Fatal("removal left no notice")
	}
	id := m.view.Notices[0].ID

	remote.entered = make(chan struct{})
	remote.release = make(chan struct{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("]")})
	result := make(chan tea.Msg, 1)
	go func() { result <- cmd() }()
	<-remote.entered

	handled := make(chan struct{})
	go func() {
		m.Update(dismissMsg{id: id})
		close(handled)
	}()
	select {
	case <-handled:
	case <-time.After(2 * time.Second):
		close(remote.release)
		t.Fatal("dismissing a notice waited for the remote call")
	}
	if !m.view.Loading {
		t.Error("snapshot taken during the call should be loading")
	}
	for _, n := range m.view.Notices {
		if n.ID == id {
			t.Error("notice not dismissed")
		}
	}
	if !strings.Contains(m.View(), "Loading") {
		t.Error("loading not shown")
	}

	close(remote.release)
	drain(m, func() tea.Msg { return <-result })
	if m.busy || m.view.Month != time.June {
		t.Errorf("after the call: busy = %v, month = %v", m.busy, m.view.Month)
	}
}

func TestPrefsToggles(t *testing.T) {
	var theme string
	var keys bool
	m, _ := newModel(t, Options{Theme: "dark", OnPrefs: func(th string, kb bool) error {
		theme, keys = th, kb
		return nil
	}})
	press(m, "T")
	if theme != "light" || !keys {
		t.Errorf("after T: theme = %q keys = %v", theme, keys)
	}
	press(m, "b")
	if keys || m.view.Keybindings {
		t.Error("b should turn keyboard navigation off")
	}
	press(m, "j")
	if m.view.SelectedDay != "" {
		t.Errorf("navigation while off selected %q", m.view.SelectedDay)
	}
}
