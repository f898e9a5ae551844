// Package tui is the interactive terminal view of a dashboard.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/Tiliavir/ttdash/internal/dashboard"
)

// DefaultNoticeTTL is how long a notice stays on screen.
const DefaultNoticeTTL = 5 * time.Second

// Options configures a Model.
type Options struct {
	Theme string
	// OnPrefs persists the theme and the keybinding toggle.
	OnPrefs   func(theme string, keybindings bool) error
	NoticeTTL time.Duration
}

// Model is the Bubble Tea model of the dashboard. Remote operations run as
// commands, one at a time; keys other than ctrl+c are ignored meanwhile.
type Model struct {
	ctx    context.Context
	dash   *dashboard.Dashboard
	opts   Options
	theme  string
	styles Styles

	view   dashboard.MonthView
	busy   bool
	help   bool
	editor *editor
	err    error
	timers map[uuid.UUID]bool
	width  int
}

// New creates the model. The month is loaded by Init.
func New(ctx context.Context, dash *dashboard.Dashboard, opts Options) *Model {
	if opts.NoticeTTL <= 0 {
		opts.NoticeTTL = DefaultNoticeTTL
	}
	theme := opts.Theme
	if _, ok := palettes[theme]; !ok {
		theme = "dark"
	}
	return &Model{
		ctx:    ctx,
		dash:   dash,
		opts:   opts,
		theme:  theme,
		styles: NewStyles(theme),
		view:   dash.Snapshot(),
		timers: map[uuid.UUID]bool{},
	}
}

// Run starts the program on the alternate screen and blocks until it quits.
func Run(ctx context.Context, dash *dashboard.Dashboard, opts Options) error {
	_, err := tea.NewProgram(New(ctx, dash, opts), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

type doneMsg struct {
	intents []dashboard.Intent
	err     error
	submit  bool
}

type dismissMsg struct{ id uuid.UUID }

// run marks the model busy and runs fn as a command.
func (m *Model) run(submit bool, fn func(ctx context.Context) ([]dashboard.Intent, error)) tea.Cmd {
	m.busy = true
	ctx := m.ctx
	return func() tea.Msg {
		intents, err := fn(ctx)
		return doneMsg{intents: intents, err: err, submit: submit}
	}
}

func (m *Model) Init() tea.Cmd {
	year, month := m.dash.Month()
	return m.run(false, func(ctx context.Context) ([]dashboard.Intent, error) {
		return nil, m.dash.LoadMonth(ctx, year, month)
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case doneMsg:
		return m, m.done(msg)
	case dismissMsg:
		m.dash.DismissNotice(msg.id)
		delete(m.timers, msg.id)
		return m, m.refresh()
	case tea.KeyMsg:
		return m, m.key(msg)
	}
	return m, nil
}

// refresh takes a new snapshot and schedules the expiry of new notices.
func (m *Model) refresh() tea.Cmd {
	m.view = m.dash.Snapshot()
	var cmds []tea.Cmd
	for _, n := range m.view.Notices {
		if m.timers[n.ID] {
			continue
		}
		m.timers[n.ID] = true
		id := n.ID
		cmds = append(cmds, tea.Tick(m.opts.NoticeTTL, func(time.Time) tea.Msg { return dismissMsg{id: id} }))
	}
	return tea.Batch(cmds...)
}

func (m *Model) done(msg doneMsg) tea.Cmd {
	m.busy = false
	m.err = msg.err
	if msg.submit && msg.err == nil {
		m.editor = nil
	}
	if m.editor != nil {
		m.editor.pull()
	}
	m.apply(msg.intents)
	return m.refresh()
}

func (m *Model) apply(intents []dashboard.Intent) {
	for _, in := range intents {
		switch in.Kind {
		case dashboard.IntentShowHelp:
			m.help = true
		case dashboard.IntentNewEntry:
			if day := m.dash.Day(in.Day); day != nil {
				m.editor = newEditor(day, nil, day.Form())
			}
		case dashboard.IntentEdit:
			if e := m.dash.Entry(in.Entry); e != nil && e.EditForm() != nil {
				m.editor = newEditor(e.Day(), e, e.EditForm())
			}
		}
	}
}

func (m *Model) persist() {
	if m.opts.OnPrefs == nil {
		return
	}
	if err := m.opts.OnPrefs(m.theme, m.view.Keybindings); err != nil {
		m.err = err
	}
}

func (m *Model) key(msg tea.KeyMsg) tea.Cmd {
	k := msg.String()
	if k == "ctrl+c" {
		return tea.Quit
	}
	if m.busy {
		return nil
	}
	if m.help {
		m.help = false
		return nil
	}
	if m.editor != nil {
		return m.editorKey(msg)
	}
	if m.view.PendingRemoval != "" {
		switch k {
		case "y", "enter":
			return m.run(false, func(ctx context.Context) ([]dashboard.Intent, error) {
				return nil, m.dash.ConfirmRemove(ctx)
			})
		case "n", "esc":
			m.dash.CancelRemove()
			return m.refresh()
		}
		return nil
	}

	switch k {
	case "q":
		return tea.Quit
	case "]":
		return m.run(false, func(ctx context.Context) ([]dashboard.Intent, error) {
			return nil, m.dash.NextMonth(ctx)
		})
	case "[":
		return m.run(false, func(ctx context.Context) ([]dashboard.Intent, error) {
			return nil, m.dash.PrevMonth(ctx)
		})
	case "c":
		if w := m.selectedWeek(); w >= 0 {
			m.dash.ToggleWeek(w)
		}
		return m.refresh()
	case "l":
		day := m.dash.Day(m.view.SelectedDay)
		if day == nil {
			return nil
		}
		return m.run(false, func(context.Context) ([]dashboard.Intent, error) {
			return nil, day.ToggleLeave()
		})
	case "b":
		intents := m.dash.SetKeybindings(!m.view.Keybindings)
		cmd := m.refresh()
		m.persist()
		m.apply(intents)
		return cmd
	case "T":
		if m.theme == "dark" {
			m.theme = "light"
		} else {
			m.theme = "dark"
		}
		m.styles = NewStyles(m.theme)
		m.persist()
		return nil
	}

	if f, ok := toggleFilter(m.view.Filters, k); ok {
		m.dash.SetFilters(f)
		return m.refresh()
	}
	if act, ok := dashboard.ActionForKey(k); ok {
		return m.run(false, func(ctx context.Context) ([]dashboard.Intent, error) {
			return m.dash.Dispatch(ctx, act)
		})
	}
	return nil
}

// filterKeys lists the filter toggles in key order.
var filterKeys = []struct {
	key  string
	name string
}{
	{"1", "today"},
	{"2", "this week"},
	{"3", "hide leave"},
	{"4", "missing hours"},
	{"5", "weekends"},
}

func toggleFilter(f dashboard.Filters, key string) (dashboard.Filters, bool) {
	switch key {
	case "1":
		f.OnlyToday = !f.OnlyToday
	case "2":
		f.OnlyCurrentWeek = !f.OnlyCurrentWeek
	case "3":
		f.HideLeaveDays = !f.HideLeaveDays
	case "4":
		f.MissingHours = !f.MissingHours
	case "5":
		f.ShowWeekends = !f.ShowWeekends
	default:
		return f, false
	}
	return f, true
}

func filterOn(f dashboard.Filters, key string) bool {
	switch key {
	case "1":
		return f.OnlyToday
	case "2":
		return f.OnlyCurrentWeek
	case "3":
		return f.HideLeaveDays
	case "4":
		return f.MissingHours
	case "5":
		return f.ShowWeekends
	}
	return false
}

// selectedWeek returns the index of the week holding the selected day, or -1.
func (m *Model) selectedWeek() int {
	for _, w := range m.view.Weeks {
		for _, day := range w.Days {
			if day.Key == m.view.SelectedDay {
				return w.Index
			}
		}
	}
	return -1
}
