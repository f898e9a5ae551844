package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Tiliavir/ttdash/internal/dashboard"
	"github.com/Tiliavir/ttdash/internal/model"
	"github.com/Tiliavir/ttdash/internal/timecalc"
)

func (m *Model) View() string {
	s := m.styles
	v := m.view

	var b strings.Builder
	b.WriteString(s.Title.Render("ttdash · "+v.Title()) + "\n")
	b.WriteString(m.progressLine() + "\n")
	b.WriteString(m.filterLine() + "\n\n")

	if m.help {
		b.WriteString(m.helpView())
		return b.String()
	}

	for _, w := range v.Weeks {
		if !w.Visible {
			continue
		}
		fold := "▾"
		if w.Collapsed {
			fold = "▸"
		}
		b.WriteString(s.Week.Render(fmt.Sprintf("%s %s  %s", fold, w.Title, w.DateRange)) + "\n")
		if w.Collapsed {
			continue
		}
		for _, day := range w.Days {
			if day.Visible {
				b.WriteString(m.dayView(day))
			}
		}
	}

	if panel := m.panel(); panel != "" {
		b.WriteString("\n" + s.Box.Render(panel) + "\n")
	}
	for _, n := range v.Notices {
		b.WriteString(s.Notice[string(n.Level)].Render("● "+n.Message) + "\n")
	}
	if m.err != nil && len(v.Notices) == 0 {
		b.WriteString(s.Notice["error"].Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n" + s.Muted.Render(m.footer()))
	return b.String()
}

func (m *Model) progressLine() string {
	p := m.view.Progress
	line := fmt.Sprintf("Logged %s   Missing %s   Capacity %s (%d business days)",
		p.Total, p.Missing, timecalc.FormatMs(p.CapacityMs), p.BusinessDays)
	var parts []string
	for _, sc := range p.Scopes {
		parts = append(parts, fmt.Sprintf("%s %s", sc.Name, sc.Percentage))
	}
	if len(parts) > 0 {
		line += "   " + strings.Join(parts, " · ")
	}
	return m.styles.Header.Render(line)
}

func (m *Model) filterLine() string {
	var parts []string
	for _, fk := range filterKeys {
		mark := "[ ]"
		if filterOn(m.view.Filters, fk.key) {
			mark = "[x]"
		}
		parts = append(parts, fmt.Sprintf("%s %s %s", fk.key, mark, fk.name))
	}
	return m.styles.Muted.Render(strings.Join(parts, "  "))
}

func (m *Model) dayView(day dashboard.DayView) string {
	s := m.styles
	v := m.view

	cursor := "  "
	if day.Key == v.SelectedDay && v.Mode != dashboard.ModeNone {
		cursor = "› "
	}
	title := day.Title
	if day.IsToday {
		title += " (today)"
	}
	if day.Key == v.SelectedDay && v.Mode == dashboard.ModeDay {
		title = s.Selected.Render(title)
	}

	dur := day.Duration
	switch day.Class {
	case dashboard.DurationUnder:
		dur = s.Under.Render(dur)
	case dashboard.DurationOver:
		dur = s.Over.Render(dur)
	default:
		dur = s.OK.Render(dur)
	}

	var tags []string
	if day.IsHoliday {
		tags = append(tags, day.Holiday)
	}
	if day.IsLeave {
		tags = append(tags, "leave")
	}
	if day.IsMissingTime {
		tags = append(tags, "missing "+day.MissingDuration)
	}
	line := fmt.Sprintf("%s%-32s %s", cursor, title, dur)
	if len(tags) > 0 {
		line += "  " + s.Tag.Render(strings.Join(tags, ", "))
	}

	var b strings.Builder
	b.WriteString(line + "\n")
	for _, e := range day.Entries {
		marker := "    • "
		text := fmt.Sprintf("%s · %s · %s  %s", e.Project, e.Scope.Name(), e.Item, e.Duration)
		if e.Notes != "" {
			text += "  " + s.Muted.Render(truncate(e.Notes, 48))
		}
		if v.Mode == dashboard.ModeEntry && e.ID == v.SelectedEntry {
			marker = "    › "
			text = s.Selected.Render(text)
		}
		b.WriteString(marker + text + "\n")
	}
	return b.String()
}

func (m *Model) panel() string {
	if m.busy || m.view.Loading {
		return "Loading…"
	}
	if m.editor != nil {
		return m.editorView()
	}
	if id := m.view.PendingRemoval; id != "" {
		for _, e := range m.view.VisibleEntries() {
			if e.ID == id {
				return fmt.Sprintf("Remove %s · %s (%s) on %s? y/n", e.Project, e.Item, e.Duration, e.Date)
			}
		}
		return "Remove the selected entry? y/n"
	}
	return ""
}

func (m *Model) editorView() string {
	e := m.editor
	f := e.form
	heading := "Log time on " + e.day.Title()
	if e.entry != nil {
		heading = "Edit entry of " + e.day.Title()
	}

	project := "(none)"
	if f.Project != nil {
		project = f.Project.Label
	}
	item := model.GlobalLabel
	if f.Scope != model.ScopeGlobal {
		item = "(select)"
		for _, c := range f.Candidates {
			if c.ID == f.ItemID() {
				item = c.Label
			}
		}
		if len(f.Candidates) == 0 {
			item = "(no items)"
		}
	}
	values := [numFields]string{project, f.Scope.Name(), item, e.timeIn.View(), e.notesIn.View()}

	lines := []string{m.styles.Header.Render(heading)}
	for i, name := range fieldNames {
		line := fmt.Sprintf("%-12s %s", name, values[i])
		if i == e.field {
			line = m.styles.Selected.Render(line)
		}
		lines = append(lines, line)
	}
	lines = append(lines, m.styles.Muted.Render("tab/↑↓ field · ←→ change · type notes/time · enter save · esc cancel"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) helpView() string {
	var lines []string
	for _, kb := range dashboard.KeyBindings {
		lines = append(lines, fmt.Sprintf("%-6s %s", kb.Key, kb.Help))
	}
	lines = append(lines,
		"",
		fmt.Sprintf("%-6s %s", "[ ]", "previous / next month"),
		fmt.Sprintf("%-6s %s", "1-5", "toggle filters"),
		fmt.Sprintf("%-6s %s", "c", "fold the selected week"),
		fmt.Sprintf("%-6s %s", "l", "toggle leave on the selected day"),
		fmt.Sprintf("%-6s %s", "b", "toggle keyboard navigation"),
		fmt.Sprintf("%-6s %s", "T", "toggle dark/light theme"),
		fmt.Sprintf("%-6s %s", "q", "quit"),
	)
	return m.styles.Box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)) + "\n"
}

func (m *Model) footer() string {
	if !m.view.Keybindings {
		return "keyboard navigation is off · b to enable · [ ] month · q quit"
	}
	return fmt.Sprintf("%s · h help · q quit", m.view.Mode)
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
