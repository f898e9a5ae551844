package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Tiliavir/ttdash/internal/dashboard"
	"github.com/Tiliavir/ttdash/internal/model"
	"github.com/Tiliavir/ttdash/internal/timecalc"
)

const (
	fieldProject = iota
	fieldScope
	fieldItem
	fieldTime
	fieldNotes
	numFields
)

var fieldNames = [numFields]string{"Project", "Scope", "Task/Ticket", "Time", "Notes"}

// editor edits the new-entry form of a day, or the edit form of an entry
// when entry is set.
type editor struct {
	day   *dashboard.Day
	entry *dashboard.Entry
	form  *dashboard.EntryForm
	field int

	timeIn  textinput.Model
	notesIn textinput.Model
}

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Cursor.SetMode(cursor.CursorStatic)
	return in
}

func newEditor(day *dashboard.Day, entry *dashboard.Entry, form *dashboard.EntryForm) *editor {
	e := &editor{
		day:     day,
		entry:   entry,
		form:    form,
		timeIn:  newInput("1h 30m", 16),
		notesIn: newInput("What did you work on?", 1000),
	}
	e.pull()
	return e
}

// input returns the text input of the focused field, or nil.
func (e *editor) input() *textinput.Model {
	switch e.field {
	case fieldTime:
		return &e.timeIn
	case fieldNotes:
		return &e.notesIn
	}
	return nil
}

// pull copies the form's text values into the inputs.
func (e *editor) pull() {
	if e.timeIn.Value() != e.form.TimeText {
		e.timeIn.SetValue(e.form.TimeText)
	}
	if e.notesIn.Value() != e.form.Notes {
		e.notesIn.SetValue(e.form.Notes)
	}
}

// push copies the inputs into the form.
func (e *editor) push() {
	e.form.TimeText = e.timeIn.Value()
	e.form.Notes = e.notesIn.Value()
}

func (e *editor) focus() {
	e.timeIn.Blur()
	e.notesIn.Blur()
	if in := e.input(); in != nil {
		in.Focus()
	}
}

func (e *editor) setProject(ctx context.Context, p model.Ref) error {
	if e.entry != nil {
		return e.entry.SetEditProject(ctx, p)
	}
	return e.day.SetFormProject(ctx, p)
}

func (e *editor) setScope(ctx context.Context, s model.Scope) error {
	if e.entry != nil {
		return e.entry.SetEditScope(ctx, s)
	}
	return e.day.SetFormScope(ctx, s)
}

func (e *editor) submit(ctx context.Context) error {
	if e.entry != nil {
		return e.entry.SubmitEdit(ctx)
	}
	return e.day.AddEntry(ctx)
}

// move changes the focused field, committing typed time text on the way out.
func (e *editor) move(step int) {
	if e.field == fieldTime {
		e.form.UpdateTimeFromText(e.form.TimeText)
		e.pull()
	}
	e.field = (e.field + step + numFields) % numFields
	e.focus()
}

func cycle(n, idx, step int) int {
	if idx < 0 {
		return 0
	}
	return (idx + step + n) % n
}

func (m *Model) editorKey(msg tea.KeyMsg) tea.Cmd {
	e := m.editor
	f := e.form
	switch k := msg.String(); k {
	case "esc":
		if e.entry != nil {
			e.entry.CancelEdit()
		}
		m.editor = nil
		return m.refresh()
	case "enter":
		if e.field == fieldTime {
			f.UpdateTimeFromText(f.TimeText)
		}
		return m.run(true, func(ctx context.Context) ([]dashboard.Intent, error) {
			return nil, e.submit(ctx)
		})
	case "tab", "down":
		e.move(1)
		return nil
	case "shift+tab", "up":
		e.move(-1)
		return nil
	case "left", "right":
		if e.field == fieldNotes {
			break
		}
		step := 1
		if k == "left" {
			step = -1
		}
		return m.editorChange(step)
	}
	if in := e.input(); in != nil {
		*in, _ = in.Update(msg)
		e.push()
	}
	return nil
}

func (m *Model) editorChange(step int) tea.Cmd {
	e := m.editor
	f := e.form
	switch e.field {
	case fieldProject:
		projects := m.view.Projects
		if len(projects) == 0 {
			return nil
		}
		idx := -1
		for i, p := range projects {
			if f.Project != nil && p.ID == f.Project.ID {
				idx = i
			}
		}
		next := projects[cycle(len(projects), idx, step)]
		return m.run(false, func(ctx context.Context) ([]dashboard.Intent, error) {
			return nil, e.setProject(ctx, next)
		})
	case fieldScope:
		idx := -1
		for i, s := range model.Scopes {
			if s == f.Scope {
				idx = i
			}
		}
		next := model.Scopes[cycle(len(model.Scopes), idx, step)]
		return m.run(false, func(ctx context.Context) ([]dashboard.Intent, error) {
			return nil, e.setScope(ctx, next)
		})
	case fieldItem:
		if len(f.Candidates) == 0 {
			return nil
		}
		idx := -1
		for i, c := range f.Candidates {
			if c.ID == f.ItemID() {
				idx = i
			}
		}
		f.SelectItem(f.Candidates[cycle(len(f.Candidates), idx, step)].ID)
	case fieldTime:
		f.UpdateTimeFromText(f.TimeText)
		f.StepTime(int64(step) * timecalc.Step)
		e.pull()
	}
	return nil
}
