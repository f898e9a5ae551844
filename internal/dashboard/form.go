package dashboard

import (
	"strings"

	"github.com/Tiliavir/ttdash/internal/model"
	"github.com/Tiliavir/ttdash/internal/timecalc"
)

// DefaultEntryTime is the time a fresh new-entry form starts with.
const DefaultEntryTime = timecalc.MsPerHour

// EntryForm holds the editable fields of a new or edited time entry.
// Candidates are the tasks or tickets of Project for the current Scope.
type EntryForm struct {
	Project    *model.Ref
	Scope      model.Scope
	TaskID     string
	TicketID   string
	Notes      string
	TimeSpent  int64
	TimeText   string
	Candidates []model.Ref
}

func newEntryForm(project *model.Ref) *EntryForm {
	f := &EntryForm{Project: project}
	f.reset()
	return f
}

// reset restores the defaults after an entry was logged. The project is kept.
func (f *EntryForm) reset() {
	f.Scope = model.ScopeGlobal
	f.TaskID = ""
	f.TicketID = ""
	f.Notes = ""
	f.Candidates = nil
	f.setTime(DefaultEntryTime)
}

func (f *EntryForm) setTime(ms int64) {
	f.TimeSpent = ms
	f.TimeText = timecalc.FormatMs(ms)
}

// UpdateTimeFromText parses text, snaps it to a 30 minute step within
// [30m, 8h] and stores it. Unparseable text only resyncs TimeText.
func (f *EntryForm) UpdateTimeFromText(text string) {
	ms := timecalc.ParseMs(text)
	if ms <= 0 {
		f.TimeText = timecalc.FormatMs(f.TimeSpent)
		return
	}
	snapped := timecalc.SnapToStep(ms)
	if snapped != f.TimeSpent {
		f.setTime(snapped)
		return
	}
	f.TimeText = timecalc.FormatMs(f.TimeSpent)
}

// StepTime adds delta to the time. It reports false and changes nothing when
// the result would leave [30m, 8h].
func (f *EntryForm) StepTime(delta int64) bool {
	next := f.TimeSpent + delta
	if !timecalc.InEntryBounds(next) {
		return false
	}
	f.setTime(next)
	return true
}

// SelectItem sets the task or ticket id matching the form's scope.
func (f *EntryForm) SelectItem(id string) {
	switch f.Scope {
	case model.ScopeTask:
		f.TaskID = id
	case model.ScopeTicket:
		f.TicketID = id
	}
}

// ItemID returns the selected task or ticket id for the form's scope.
func (f *EntryForm) ItemID() string {
	switch f.Scope {
	case model.ScopeTask:
		return f.TaskID
	case model.ScopeTicket:
		return f.TicketID
	}
	return ""
}

// Validate checks the fields the remote API requires.
func (f *EntryForm) Validate() error {
	if f.Project == nil || f.Project.ID == "" {
		return invalid("project", "Please select a project.")
	}
	if f.Scope == model.ScopeTask && f.TaskID == "" {
		return invalid("task", "Please select a task.")
	}
	if f.Scope == model.ScopeTicket && f.TicketID == "" {
		return invalid("ticket", "Please select a ticket.")
	}
	return nil
}

// IsLoggable reports whether the form is complete, notes included.
func (f *EntryForm) IsLoggable() bool {
	return f.Validate() == nil && strings.TrimSpace(f.Notes) != ""
}

func (f *EntryForm) itemRefs() (task, ticket *string) {
	switch f.Scope {
	case model.ScopeTask:
		id := f.TaskID
		task = &id
	case model.ScopeTicket:
		id := f.TicketID
		ticket = &id
	}
	return task, ticket
}

func (f *EntryForm) logRequest(date string) model.LogTimeRequest {
	task, ticket := f.itemRefs()
	return model.LogTimeRequest{
		Project:   f.Project.ID,
		Scope:     f.Scope,
		Task:      task,
		Ticket:    ticket,
		ForMe:     true,
		Date:      date,
		TimeSpent: f.TimeSpent,
		Notes:     f.Notes,
	}
}

func (f *EntryForm) update() model.EntryUpdate {
	task, ticket := f.itemRefs()
	return model.EntryUpdate{
		Project:   f.Project.ID,
		Task:      task,
		Ticket:    ticket,
		TimeSpent: f.TimeSpent,
		Notes:     f.Notes,
	}
}
