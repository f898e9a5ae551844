package dashboard

import (
	"context"
	"errors"

	"github.com/Tiliavir/ttdash/internal/model"
	"github.com/Tiliavir/ttdash/internal/timecalc"
)

// Entry wraps one remote time entry of a Day.
type Entry struct {
	day  *Day
	rec  model.TimeEntry
	form *EntryForm
}

// ID returns the remote id.
func (e *Entry) ID() string { return e.rec.ID }

// Record returns the entry as last returned by the runtime.
func (e *Entry) Record() model.TimeEntry { return e.rec }

// Day returns the owning day.
func (e *Entry) Day() *Day { return e.day }

// Scope returns the derived scope.
func (e *Entry) Scope() model.Scope { return e.rec.Scope() }

// TimeSpent returns the logged time in milliseconds.
func (e *Entry) TimeSpent() int64 { return e.rec.TimeSpent }

// Duration returns TimeSpent formatted, e.g. "1h30m".
func (e *Entry) Duration() string { return timecalc.FormatMs(e.rec.TimeSpent) }

// EditForm returns the form opened by BeginEdit, or nil.
func (e *Entry) EditForm() *EntryForm { return e.form }

// Update adds delta to the logged time and persists the whole record. The
// entry and its day are reconciled from the stored record. It is a no-op
// when the new time would leave [30m, 8h].
func (e *Entry) Update(ctx context.Context, delta int64) error {
	d := e.day.dash
	defer d.lockOp()()
	return e.update(ctx, delta)
}

func (e *Entry) update(ctx context.Context, delta int64) error {
	next := e.rec.TimeSpent + delta
	if delta == 0 || !timecalc.InEntryBounds(next) {
		return nil
	}
	d := e.day.dash
	done := d.begin()
	defer done()

	upd := model.UpdateFrom(e.rec)
	upd.TimeSpent = next
	var stored model.TimeEntry
	err := d.call(func() (err error) {
		stored, err = d.remote.UpdateTimeEntry(ctx, e.rec.ID, upd)
		return err
	})
	if err != nil {
		return d.fail(err, "Error updating time entry.")
	}
	if err := e.reconcile(ctx, stored); err != nil {
		return err
	}
	d.settle()
	return nil
}

// reconcile replaces the record with the stored one and moves the day total
// by the stored difference. A response without a record re-fetches the day.
func (e *Entry) reconcile(ctx context.Context, stored model.TimeEntry) error {
	if stored.ID == "" {
		return e.day.refetch(ctx)
	}
	old := e.rec.TimeSpent
	e.rec = stored
	e.day.durationMs += stored.TimeSpent - old
	e.day.billableMs += stored.TimeSpent - old
	return nil
}

// BeginEdit opens the edit form with the entry's current values after
// loading the task or ticket candidates of its project.
func (e *Entry) BeginEdit(ctx context.Context) error {
	d := e.day.dash
	defer d.lockOp()()
	return e.beginEdit(ctx)
}

func (e *Entry) beginEdit(ctx context.Context) error {
	d := e.day.dash
	project := d.project(e.rec.Project.ID)
	if project == nil {
		p := e.rec.Project
		project = &p
	}
	f := &EntryForm{
		Project: project,
		Scope:   e.rec.Scope(),
		Notes:   e.rec.Notes,
	}
	f.setTime(e.rec.TimeSpent)
	if err := d.loadCandidates(ctx, f); err != nil {
		return err
	}
	if e.rec.Task != nil {
		f.TaskID = e.rec.Task.ID
	}
	if e.rec.Ticket != nil && f.Scope == model.ScopeTicket {
		f.TicketID = e.rec.Ticket.ID
	}
	e.form = f
	return nil
}

// SetEditProject changes the project of the edit form and reloads candidates.
func (e *Entry) SetEditProject(ctx context.Context, project model.Ref) error {
	d := e.day.dash
	defer d.lockOp()()
	if e.form == nil {
		return errNoEditForm
	}
	p := project
	e.form.Project = &p
	return d.loadCandidates(ctx, e.form)
}

// SetEditScope changes the scope of the edit form, clears the selected item
// and reloads candidates.
func (e *Entry) SetEditScope(ctx context.Context, scope model.Scope) error {
	d := e.day.dash
	defer d.lockOp()()
	if e.form == nil {
		return errNoEditForm
	}
	e.form.Scope = scope
	e.form.TaskID, e.form.TicketID = "", ""
	return d.loadCandidates(ctx, e.form)
}

// CancelEdit discards the edit form.
func (e *Entry) CancelEdit() {
	d := e.day.dash
	defer d.lockOp()()
	e.form = nil
}

var errNoEditForm = errors.New("entry is not being edited")

// SubmitEdit persists the edit form and reconciles the entry and its day.
func (e *Entry) SubmitEdit(ctx context.Context) error {
	d := e.day.dash
	defer d.lockOp()()
	if e.form == nil {
		return errNoEditForm
	}
	if err := e.form.Validate(); err != nil {
		return d.fail(err, "")
	}
	done := d.begin()
	defer done()

	upd := e.form.update()
	var stored model.TimeEntry
	err := d.call(func() (err error) {
		stored, err = d.remote.UpdateTimeEntry(ctx, e.rec.ID, upd)
		return err
	})
	if err != nil {
		return d.fail(err, "Error updating entry.")
	}
	if err := e.reconcile(ctx, stored); err != nil {
		return err
	}
	e.form = nil
	d.settle()
	d.notify(LevelSuccess, "Entry updated successfully.")
	return nil
}

// MarkForRemoval stages the entry for Dashboard.ConfirmRemove.
func (e *Entry) MarkForRemoval() {
	d := e.day.dash
	defer d.lockOp()()
	d.pending = e
}
