package model

import "strings"

// Ref is a remote reference entity as the runtime embeds it in records
// (project, task, ticket, user, country ...).
type Ref struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Scope classifies what a time entry was spent on.
type Scope string

const (
	ScopeGlobal Scope = "global"
	ScopeTask   Scope = "task"
	ScopeTicket Scope = "supportTicket"
)

// Scopes lists every scope in display order.
var Scopes = []Scope{ScopeGlobal, ScopeTask, ScopeTicket}

// Name returns the short human name of the scope.
func (s Scope) Name() string {
	switch s {
	case ScopeTask:
		return "Task"
	case ScopeTicket:
		return "Ticket"
	default:
		return "Global"
	}
}

// ParseScope accepts the wire value or the short name, case-insensitively.
func ParseScope(s string) (Scope, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "global", "":
		return ScopeGlobal, true
	case "task":
		return ScopeTask, true
	case "supportticket", "ticket":
		return ScopeTicket, true
	}
	return "", false
}

// GlobalLabel is shown in place of a work item for global entries.
const GlobalLabel = "Global to the project"

// TimeEntry is one record of the timeTracking entity.
type TimeEntry struct {
	ID        string `json:"id"`
	Project   Ref    `json:"project"`
	Task      *Ref   `json:"task,omitempty"`
	Ticket    *Ref   `json:"ticket,omitempty"`
	Date      string `json:"date"`
	TimeSpent int64  `json:"timeSpent"`
	Notes     string `json:"notes"`
	CreateDay string `json:"createDay,omitempty"`
}

// Scope derives the entry's scope: a task wins over a ticket, neither means global.
func (e TimeEntry) Scope() Scope {
	switch {
	case e.Task != nil:
		return ScopeTask
	case e.Ticket != nil:
		return ScopeTicket
	default:
		return ScopeGlobal
	}
}

// ItemLabel returns the task or ticket label, or GlobalLabel.
func (e TimeEntry) ItemLabel() string {
	switch {
	case e.Task != nil:
		return e.Task.Label
	case e.Ticket != nil:
		return e.Ticket.Label
	default:
		return GlobalLabel
	}
}

// ItemID returns the id of the task or ticket, or "" for global entries.
func (e TimeEntry) ItemID() string {
	switch {
	case e.Task != nil:
		return e.Task.ID
	case e.Ticket != nil:
		return e.Ticket.ID
	default:
		return ""
	}
}

// LogTimeRequest is the payload of the timeTracking/logTime action.
type LogTimeRequest struct {
	Project   string  `json:"project"`
	Scope     Scope   `json:"scope"`
	Task      *string `json:"task"`
	Ticket    *string `json:"ticket"`
	ForMe     bool    `json:"forMe"`
	Date      string  `json:"date"`
	TimeSpent int64   `json:"timeSpent"`
	Notes     string  `json:"notes"`
}

// EntryUpdate is the payload of a timeTracking record update. Task and Ticket
// are always sent so that a scope change clears the other reference.
type EntryUpdate struct {
	Project   string  `json:"project"`
	Task      *string `json:"task"`
	Ticket    *string `json:"ticket"`
	TimeSpent int64   `json:"timeSpent"`
	Notes     string  `json:"notes"`
}

// UpdateFrom builds a full update payload from an existing record.
func UpdateFrom(e TimeEntry) EntryUpdate {
	u := EntryUpdate{
		Project:   e.Project.ID,
		TimeSpent: e.TimeSpent,
		Notes:     e.Notes,
	}
	if e.Task != nil {
		id := e.Task.ID
		u.Task = &id
	}
	if e.Ticket != nil {
		id := e.Ticket.ID
		u.Ticket = &id
	}
	return u
}
