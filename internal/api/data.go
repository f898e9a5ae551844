package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/Tiliavir/ttdash/internal/model"
	"github.com/Tiliavir/ttdash/internal/timecalc"
)

// Entity names used by the dashboard.
const (
	TimeTrackingEntity = "timeTracking"
	ProjectsEntity     = "projects"
	TasksEntity        = "dev.tasks"
	TicketsEntity      = "support.tickets"
	HolidaysEntity     = "management.holidays"
)

// PageSize is the _size sent with every listing; a month never holds more.
const PageSize = 1000

// ListOptions are the runtime's sort and pagination parameters, passed
// through verbatim.
type ListOptions struct {
	Size      int
	SortField string
	SortType  string // "asc" or "desc"
	Fields    string // comma-separated _fields projection
}

// Apply writes the options into q.
func (o ListOptions) Apply(q url.Values) url.Values {
	if q == nil {
		q = url.Values{}
	}
	if o.Size > 0 {
		q.Set("_size", strconv.Itoa(o.Size))
	}
	if o.SortField != "" {
		q.Set("_sortField", o.SortField)
	}
	if o.SortType != "" {
		q.Set("_sortType", o.SortType)
	}
	if o.Fields != "" {
		q.Set("_fields", o.Fields)
	}
	return q
}

func dataPath(entity string, rest ...string) string {
	p := "/data/" + entity
	for _, r := range rest {
		p += "/" + url.PathEscape(r)
	}
	return p
}

// ListTimeEntries lists the user's entries dated within [from, to].
func (c *Client) ListTimeEntries(ctx context.Context, userID string, from, to time.Time) ([]model.TimeEntry, error) {
	q := ListOptions{Size: PageSize, SortField: "date", SortType: "asc"}.Apply(url.Values{
		"date":   {timecalc.Between(from, to)},
		"person": {userID},
	})
	var page model.List[model.TimeEntry]
	if err := c.Get(ctx, dataPath(TimeTrackingEntity), q, &page); err != nil {
		return nil, fmt.Errorf("listing time entries: %w", err)
	}
	return page.Items, nil
}

// ListDayEntries lists the user's entries of one ISO date in creation order.
func (c *Client) ListDayEntries(ctx context.Context, userID, date string) ([]model.TimeEntry, error) {
	q := ListOptions{Size: PageSize, SortField: "createdAt", SortType: "asc"}.Apply(url.Values{
		"date":   {date},
		"person": {userID},
	})
	var page model.List[model.TimeEntry]
	if err := c.Get(ctx, dataPath(TimeTrackingEntity), q, &page); err != nil {
		return nil, fmt.Errorf("listing entries of %s: %w", date, err)
	}
	return page.Items, nil
}

// LogTime creates an entry through the logTime action. Runtimes that answer
// the action without a readable record yield a zero TimeEntry; the entry was
// created all the same, so an undecodable record is only warned about.
func (c *Client) LogTime(ctx context.Context, req model.LogTimeRequest) (model.TimeEntry, error) {
	var raw json.RawMessage
	if err := c.Put(ctx, dataPath(TimeTrackingEntity, "logTime"), req, &raw); err != nil {
		return model.TimeEntry{}, fmt.Errorf("logging time: %w", err)
	}
	var created model.TimeEntry
	if len(raw) > 0 && raw[0] == '{' {
		if err := json.Unmarshal(raw, &created); err != nil {
			c.logf("Warning: decoding logTime response: %v", err)
			return model.TimeEntry{}, nil
		}
	}
	return created, nil
}

// UpdateTimeEntry replaces the editable fields of an entry and returns the
// record as stored by the runtime.
func (c *Client) UpdateTimeEntry(ctx context.Context, id string, upd model.EntryUpdate) (model.TimeEntry, error) {
	var updated model.TimeEntry
	if err := c.Put(ctx, dataPath(TimeTrackingEntity, id), upd, &updated); err != nil {
		return model.TimeEntry{}, fmt.Errorf("updating entry %s: %w", id, err)
	}
	return updated, nil
}

// DeleteTimeEntry removes an entry.
func (c *Client) DeleteTimeEntry(ctx context.Context, id string) error {
	if err := c.Delete(ctx, dataPath(TimeTrackingEntity, id), nil); err != nil {
		return fmt.Errorf("deleting entry %s: %w", id, err)
	}
	return nil
}

// ListHolidays lists the holidays of entity dated within [from, to].
func (c *Client) ListHolidays(ctx context.Context, entity string, from, to time.Time) ([]model.Holiday, error) {
	if entity == "" {
		entity = HolidaysEntity
	}
	q := ListOptions{Size: PageSize, SortField: "day", SortType: "asc"}.Apply(url.Values{
		"day": {timecalc.Between(from, to)},
	})
	var page model.List[model.Holiday]
	if err := c.Get(ctx, dataPath(entity), q, &page); err != nil {
		return nil, fmt.Errorf("listing holidays: %w", err)
	}
	return page.Items, nil
}

// ListProjects lists the projects the user is a member of, by name.
func (c *Client) ListProjects(ctx context.Context, userID string) ([]model.Ref, error) {
	q := ListOptions{Size: PageSize, SortField: "name", SortType: "asc"}.Apply(url.Values{
		"members.user": {userID},
	})
	var page model.List[model.Ref]
	if err := c.Get(ctx, dataPath(ProjectsEntity), q, &page); err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return page.Items, nil
}

// ListScopeItems lists the tasks or tickets of a project, newest first.
// Global scope has no items.
func (c *Client) ListScopeItems(ctx context.Context, scope model.Scope, projectID string) ([]model.Ref, error) {
	var entity string
	var opts ListOptions
	switch scope {
	case model.ScopeTask:
		entity = TasksEntity
		opts = ListOptions{Size: PageSize, SortField: "createdAt", SortType: "desc", Fields: "id,label,number"}
	case model.ScopeTicket:
		entity = TicketsEntity
		opts = ListOptions{Size: PageSize, SortField: "draftTimestamp", SortType: "desc", Fields: "id,label,number"}
	default:
		return nil, nil
	}
	q := opts.Apply(url.Values{"project": {projectID}})
	var page model.List[model.Ref]
	if err := c.Get(ctx, dataPath(entity), q, &page); err != nil {
		return nil, fmt.Errorf("listing %s of project %s: %w", entity, projectID, err)
	}
	return page.Items, nil
}
