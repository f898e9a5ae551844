package dashboard

import (
	"context"

	"github.com/Tiliavir/ttdash/internal/timecalc"
)

// Mode is the keyboard navigation state.
type Mode int

const (
	ModeNone  Mode = iota // keybindings off or nothing selectable
	ModeDay               // a day is selected
	ModeEntry             // an entry of the selected day is selected
)

func (m Mode) String() string {
	switch m {
	case ModeDay:
		return "day"
	case ModeEntry:
		return "entry"
	default:
		return "none"
	}
}

// Action is a navigation command.
type Action string

const (
	ActNext     Action = "next"
	ActPrev     Action = "prev"
	ActOpen     Action = "open"
	ActEscape   Action = "escape"
	ActFirst    Action = "first"
	ActLast     Action = "last"
	ActAdd      Action = "add"
	ActToday    Action = "today"
	ActEdit     Action = "edit"
	ActRemove   Action = "remove"
	ActIncrease Action = "increase"
	ActDecrease Action = "decrease"
	ActHelp     Action = "help"
)

// KeyBinding documents one key of the navigator.
type KeyBinding struct {
	Key    string
	Action Action
	Help   string
}

// KeyBindings lists the keys in help order.
var KeyBindings = []KeyBinding{
	{"j", ActNext, "next day / entry"},
	{"k", ActPrev, "previous day / entry"},
	{"enter", ActOpen, "select the day's entries"},
	{"esc", ActEscape, "back to day selection"},
	{"g", ActFirst, "first visible day"},
	{"G", ActLast, "last visible day"},
	{"a", ActAdd, "log time on the selected day"},
	{"t", ActToday, "go to today"},
	{"e", ActEdit, "edit the selected entry"},
	{"r", ActRemove, "remove the selected entry"},
	{"+", ActIncrease, "add 30m to the selected entry"},
	{"-", ActDecrease, "subtract 30m from the selected entry"},
	{"h", ActHelp, "show key bindings"},
}

// ActionForKey maps a key name to its action.
func ActionForKey(key string) (Action, bool) {
	switch key {
	case "escape":
		key = "esc"
	case "Enter":
		key = "enter"
	}
	for _, kb := range KeyBindings {
		if kb.Key == key {
			return kb.Action, true
		}
	}
	return "", false
}

// IntentKind tells the presentation layer what to do after an action.
type IntentKind string

const (
	IntentNewEntry      IntentKind = "new-entry"
	IntentEdit          IntentKind = "edit"
	IntentConfirmRemove IntentKind = "confirm-remove"
	IntentScrollToDay   IntentKind = "scroll-to-day"
	IntentScrollToEntry IntentKind = "scroll-to-entry"
	IntentExpandWeek    IntentKind = "expand-week"
	IntentShowHelp      IntentKind = "show-help"
)

// Intent is a side effect requested by the state layer.
type Intent struct {
	Kind  IntentKind
	Day   string // date key
	Entry string // entry id
}

// navigator holds the selection by key so that it survives month reloads.
type navigator struct {
	mode  Mode
	day   string
	entry string
}

// Selection returns the navigation mode and the selected day key and entry id.
func (d *Dashboard) Selection() (Mode, string, string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.nav.mode, d.nav.day, d.nav.entry
}

// KeybindingsEnabled reports whether keyboard navigation is on.
func (d *Dashboard) KeybindingsEnabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.keybindings
}

// SetKeybindings turns keyboard navigation on (selecting the first visible
// day) or off (clearing the selection).
func (d *Dashboard) SetKeybindings(on bool) []Intent {
	defer d.lockOp()()
	d.keybindings = on
	if !on {
		d.nav = navigator{}
		return nil
	}
	return d.activate()
}

func (d *Dashboard) activate() []Intent {
	d.nav.mode = ModeDay
	d.nav.entry = ""
	if d.visibleDay(d.nav.day) == nil {
		d.nav.day = ""
		if days := d.visibleDays(); len(days) > 0 {
			d.nav.day = days[0].key
		}
	}
	if d.nav.day == "" {
		return nil
	}
	return []Intent{{Kind: IntentScrollToDay, Day: d.nav.day}}
}

// visibleDays returns the visible days in calendar order.
func (d *Dashboard) visibleDays() []*Day {
	var days []*Day
	for _, w := range d.weeks {
		for _, day := range w.days {
			if day.IsVisible() {
				days = append(days, day)
			}
		}
	}
	return days
}

func (d *Dashboard) visibleDay(key string) *Day {
	if key == "" {
		return nil
	}
	for _, day := range d.visibleDays() {
		if day.key == key {
			return day
		}
	}
	return nil
}

// reconcileNav re-selects after the tree or the filters changed.
func (d *Dashboard) reconcileNav() {
	if !d.keybindings || d.nav.mode == ModeNone {
		return
	}
	day := d.visibleDay(d.nav.day)
	if day == nil {
		d.nav.mode = ModeDay
		d.nav.day, d.nav.entry = "", ""
		if days := d.visibleDays(); len(days) > 0 {
			d.nav.day = days[0].key
		}
		return
	}
	if d.nav.mode == ModeEntry && d.nav.entry != "" && day.entry(d.nav.entry) == nil {
		d.nav.entry = ""
	}
}

func (d *Dashboard) selectDay(day *Day) []Intent {
	d.nav.day = day.key
	d.nav.entry = ""
	day.week.collapsed = false
	return []Intent{
		{Kind: IntentExpandWeek, Day: day.key},
		{Kind: IntentScrollToDay, Day: day.key},
	}
}

// Dispatch runs a navigation action. It does nothing while keybindings are
// off. Remote failures are returned and recorded as notices.
func (d *Dashboard) Dispatch(ctx context.Context, act Action) ([]Intent, error) {
	defer d.lockOp()()
	if !d.keybindings {
		return nil, nil
	}

	switch act {
	case ActHelp:
		return []Intent{{Kind: IntentShowHelp}}, nil
	case ActFirst, ActLast:
		days := d.visibleDays()
		if len(days) == 0 {
			return nil, nil
		}
		d.nav.mode = ModeDay
		if act == ActFirst {
			return d.selectDay(days[0]), nil
		}
		return d.selectDay(days[len(days)-1]), nil
	}

	if d.nav.mode == ModeNone {
		d.activate()
		if d.nav.day == "" {
			return nil, nil
		}
	}
	if d.nav.mode == ModeEntry {
		return d.entryAction(ctx, act)
	}
	return d.dayAction(ctx, act)
}

func (d *Dashboard) dayAction(ctx context.Context, act Action) ([]Intent, error) {
	days := d.visibleDays()
	if len(days) == 0 {
		return nil, nil
	}
	idx := 0
	for i, day := range days {
		if day.key == d.nav.day {
			idx = i
			break
		}
	}
	d.nav.day = days[idx].key
	current := days[idx]

	switch act {
	case ActNext:
		if idx < len(days)-1 {
			return d.selectDay(days[idx+1]), nil
		}
	case ActPrev:
		if idx > 0 {
			return d.selectDay(days[idx-1]), nil
		}
	case ActAdd:
		return []Intent{{Kind: IntentNewEntry, Day: current.key}}, nil
	case ActOpen:
		d.nav.mode = ModeEntry
		d.nav.entry = ""
		if len(current.entries) > 0 {
			d.nav.entry = current.entries[0].rec.ID
			return []Intent{{Kind: IntentScrollToEntry, Day: current.key, Entry: d.nav.entry}}, nil
		}
	case ActToday:
		return d.goToToday(ctx)
	}
	return nil, nil
}

func (d *Dashboard) entryAction(ctx context.Context, act Action) ([]Intent, error) {
	day := d.visibleDay(d.nav.day)
	if day == nil {
		// The selected day is hidden; fall back to day selection.
		d.nav.mode = ModeDay
		d.nav.entry = ""
		d.reconcileNav()
		if act != ActEscape {
			return d.dayAction(ctx, act)
		}
		if d.nav.day == "" {
			return nil, nil
		}
		return []Intent{{Kind: IntentScrollToDay, Day: d.nav.day}}, nil
	}
	idx := day.indexOf(d.nav.entry)
	var selected *Entry
	if idx >= 0 {
		selected = day.entries[idx]
	}

	scrollTo := func(e *Entry) []Intent {
		d.nav.entry = e.rec.ID
		return []Intent{{Kind: IntentScrollToEntry, Day: day.key, Entry: e.rec.ID}}
	}

	switch act {
	case ActNext:
		if len(day.entries) == 0 {
			return nil, nil
		}
		if idx < 0 {
			return scrollTo(day.entries[0]), nil
		}
		if idx < len(day.entries)-1 {
			return scrollTo(day.entries[idx+1]), nil
		}
	case ActPrev:
		if idx > 0 {
			return scrollTo(day.entries[idx-1]), nil
		}
	case ActEscape:
		d.nav.mode = ModeDay
		d.nav.entry = ""
		return []Intent{{Kind: IntentScrollToDay, Day: day.key}}, nil
	case ActAdd:
		return []Intent{{Kind: IntentNewEntry, Day: day.key}}, nil
	case ActEdit:
		if selected == nil {
			return nil, nil
		}
		if err := selected.beginEdit(ctx); err != nil {
			return nil, err
		}
		return []Intent{{Kind: IntentEdit, Day: day.key, Entry: selected.rec.ID}}, nil
	case ActRemove:
		if selected == nil {
			return nil, nil
		}
		d.pending = selected
		return []Intent{{Kind: IntentConfirmRemove, Day: day.key, Entry: selected.rec.ID}}, nil
	case ActIncrease, ActDecrease:
		if selected == nil {
			return nil, nil
		}
		delta := timecalc.Step
		if act == ActDecrease {
			delta = -delta
		}
		return nil, selected.update(ctx, delta)
	}
	return nil, nil
}
