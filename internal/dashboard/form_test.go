package dashboard_test

import (
	"errors"
	"testing"

	"github.com/Tiliavir/ttdash/internal/dashboard"
	"github.com/Tiliavir/ttdash/internal/model"
	"github.com/Tiliavir/ttdash/internal/timecalc"
)

func oneHourForm() *dashboard.EntryForm {
	return &dashboard.EntryForm{Scope: model.ScopeGlobal, TimeSpent: timecalc.MsPerHour, TimeText: "1h"}
}

func TestUpdateTimeFromText(t *testing.T) {
	tests := []struct {
		in       string
		wantMs   int64
		wantText string
	}{
		{"2h", hours(2), "2h"},
		{"20h", hours(8), "8h"},
		{"1h 45m", hours(2), "2h"},
		{"1h10m", hours(1), "1h"},
		{"10m", hours(0.5), "30m"},
		{"0.2h", hours(0.5), "30m"},
		{"garbage", hours(1), "1h"},
		{"", hours(1), "1h"},
		{"2.5", hours(2.5), "2h30m"},
	}
	for _, tt := range tests {
		f := oneHourForm()
		f.TimeText = tt.in
		f.UpdateTimeFromText(tt.in)
		if f.TimeSpent != tt.wantMs || f.TimeText != tt.wantText {
			t.Errorf("UpdateTimeFromText(%q) = %d %q, want %d %q", tt.in, f.TimeSpent, f.TimeText, tt.wantMs, tt.wantText)
		}
	}
}

func TestUpdateTimeFromTextAlwaysInBounds(t *testing.T) {
	for minutes := int64(1); minutes <= 48*60; minutes += 7 {
		f := oneHourForm()
		f.UpdateTimeFromText(timecalc.FormatMs(minutes * timecalc.MsPerMinute))
		if !timecalc.InEntryBounds(f.TimeSpent) || f.TimeSpent%timecalc.Step != 0 {
			t.Fatalf("%d minutes stored as %d ms", minutes, f.TimeSpent)
		}
		if timecalc.ParseMs(f.TimeText) != f.TimeSpent {
			t.Fatalf("%d minutes: text %q does not round-trip", minutes, f.TimeText)
		}
	}
}

func TestStepTime(t *testing.T) {
	f := oneHourForm()
	if !f.StepTime(-timecalc.Step) || f.TimeSpent != hours(0.5) || f.TimeText != "30m" {
		t.Fatalf("step down = %d %q", f.TimeSpent, f.TimeText)
	}
	if f.StepTime(-timecalc.Step) || f.TimeSpent != hours(0.5) {
		t.Error("stepped below 30m")
	}
	f.UpdateTimeFromText("8h")
	if f.StepTime(timecalc.Step) || f.TimeSpent != hours(8) {
		t.Error("stepped above 8h")
	}
}

func TestFormValidation(t *testing.T) {
	p := &model.Ref{ID: "p1", Label: "Platform"}
	tests := []struct {
		name      string
		form      dashboard.EntryForm
		wantField string
		loggable  bool
	}{
		{"no project", dashboard.EntryForm{Scope: model.ScopeGlobal, Notes: "x"}, "project", false},
		{"task missing", dashboard.EntryForm{Project: p, Scope: model.ScopeTask, Notes: "x"}, "task", false},
		{"ticket missing", dashboard.EntryForm{Project: p, Scope: model.ScopeTicket, TaskID: "t1", Notes: "x"}, "ticket", false},
		{"no notes", dashboard.EntryForm{Project: p, Scope: model.ScopeGlobal, Notes: "  "}, "", false},
		{"global", dashboard.EntryForm{Project: p, Scope: model.ScopeGlobal, Notes: "x"}, "", true},
		{"ticket", dashboard.EntryForm{Project: p, Scope: model.ScopeTicket, TicketID: "s1", Notes: "x"}, "", true},
	}
	for _, tt := range tests {
		err := tt.form.Validate()
		var vErr *dashboard.ValidationError
		switch {
		case tt.wantField == "" && err != nil:
			t.Errorf("%s: Validate = %v", tt.name, err)
		case tt.wantField != "" && (!errors.As(err, &vErr) || vErr.Field != tt.wantField):
			t.Errorf("%s: Validate = %v, want %s error", tt.name, err, tt.wantField)
		}
		if got := tt.form.IsLoggable(); got != tt.loggable {
			t.Errorf("%s: IsLoggable = %v, want %v", tt.name, got, tt.loggable)
		}
	}
}
