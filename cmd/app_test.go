package cmd

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Tiliavir/ttdash/internal/api"
	"github.com/Tiliavir/ttdash/internal/dashboard"
	"github.com/Tiliavir/ttdash/internal/model"
	"github.com/Tiliavir/ttdash/internal/storage"
	"github.com/Tiliavir/ttdash/internal/timecalc"
)

func TestParseMonth(t *testing.T) {
	now := time.Date(2025, 5, 7, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		value     string
		wantYear  int
		wantMonth time.Month
		wantErr   bool
	}{
		{"", 2025, time.May, false},
		{"2024-12", 2024, time.December, false},
		{"2025-1", 0, 0, true},
		{"May 2025", 0, 0, true},
	}
	for _, tt := range tests {
		year, month, err := parseMonth(tt.value, now)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseMonth(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			continue
		}
		if year != tt.wantYear || month != tt.wantMonth {
			t.Errorf("parseMonth(%q) = %d-%d, want %d-%d", tt.value, year, month, tt.wantYear, tt.wantMonth)
		}
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&dashboard.ValidationError{Field: "notes", Message: "Notes are required"}, 1},
		{fmt.Errorf("loading: %w", api.ErrNotLoggedIn), 1},
		{&api.HTTPError{Status: 500, StatusText: "Internal Server Error"}, 2},
		{errors.New("disk full"), 2},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestParseDelta(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"+30m", timecalc.Step, false},
		{"-1h", -timecalc.MsPerHour, false},
		{"1h30m", 90 * timecalc.MsPerMinute, false},
		{"+40m", timecalc.Step, false},
		{"-soon", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := parseDelta(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseDelta(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseDelta(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFindRef(t *testing.T) {
	refs := []model.Ref{
		{ID: "p1", Label: "Platform"},
		{ID: "p2", Label: "p1"},
	}
	tests := []struct {
		in     string
		wantID string
		wantOK bool
	}{
		{"p1", "p1", true},
		{"platform", "p1", true},
		{"P1", "p2", true},
		{"missing", "", false},
	}
	for _, tt := range tests {
		got, ok := findRef(refs, tt.in)
		if ok != tt.wantOK || got.ID != tt.wantID {
			t.Errorf("findRef(%q) = %q, %v; want %q, %v", tt.in, got.ID, ok, tt.wantID, tt.wantOK)
		}
	}
}

func TestFilterFlags(t *testing.T) {
	got := filterFlags{}.filters()
	if !got.HideLeaveDays || got.ShowWeekends || got.MissingHours {
		t.Errorf("default flags = %+v", got)
	}
	got = filterFlags{showLeave: true, weekends: true, today: true}.filters()
	if got.HideLeaveDays || !got.ShowWeekends || !got.OnlyToday || got.OnlyCurrentWeek {
		t.Errorf("flags = %+v", got)
	}
}

func TestApplyPref(t *testing.T) {
	tests := []struct {
		key, value string
		check      func(storage.Prefs) bool
		wantErr    bool
	}{
		{"theme", "light", func(p storage.Prefs) bool { return p.Theme == storage.ThemeLight }, false},
		{"theme", "blue", nil, true},
		{"keybindings", "on", func(p storage.Prefs) bool { return p.KeybindingsEnabled }, false},
		{"keybindings", "OFF", func(p storage.Prefs) bool { return !p.KeybindingsEnabled }, false},
		{"keybindings", "maybe", nil, true},
		{"email", "a@b.c", func(p storage.Prefs) bool { return p.Email == "a@b.c" }, false},
		{"colour", "x", nil, true},
	}
	for _, tt := range tests {
		p := storage.DefaultPrefs()
		p.KeybindingsEnabled = true
		err := applyPref(&p, tt.key, tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("applyPref(%s, %s) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			continue
		}
		if tt.check != nil && !tt.check(p) {
			t.Errorf("applyPref(%s, %s) = %+v", tt.key, tt.value, p)
		}
	}
}
