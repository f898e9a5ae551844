package storage_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/Tiliavir/ttdash/internal/model"
	"github.com/Tiliavir/ttdash/internal/storage"
)

func TestLoadPrefsNotExist(t *testing.T) {
	s := storage.New(t.TempDir())
	p, err := s.LoadPrefs()
	if err != nil {
		t.Fatalf("LoadPrefs on missing file: %v", err)
	}
	if p.Theme != storage.ThemeDark || p.KeybindingsEnabled || len(p.LeaveDays) != 0 || p.LeaveDays == nil {
		t.Errorf("defaults = %+v", p)
	}
}

func TestSavePrefsAndLoadPrefs(t *testing.T) {
	base := t.TempDir()
	s := storage.New(base)
	want := storage.Prefs{
		Email:              "ada@example.com",
		LeaveDays:          []string{"2025-05-09"},
		Theme:              storage.ThemeLight,
		KeybindingsEnabled: true,
	}
	if err := s.SavePrefs(want); err != nil {
		t.Fatalf("SavePrefs: %v", err)
	}
	got, err := s.LoadPrefs()
	if err != nil {
		t.Fatalf("LoadPrefs: %v", err)
	}
	if got.Email != want.Email || got.Theme != want.Theme || !got.KeybindingsEnabled ||
		len(got.LeaveDays) != 1 || got.LeaveDays[0] != "2025-05-09" {
		t.Errorf("LoadPrefs = %+v, want %+v", got, want)
	}

	info, err := os.Stat(filepath.Join(base, "state.json"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("state.json mode = %v, want 0600", perm)
	}
	if _, err := os.Stat(filepath.Join(base, "state.json.tmp")); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}

func TestUnknownThemeFallsBackToDark(t *testing.T) {
	base := t.TempDir()
	if err := os.WriteFile(filepath.Join(base, "state.json"), []byte(`{"theme":"solarized"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	p, err := storage.New(base).LoadPrefs()
	if err != nil {
		t.Fatal(err)
	}
	if p.Theme != storage.ThemeDark {
		t.Errorf("theme = %q, want dark", p.Theme)
	}
}

func TestCorruptPrefsAreBackedUp(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	s := storage.New(base)
	if _, err := s.LoadPrefs(); err == nil {
		t.Fatal("LoadPrefs should fail on corrupt JSON")
	}
	if _, err := os.Stat(path + ".corrupt"); err != nil {
		t.Errorf("backup missing: %v", err)
	}
	// The corrupt file is out of the way: the next load starts fresh.
	if _, err := s.LoadPrefs(); err != nil {
		t.Errorf("LoadPrefs after backup: %v", err)
	}
}

func TestSaveLeaveDaysKeepsOtherPrefs(t *testing.T) {
	s := storage.New(t.TempDir())
	if err := s.SavePrefs(storage.Prefs{Email: "ada@example.com", Theme: storage.ThemeLight}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveLeaveDays([]string{"2025-05-09", "2025-05-12"}); err != nil {
		t.Fatal(err)
	}
	p, err := s.LoadPrefs()
	if err != nil {
		t.Fatal(err)
	}
	if p.Email != "ada@example.com" || p.Theme != storage.ThemeLight || len(p.LeaveDays) != 2 {
		t.Errorf("prefs = %+v", p)
	}
}

func TestSession(t *testing.T) {
	s := storage.New(t.TempDir())
	sess, err := s.LoadSession()
	if err != nil || sess != nil {
		t.Fatalf("LoadSession when logged out = %v, %v", sess, err)
	}

	want := storage.Session{
		Token: &oauth2.Token{AccessToken: "tok", TokenType: "Token"},
		User:  model.User{ID: "u1", Email: "ada@example.com"},
	}
	if err := s.SaveSession(want); err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadSession()
	if err != nil || got == nil {
		t.Fatalf("LoadSession = %v, %v", got, err)
	}
	if got.Token.AccessToken != "tok" || got.User.ID != "u1" {
		t.Errorf("session = %+v", got)
	}

	if err := s.ClearSession(); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.LoadSession(); got != nil {
		t.Error("session survived ClearSession")
	}
	if err := s.ClearSession(); err != nil {
		t.Errorf("second ClearSession: %v", err)
	}
}

func TestGraphToken(t *testing.T) {
	s := storage.New(t.TempDir())
	if tok, err := s.LoadGraphToken(); err != nil || tok != nil {
		t.Fatalf("LoadGraphToken without file = %v, %v", tok, err)
	}
	expiry := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := s.SaveGraphToken(&oauth2.Token{AccessToken: "a", RefreshToken: "r", Expiry: expiry}); err != nil {
		t.Fatal(err)
	}
	tok, err := s.LoadGraphToken()
	if err != nil {
		t.Fatal(err)
	}
	if tok.RefreshToken != "r" || !tok.Expiry.Equal(expiry) {
		t.Errorf("token = %+v", tok)
	}
}
