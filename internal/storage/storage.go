package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"

	"github.com/Tiliavir/ttdash/internal/model"
)

// Theme names.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Prefs are the client-only preferences.
type Prefs struct {
	Email              string   `json:"email,omitempty"`
	LeaveDays          []string `json:"leave_days"`
	Theme              string   `json:"theme"`
	KeybindingsEnabled bool     `json:"keybindings_enabled"`
}

// DefaultPrefs returns the preferences of a fresh install.
func DefaultPrefs() Prefs {
	return Prefs{LeaveDays: []string{}, Theme: ThemeDark}
}

// Session is the stored runtime login.
type Session struct {
	Token *oauth2.Token `json:"token"`
	User  model.User    `json:"user"`
}

// Store reads and writes the JSON files below a base directory.
type Store struct {
	base string
}

// New returns a store rooted at base.
func New(base string) *Store {
	return &Store{base: base}
}

// Base returns the root directory.
func (s *Store) Base() string { return s.base }

func (s *Store) prefsPath() string   { return filepath.Join(s.base, "state.json") }
func (s *Store) sessionPath() string { return filepath.Join(s.base, "auth", "session.json") }
func (s *Store) graphPath() string   { return filepath.Join(s.base, "auth", "msgraph_tokens.json") }

// readJSON decodes path into v. It reports false when the file does not
// exist. A file that cannot be decoded is moved aside to <path>.corrupt.
func readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("storage error reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return false, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", path, backupPath, err)
	}
	return true, nil
}

// writeJSON atomically writes v to path with 0600 permissions.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// LoadPrefs returns the stored preferences, or the defaults when none exist.
// Missing fields are back-filled with defaults.
func (s *Store) LoadPrefs() (Prefs, error) {
	p := DefaultPrefs()
	if _, err := readJSON(s.prefsPath(), &p); err != nil {
		return DefaultPrefs(), err
	}
	if p.Theme != ThemeLight {
		p.Theme = ThemeDark
	}
	if p.LeaveDays == nil {
		p.LeaveDays = []string{}
	}
	return p, nil
}

// SavePrefs writes the preferences.
func (s *Store) SavePrefs(p Prefs) error {
	return writeJSON(s.prefsPath(), p)
}

// UpdatePrefs loads the preferences, applies fn and saves the result.
func (s *Store) UpdatePrefs(fn func(*Prefs)) error {
	p, err := s.LoadPrefs()
	if err != nil {
		return err
	}
	fn(&p)
	return s.SavePrefs(p)
}

// SaveLeaveDays replaces the stored leave days.
func (s *Store) SaveLeaveDays(days []string) error {
	return s.UpdatePrefs(func(p *Prefs) {
		p.LeaveDays = append([]string{}, days...)
	})
}

// LoadSession returns the stored login, or nil when logged out.
func (s *Store) LoadSession() (*Session, error) {
	var sess Session
	ok, err := readJSON(s.sessionPath(), &sess)
	if err != nil || !ok || sess.Token == nil || sess.Token.AccessToken == "" {
		return nil, err
	}
	return &sess, nil
}

// SaveSession stores the login.
func (s *Store) SaveSession(sess Session) error {
	return writeJSON(s.sessionPath(), sess)
}

// ClearSession forgets the login. It is not an error to be logged out.
func (s *Store) ClearSession() error {
	if err := os.Remove(s.sessionPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage error removing session: %w", err)
	}
	return nil
}

// LoadGraphToken returns the stored Microsoft Graph token, or nil.
func (s *Store) LoadGraphToken() (*oauth2.Token, error) {
	var tok oauth2.Token
	ok, err := readJSON(s.graphPath(), &tok)
	if err != nil || !ok {
		return nil, err
	}
	return &tok, nil
}

// SaveGraphToken stores the Microsoft Graph token.
func (s *Store) SaveGraphToken(tok *oauth2.Token) error {
	return writeJSON(s.graphPath(), tok)
}
