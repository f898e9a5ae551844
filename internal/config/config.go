package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the root configuration for ttdash, stored in ~/.ttdash/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	Runtime  RuntimeConfig  `json:"runtime"`
	Tracking TrackingConfig `json:"tracking"`
	Holidays HolidaysConfig `json:"holidays"`
	Outlook  OutlookConfig  `json:"outlook"`
}

// RuntimeConfig locates the runtime REST API.
type RuntimeConfig struct {
	App string `json:"app"`
	Env string `json:"env"`
	// BaseURL overrides the URL derived from App and Env.
	BaseURL        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// TrackingConfig holds dashboard behaviour.
type TrackingConfig struct {
	// DefaultProject is the project label new entries start with.
	DefaultProject string `json:"default_project"`
	// Timezone is the IANA timezone days are keyed in. Empty = system local.
	Timezone string `json:"timezone"`
}

// HolidaysConfig selects the holiday source.
type HolidaysConfig struct {
	Source           string `json:"source"` // "runtime", "google" or "none"
	Entity           string `json:"entity"`
	GoogleCalendarID string `json:"google_calendar_id"`
	GoogleAPIKey     string `json:"google_api_key"`
}

// OutlookConfig holds Microsoft Graph settings for the leave import.
type OutlookConfig struct {
	// TenantID is the Azure AD tenant. Use "common" for personal/multi-tenant accounts.
	TenantID string `json:"tenant_id"`
	// ClientID is the Azure app (client) ID for the OAuth2 device code flow.
	ClientID string `json:"client_id"`
}

// Holiday sources.
const (
	HolidaysRuntime = "runtime"
	HolidaysGoogle  = "google"
	HolidaysNone    = "none"
)

const (
	DefaultApp            = "solutions"
	DefaultEnv            = "prod"
	DefaultTimeoutSeconds = 30
	DefaultProject        = "Collaborative Work Solutions"
	DefaultHolidaysEntity = "management.holidays"
	DefaultGoogleCalendar = "en.german#holiday@group.v.calendar.google.com"
	// DefaultTenantID is the Microsoft "common" tenant.
	DefaultTenantID = "common"
	// DefaultClientID is the well-known public Azure CLI app ID. It supports
	// device code flow without a client secret.
	DefaultClientID = "04b07795-8542-4c4a-95af-30b2c573d5ab"
)

// Default returns a Config pre-filled with the built-in defaults.
func Default() Config {
	return Config{
		Runtime: RuntimeConfig{
			App:            DefaultApp,
			Env:            DefaultEnv,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Tracking: TrackingConfig{DefaultProject: DefaultProject},
		Holidays: HolidaysConfig{
			Source:           HolidaysRuntime,
			Entity:           DefaultHolidaysEntity,
			GoogleCalendarID: DefaultGoogleCalendar,
		},
		Outlook: OutlookConfig{
			TenantID: DefaultTenantID,
			ClientID: DefaultClientID,
		},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing.
const configTemplate = `// ttdash configuration – ~/.ttdash/config.json
//
// All settings are optional. Every value can also be set through a TTDASH_*
// environment variable or a .env file (current directory, then ~/.ttdash/.env).
{
  // ── Runtime REST API ──────────────────────────────────────────────────────
  "runtime": {
    // The API root is https://<app>.slingrs.io/<env>/runtime/api
    "app": "solutions",
    "env": "prod",

    // Full API root; overrides app and env when set.        (TTDASH_BASE_URL)
    "base_url": "",

    // Bound for a single request, in seconds.        (TTDASH_TIMEOUT_SECONDS)
    "timeout_seconds": 30
  },

  // ── Dashboard ─────────────────────────────────────────────────────────────
  "tracking": {
    // Label of the project new entries start with.   (TTDASH_DEFAULT_PROJECT)
    "default_project": "Collaborative Work Solutions",

    // IANA timezone days are keyed in, e.g. "Europe/Berlin".
    // Leave empty to use the system timezone.               (TTDASH_TIMEZONE)
    "timezone": ""
  },

  // ── Holidays ──────────────────────────────────────────────────────────────
  "holidays": {
    // • "runtime" – the runtime's holidays entity (default)
    // • "google"  – a Google public-holiday calendar
    // • "none"    – no holidays
    "source": "runtime",
    "entity": "management.holidays",
    "google_calendar_id": "en.german#holiday@group.v.calendar.google.com",
    // API key for the Google Calendar API.            (TTDASH_GOOGLE_API_KEY)
    "google_api_key": ""
  },

  // ── Microsoft Graph / Outlook out-of-office import ────────────────────────
  "outlook": {
    // "common" for personal accounts and any organisation, or a tenant GUID.
    "tenant_id": "common",

    // Azure application (client) ID used for the OAuth2 device code flow.
    // The built-in value is the public Azure CLI app – no app registration needed.
    "client_id": "04b07795-8542-4c4a-95af-30b2c573d5ab"
  }
}
`

// Dir returns ~/.ttdash, or $TTDASH_HOME when set.
func Dir() (string, error) {
	if dir := os.Getenv("TTDASH_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".ttdash"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads config.json from dir, creating it with annotated defaults on
// first run. .env files are loaded first and TTDASH_* variables override the
// file.
func Load(dir string) (Config, error) {
	loadDotEnv(dir)

	path := filepath.Join(dir, "config.json")
	cfg, err := readFile(path)
	if err != nil {
		return cfg, err
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	backfill(&cfg)
	return cfg, nil
}

func readFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(stripLineComments(data), &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}
	return cfg, nil
}

// loadDotEnv loads ./.env and <dir>/.env. Variables already set win, and the
// first file wins over the second.
func loadDotEnv(dir string) {
	for _, path := range []string{".env", filepath.Join(dir, ".env")} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not load %s: %v\n", path, err)
		}
	}
}

func applyEnv(cfg *Config) error {
	strs := []struct {
		name string
		dst  *string
	}{
		{"TTDASH_APP", &cfg.Runtime.App},
		{"TTDASH_ENV", &cfg.Runtime.Env},
		{"TTDASH_BASE_URL", &cfg.Runtime.BaseURL},
		{"TTDASH_DEFAULT_PROJECT", &cfg.Tracking.DefaultProject},
		{"TTDASH_TIMEZONE", &cfg.Tracking.Timezone},
		{"TTDASH_HOLIDAYS_SOURCE", &cfg.Holidays.Source},
		{"TTDASH_HOLIDAYS_ENTITY", &cfg.Holidays.Entity},
		{"TTDASH_GOOGLE_CALENDAR_ID", &cfg.Holidays.GoogleCalendarID},
		{"TTDASH_GOOGLE_API_KEY", &cfg.Holidays.GoogleAPIKey},
		{"TTDASH_OUTLOOK_TENANT_ID", &cfg.Outlook.TenantID},
		{"TTDASH_OUTLOOK_CLIENT_ID", &cfg.Outlook.ClientID},
	}
	for _, s := range strs {
		if v, ok := os.LookupEnv(s.name); ok {
			*s.dst = v
		}
	}
	if v, ok := os.LookupEnv("TTDASH_TIMEOUT_SECONDS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TTDASH_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Runtime.TimeoutSeconds = n
	}
	return nil
}

// backfill replaces zero-value fields with built-in defaults so callers
// always get a usable Config even if the file is only partially filled in.
func backfill(cfg *Config) {
	def := Default()
	if cfg.Runtime.App == "" {
		cfg.Runtime.App = def.Runtime.App
	}
	if cfg.Runtime.Env == "" {
		cfg.Runtime.Env = def.Runtime.Env
	}
	if cfg.Runtime.TimeoutSeconds <= 0 {
		cfg.Runtime.TimeoutSeconds = def.Runtime.TimeoutSeconds
	}
	if cfg.Tracking.DefaultProject == "" {
		cfg.Tracking.DefaultProject = def.Tracking.DefaultProject
	}
	if cfg.Holidays.Source == "" {
		cfg.Holidays.Source = def.Holidays.Source
	}
	if cfg.Holidays.Entity == "" {
		cfg.Holidays.Entity = def.Holidays.Entity
	}
	if cfg.Holidays.GoogleCalendarID == "" {
		cfg.Holidays.GoogleCalendarID = def.Holidays.GoogleCalendarID
	}
	if cfg.Outlook.TenantID == "" {
		cfg.Outlook.TenantID = def.Outlook.TenantID
	}
	if cfg.Outlook.ClientID == "" {
		cfg.Outlook.ClientID = def.Outlook.ClientID
	}
}

// Timeout returns the request timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.Runtime.TimeoutSeconds) * time.Second
}

// Location returns the configured timezone, or time.Local.
func (c Config) Location() (*time.Location, error) {
	if c.Tracking.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Tracking.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Tracking.Timezone, err)
	}
	return loc, nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
