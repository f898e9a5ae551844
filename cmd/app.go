package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/ttdash/internal/api"
	"github.com/Tiliavir/ttdash/internal/config"
	"github.com/Tiliavir/ttdash/internal/dashboard"
	"github.com/Tiliavir/ttdash/internal/holidays"
	"github.com/Tiliavir/ttdash/internal/storage"
	"github.com/Tiliavir/ttdash/internal/timecalc"
)

// app bundles what every command needs: configuration, local state and the
// runtime client.
type app struct {
	cfg    config.Config
	store  *storage.Store
	prefs  storage.Prefs
	sess   *storage.Session
	client *api.Client
	loc    *time.Location
}

// exitCode maps an error to the process exit status: 1 for input and
// authentication problems, 2 for storage and remote failures.
func exitCode(err error) int {
	var vErr *dashboard.ValidationError
	var authErr *api.AuthError
	if errors.As(err, &vErr) || errors.As(err, &authErr) {
		return 1
	}
	return 2
}

// fail prints err and exits.
func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(exitCode(err))
}

// usageError prints a message about bad input and exits with 1.
func usageError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func loadApp() *app {
	dir, err := config.Dir()
	if err != nil {
		fail(err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		fail(err)
	}
	loc, err := cfg.Location()
	if err != nil {
		usageError("%v", err)
	}

	store := storage.New(dir)
	prefs, err := store.LoadPrefs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	sess, err := store.LoadSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	baseURL := cfg.Runtime.BaseURL
	if baseURL == "" {
		baseURL = api.BaseURL(cfg.Runtime.App, cfg.Runtime.Env)
	}
	opts := []api.Option{api.WithHTTPClient(&http.Client{Timeout: cfg.Timeout()})}
	if sess != nil {
		opts = append(opts, api.WithToken(sess.Token))
	}

	return &app{
		cfg:    cfg,
		store:  store,
		prefs:  prefs,
		sess:   sess,
		client: api.NewClient(baseURL, opts...),
		loc:    loc,
	}
}

// requireSession exits unless a login is stored.
func (a *app) requireSession() {
	if a.sess == nil {
		usageError("Not logged in. Run `ttdash login` first.")
	}
}

func (a *app) holidaySource(ctx context.Context) dashboard.HolidaySource {
	h := a.cfg.Holidays
	switch h.Source {
	case config.HolidaysGoogle:
		g, err := holidays.NewGoogle(ctx, h.GoogleCalendarID, h.GoogleAPIKey)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Google holidays unavailable: %v\n", err)
			return holidays.None{}
		}
		return g
	case config.HolidaysNone:
		return holidays.None{}
	default:
		return holidays.Runtime{Client: a.client, Entity: h.Entity}
	}
}

// dashboard builds the dashboard of the logged-in user. A rejected session
// is forgotten so that the next command asks for a login.
func (a *app) dashboard(ctx context.Context, filters dashboard.Filters) *dashboard.Dashboard {
	a.requireSession()
	return dashboard.New(a.client, dashboard.Options{
		UserID:             a.sess.User.ID,
		Holidays:           a.holidaySource(ctx),
		LeaveDays:          a.prefs.LeaveDays,
		LeaveStore:         a.store,
		Filters:            filters,
		DefaultProject:     a.cfg.Tracking.DefaultProject,
		KeybindingsEnabled: a.prefs.KeybindingsEnabled,
		Location:           a.loc,
		OnAuthError: func(error) {
			if err := a.store.ClearSession(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			}
			fmt.Fprintln(os.Stderr, "Session expired. Run `ttdash login` again.")
		},
	})
}

// loadMonth creates the dashboard and loads the month named by value
// (YYYY-MM, empty for the current month).
func (a *app) loadMonth(ctx context.Context, value string, filters dashboard.Filters) *dashboard.Dashboard {
	year, month, err := parseMonth(value, time.Now().In(a.loc))
	if err != nil {
		usageError("%v", err)
	}
	d := a.dashboard(ctx, filters)
	if err := d.LoadMonth(ctx, year, month); err != nil {
		fail(err)
	}
	return d
}

// loadDay loads the month holding the date key and returns its day.
func (a *app) loadDay(ctx context.Context, key string) (*dashboard.Dashboard, *dashboard.Day) {
	date, err := timecalc.ParseDateKey(key, a.loc)
	if err != nil {
		usageError("%v", err)
	}
	d := a.loadMonth(ctx, date.Format("2006-01"), dashboard.DefaultFilters())
	return d, d.Day(key)
}

// parseMonth parses YYYY-MM; an empty value means the month of now.
func parseMonth(value string, now time.Time) (int, time.Month, error) {
	if value == "" {
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse("2006-01", value)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q (want YYYY-MM): %w", value, err)
	}
	return t.Year(), t.Month(), nil
}

// filterFlags are the view filters shared by the listing commands.
type filterFlags struct {
	month     string
	today     bool
	week      bool
	showLeave bool
	missing   bool
	weekends  bool
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.month, "month", "", "Month to show (YYYY-MM); defaults to the current month")
	cmd.Flags().BoolVar(&f.today, "today", false, "Only today")
	cmd.Flags().BoolVar(&f.week, "week", false, "Only the current week")
	cmd.Flags().BoolVar(&f.showLeave, "show-leave", false, "Include leave days")
	cmd.Flags().BoolVar(&f.missing, "missing", false, "Only business days with missing hours")
	cmd.Flags().BoolVar(&f.weekends, "weekends", false, "Include weekends")
}

func (f filterFlags) filters() dashboard.Filters {
	return dashboard.Filters{
		OnlyToday:       f.today,
		OnlyCurrentWeek: f.week,
		HideLeaveDays:   !f.showLeave,
		MissingHours:    f.missing,
		ShowWeekends:    f.weekends,
	}
}
