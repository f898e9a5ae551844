package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/ttdash/internal/dashboard"
	"github.com/Tiliavir/ttdash/internal/msgraph"
	"github.com/Tiliavir/ttdash/internal/timecalc"
)

var (
	leaveSyncMonth  string
	leaveSyncDryRun bool
)

var leaveSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import out-of-office days from the Outlook calendar as leave",
	Args:  cobra.NoArgs,
	RunE:  runLeaveSync,
}

func init() {
	leaveSyncCmd.Flags().StringVar(&leaveSyncMonth, "month", "", "Month to sync (YYYY-MM); defaults to the current month")
	leaveSyncCmd.Flags().BoolVar(&leaveSyncDryRun, "dry-run", false, "Print the out-of-office days without marking them")
}

func runLeaveSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a := loadApp()
	d := a.loadMonth(ctx, leaveSyncMonth, dashboard.DefaultFilters())

	// Without a configured zone Graph answers in UTC, so days are cut in UTC too.
	tz := a.cfg.Tracking.Timezone
	loc := a.loc
	if tz == "" {
		loc = time.UTC
	}
	year, month := d.Month()
	from, to := timecalc.MonthRange(year, month, loc)

	dryTag := ""
	if leaveSyncDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Printf("Reading Outlook out-of-office events (%s → %s)%s...\n",
		timecalc.DateKey(from), timecalc.DateKey(to), dryTag)

	cfg := msgraph.OAuthConfig(a.cfg.Outlook.TenantID, a.cfg.Outlook.ClientID)
	tok, err := msgraph.Authenticate(ctx, cfg, a.store, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Authentication failed: %v\n", err)
		os.Exit(1)
	}
	client := msgraph.NewClient(ctx, tok, cfg, a.store)

	events, err := client.GetCalendarView(ctx, from, to.AddDate(0, 0, 1), tz)
	if err != nil {
		fail(err)
	}
	dates, err := msgraph.LeaveDates(events, loc, from, to)
	if err != nil {
		fail(err)
	}
	if len(dates) == 0 {
		fmt.Println("No out-of-office days found.")
		return nil
	}
	if leaveSyncDryRun {
		fmt.Printf("Out of office: %s\n", strings.Join(dates, ", "))
		return nil
	}
	markLeave(d, dates)
	return nil
}
