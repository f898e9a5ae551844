package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/ttdash/internal/dashboard"
	"github.com/Tiliavir/ttdash/internal/timecalc"
)

var leaveCmd = &cobra.Command{
	Use:   "leave",
	Short: "List the stored leave days",
	Args:  cobra.NoArgs,
	RunE:  runLeaveList,
}

var leaveAddCmd = &cobra.Command{
	Use:   "add <date>...",
	Short: "Mark empty working days of one month as leave",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLeaveAdd,
}

var leaveToggleCmd = &cobra.Command{
	Use:   "toggle <date>",
	Short: "Toggle the leave marker of an empty working day",
	Args:  cobra.ExactArgs(1),
	RunE:  runLeaveToggle,
}

func init() {
	leaveCmd.AddCommand(leaveAddCmd)
	leaveCmd.AddCommand(leaveToggleCmd)
	leaveCmd.AddCommand(leaveSyncCmd)
}

func runLeaveList(cmd *cobra.Command, args []string) error {
	a := loadApp()
	if len(a.prefs.LeaveDays) == 0 {
		fmt.Println("No leave days.")
		return nil
	}
	for _, key := range a.prefs.LeaveDays {
		fmt.Println(key)
	}
	return nil
}

// sameMonth exits unless every date key falls into one month and returns it
// as YYYY-MM.
func sameMonth(a *app, keys []string) string {
	month := ""
	for _, key := range keys {
		t, err := timecalc.ParseDateKey(key, a.loc)
		if err != nil {
			usageError("%v", err)
		}
		m := t.Format("2006-01")
		if month != "" && m != month {
			usageError("all dates must be in one month (%s and %s differ)", month, m)
		}
		month = m
	}
	return month
}

// markLeave marks dates in the loaded month and reports the outcome.
func markLeave(d *dashboard.Dashboard, dates []string) {
	added, skipped, err := d.MarkLeave(dates)
	if err != nil {
		fail(err)
	}
	if len(added) > 0 {
		fmt.Printf("Marked as leave: %s\n", strings.Join(added, ", "))
	}
	if len(skipped) > 0 {
		fmt.Fprintf(os.Stderr, "Skipped (already on leave, not an empty working day or outside the month): %s\n",
			strings.Join(skipped, ", "))
	}
	if len(added) == 0 && len(skipped) == 0 {
		fmt.Println("Nothing to mark.")
	}
}

func runLeaveAdd(cmd *cobra.Command, args []string) error {
	a := loadApp()
	month := sameMonth(a, args)
	d := a.loadMonth(context.Background(), month, dashboard.DefaultFilters())
	markLeave(d, args)
	return nil
}

func runLeaveToggle(cmd *cobra.Command, args []string) error {
	a := loadApp()
	_, day := a.loadDay(context.Background(), args[0])
	if day == nil {
		usageError("no day %s in the loaded month", args[0])
	}
	if err := day.ToggleLeave(); err != nil {
		fail(err)
	}
	state := "no longer leave"
	if day.IsLeave() {
		state = "leave"
	}
	fmt.Printf("%s is %s.\n", day.Key(), state)
	return nil
}
