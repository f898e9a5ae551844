package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/ttdash/internal/dashboard"
)

var monthFlags filterFlags

var monthCmd = &cobra.Command{
	Use:     "month",
	Aliases: []string{"list"},
	Short:   "List the month's days and entries",
	Args:    cobra.NoArgs,
	RunE:    runMonth,
}

func init() {
	monthFlags.register(monthCmd)
}

func runMonth(cmd *cobra.Command, args []string) error {
	a := loadApp()
	d := a.loadMonth(context.Background(), monthFlags.month, monthFlags.filters())
	printMonth(d.Snapshot())
	return nil
}

// printMonth prints the visible weeks, days and entries.
func printMonth(v dashboard.MonthView) {
	fmt.Println(v.Title())
	fmt.Println("--------------------------------")
	shown := false
	for _, w := range v.Weeks {
		if !w.Visible {
			continue
		}
		fmt.Printf("%s  (%s)\n", w.Title, w.DateRange)
		for _, day := range w.Days {
			if !day.Visible {
				continue
			}
			shown = true
			fmt.Printf("  %s  %s%s\n", day.Title, day.Duration, dayTags(day))
			for _, e := range day.Entries {
				notes := ""
				if e.Notes != "" {
					notes = "  " + strings.ReplaceAll(e.Notes, "\n", " ")
				}
				fmt.Printf("    %-6s %s · %s · %s  [%s]%s\n", e.Duration, e.Project, e.Scope.Name(), e.Item, e.ID, notes)
			}
		}
	}
	if !shown {
		fmt.Println("No days match the filters.")
	}
}

func dayTags(day dashboard.DayView) string {
	var tags []string
	if day.IsToday {
		tags = append(tags, "today")
	}
	if day.IsHoliday {
		tags = append(tags, day.Holiday)
	}
	if day.IsLeave {
		tags = append(tags, "leave")
	}
	if day.IsMissingTime {
		tags = append(tags, "missing "+day.MissingDuration)
	}
	if len(tags) == 0 {
		return ""
	}
	return "  (" + strings.Join(tags, ", ") + ")"
}
