package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/ttdash/internal/timecalc"
)

var (
	statsFlags  filterFlags
	statsFormat string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the month's progress by scope and project",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsFlags.register(statsCmd)
	statsCmd.Flags().StringVar(&statsFormat, "format", "md", "Output format: md, json")
}

func runStats(cmd *cobra.Command, args []string) error {
	a := loadApp()
	d := a.loadMonth(context.Background(), statsFlags.month, statsFlags.filters())
	v := d.Snapshot()
	p := v.Progress

	if statsFormat == "json" {
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "error encoding JSON:", err)
			os.Exit(2)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("%s\n", v.Title())
	fmt.Println("--------------------------------")
	fmt.Printf("Business days: %d\n", p.BusinessDays)
	fmt.Printf("Capacity:      %s\n", timecalc.FormatMs(p.CapacityMs))
	fmt.Printf("Logged:        %s\n", p.Total)
	fmt.Printf("Missing:       %s\n", p.Missing)
	fmt.Println()
	fmt.Println("By scope:")
	for _, s := range p.Scopes {
		fmt.Printf("  %-8s %8s  %s\n", s.Name, s.Duration, s.Percentage)
	}
	if len(p.Projects) > 0 {
		fmt.Println()
		fmt.Println("By project:")
		fmt.Printf("  %-32s %8s %8s %8s %8s  %s\n", "Project", "Global", "Task", "Ticket", "Total", "%")
		for _, pr := range p.Projects {
			fmt.Printf("  %-32s %8s %8s %8s %8s  %s\n", pr.Name,
				timecalc.FormatMs(pr.Global), timecalc.FormatMs(pr.Task),
				timecalc.FormatMs(pr.Ticket), timecalc.FormatMs(pr.Total), pr.Percentage)
		}
	}
	return nil
}
