package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ttdash",
	Short: "ttdash – a terminal dashboard for runtime time tracking",
	Long: `ttdash shows a month of your time entries on the runtime, week by week and
day by day, and lets you log, edit and remove them. Preferences and the
session are stored in ~/.ttdash/.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(monthCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(stepCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(leaveCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(prefsCmd)
	rootCmd.AddCommand(tuiCmd)
}
