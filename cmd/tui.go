package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/ttdash/internal/dashboard"
	"github.com/Tiliavir/ttdash/internal/storage"
	"github.com/Tiliavir/ttdash/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive dashboard",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a := loadApp()
	d := a.dashboard(ctx, dashboard.DefaultFilters())
	return tui.Run(ctx, d, tui.Options{
		Theme: a.prefs.Theme,
		OnPrefs: func(theme string, keybindings bool) error {
			return a.store.UpdatePrefs(func(p *storage.Prefs) {
				p.Theme = theme
				p.KeybindingsEnabled = keybindings
			})
		},
	})
}
