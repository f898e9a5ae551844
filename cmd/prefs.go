package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/ttdash/internal/storage"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show the stored preferences",
	Args:  cobra.NoArgs,
	RunE:  runPrefs,
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <theme|keybindings|email> <value>",
	Short: "Change a preference",
	Args:  cobra.ExactArgs(2),
	RunE:  runPrefsSet,
}

func init() {
	prefsCmd.AddCommand(prefsSetCmd)
}

func runPrefs(cmd *cobra.Command, args []string) error {
	a := loadApp()
	p := a.prefs
	fmt.Printf("Theme:       %s\n", p.Theme)
	fmt.Printf("Keybindings: %s\n", onOff(p.KeybindingsEnabled))
	fmt.Printf("Email:       %s\n", p.Email)
	fmt.Printf("Leave days:  %d\n", len(p.LeaveDays))
	if a.sess != nil {
		fmt.Printf("Session:     %s\n", a.sess.User.DisplayName())
	} else {
		fmt.Println("Session:     none")
	}
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// applyPref sets one preference from its textual value.
func applyPref(p *storage.Prefs, key, value string) error {
	switch key {
	case "theme":
		if value != storage.ThemeDark && value != storage.ThemeLight {
			return fmt.Errorf("theme must be %s or %s", storage.ThemeDark, storage.ThemeLight)
		}
		p.Theme = value
	case "keybindings":
		switch strings.ToLower(value) {
		case "on", "true", "yes", "1":
			p.KeybindingsEnabled = true
		case "off", "false", "no", "0":
			p.KeybindingsEnabled = false
		default:
			return fmt.Errorf("keybindings must be on or off")
		}
	case "email":
		p.Email = value
	default:
		return fmt.Errorf("unknown preference %q (want theme, keybindings or email)", key)
	}
	return nil
}

func runPrefsSet(cmd *cobra.Command, args []string) error {
	a := loadApp()
	p := a.prefs
	if err := applyPref(&p, args[0], args[1]); err != nil {
		usageError("%v", err)
	}
	if err := a.store.SavePrefs(p); err != nil {
		fail(err)
	}
	fmt.Printf("%s set to %s.\n", args[0], args[1])
	return nil
}
