package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/ttdash/internal/dashboard"
	"github.com/Tiliavir/ttdash/internal/model"
)

// entryFlags are the form fields shared by log and edit.
type entryFlags struct {
	project string
	scope   string
	item    string
	time    string
	notes   string
}

func (f *entryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.project, "project", "", "Project id or name")
	cmd.Flags().StringVar(&f.scope, "scope", "", "Scope: global, task or ticket")
	cmd.Flags().StringVar(&f.item, "item", "", "Task or ticket id or name")
	cmd.Flags().StringVar(&f.time, "time", "", `Time spent, e.g. "1h30m", "1.5h", "45m"`)
	cmd.Flags().StringVar(&f.notes, "notes", "", "Notes")
}

var logFlags entryFlags

var logCmd = &cobra.Command{
	Use:   "log <date>",
	Short: "Log time on a day (YYYY-MM-DD)",
	Args:  cobra.ExactArgs(1),
	RunE:  runLog,
}

func init() {
	logFlags.register(logCmd)
}

// findRef matches an id exactly or a label case-insensitively.
func findRef(refs []model.Ref, s string) (model.Ref, bool) {
	for _, r := range refs {
		if r.ID == s {
			return r, true
		}
	}
	for _, r := range refs {
		if strings.EqualFold(r.Label, s) {
			return r, true
		}
	}
	return model.Ref{}, false
}

func parseScopeFlag(s string) model.Scope {
	scope, ok := model.ParseScope(s)
	if !ok {
		usageError("invalid --scope %q (want global, task or ticket)", s)
	}
	return scope
}

func selectItem(form *dashboard.EntryForm, item string) {
	if item == "" {
		return
	}
	ref, ok := findRef(form.Candidates, item)
	if !ok {
		usageError("no %s %q in project %s", strings.ToLower(form.Scope.Name()), item, form.Project.Label)
	}
	form.SelectItem(ref.ID)
}

func runLog(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a := loadApp()
	d, day := a.loadDay(ctx, args[0])
	if day == nil {
		usageError("no day %s in the loaded month", args[0])
	}

	if logFlags.project != "" {
		p, ok := findRef(d.Projects(), logFlags.project)
		if !ok {
			usageError("unknown project %q (see `ttdash projects`)", logFlags.project)
		}
		if err := day.SetFormProject(ctx, p); err != nil {
			fail(err)
		}
	}
	if logFlags.scope != "" {
		if err := day.SetFormScope(ctx, parseScopeFlag(logFlags.scope)); err != nil {
			fail(err)
		}
	}

	form := day.Form()
	selectItem(form, logFlags.item)
	if logFlags.time != "" {
		form.UpdateTimeFromText(logFlags.time)
	}
	form.Notes = logFlags.notes
	if form.Validate() == nil && !form.IsLoggable() {
		usageError("--notes is required")
	}

	spent := form.TimeText
	if err := day.AddEntry(ctx); err != nil {
		fail(err)
	}
	fmt.Printf("Logged %s on %s. Day total: %s\n", spent, day.Key(), day.Duration())
	return nil
}
