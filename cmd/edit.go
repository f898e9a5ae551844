package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/ttdash/internal/dashboard"
	"github.com/Tiliavir/ttdash/internal/timecalc"
)

var editFlags entryFlags

var editCmd = &cobra.Command{
	Use:   "edit <date> <entry-id>",
	Short: "Change an entry's project, scope, item, time or notes",
	Args:  cobra.ExactArgs(2),
	RunE:  runEdit,
}

var stepCmd = &cobra.Command{
	Use:   "step <date> <entry-id> <delta>",
	Short: `Add or subtract time, e.g. "+30m" or "-1h"`,
	Args:  cobra.ExactArgs(3),
	RunE:  runStep,
}

var rmCmd = &cobra.Command{
	Use:   "rm <date> <entry-id>",
	Short: "Remove an entry",
	Args:  cobra.ExactArgs(2),
	RunE:  runRm,
}

func init() {
	editFlags.register(editCmd)
}

// loadEntry loads the month of date and returns the entry with id.
func loadEntry(ctx context.Context, a *app, date, id string) (*dashboard.Dashboard, *dashboard.Entry) {
	d, day := a.loadDay(ctx, date)
	if day == nil {
		usageError("no day %s in the loaded month", date)
	}
	e := d.Entry(id)
	if e == nil || e.Day().Key() != day.Key() {
		usageError("no entry %s on %s (see `ttdash month`)", id, date)
	}
	return d, e
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a := loadApp()
	d, e := loadEntry(ctx, a, args[0], args[1])

	if err := e.BeginEdit(ctx); err != nil {
		fail(err)
	}
	if editFlags.project != "" {
		p, ok := findRef(d.Projects(), editFlags.project)
		if !ok {
			usageError("unknown project %q (see `ttdash projects`)", editFlags.project)
		}
		if err := e.SetEditProject(ctx, p); err != nil {
			fail(err)
		}
	}
	if editFlags.scope != "" {
		if err := e.SetEditScope(ctx, parseScopeFlag(editFlags.scope)); err != nil {
			fail(err)
		}
	}

	form := e.EditForm()
	selectItem(form, editFlags.item)
	if cmd.Flags().Changed("time") {
		form.UpdateTimeFromText(editFlags.time)
	}
	if cmd.Flags().Changed("notes") {
		form.Notes = editFlags.notes
	}

	if err := e.SubmitEdit(ctx); err != nil {
		fail(err)
	}
	fmt.Printf("Updated %s: %s · %s · %s  %s\n", e.ID(), e.Record().Project.Label,
		e.Scope().Name(), e.Record().ItemLabel(), e.Duration())
	return nil
}

// parseDelta parses a signed duration such as "+30m" or "-1h".
func parseDelta(s string) (int64, error) {
	s = strings.TrimSpace(s)
	sign := int64(1)
	switch {
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	case strings.HasPrefix(s, "-"):
		sign, s = -1, s[1:]
	}
	ms := timecalc.ParseMs(s)
	if ms <= 0 {
		return 0, fmt.Errorf("invalid delta %q (want e.g. +30m or -1h)", s)
	}
	return sign * timecalc.SnapToStep(ms), nil
}

func runStep(cmd *cobra.Command, args []string) error {
	delta, err := parseDelta(args[2])
	if err != nil {
		usageError("%v", err)
	}
	ctx := context.Background()
	a := loadApp()
	_, e := loadEntry(ctx, a, args[0], args[1])

	before := e.TimeSpent()
	if err := e.Update(ctx, delta); err != nil {
		fail(err)
	}
	if e.TimeSpent() == before {
		fmt.Printf("Unchanged: %s would leave %s–%s.\n", e.Duration(),
			timecalc.FormatMs(timecalc.MinEntry), timecalc.FormatMs(timecalc.MaxEntry))
		return nil
	}
	fmt.Printf("%s is now %s. Day total: %s\n", e.ID(), e.Duration(), e.Day().Duration())
	return nil
}

func runRm(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a := loadApp()
	d, e := loadEntry(ctx, a, args[0], args[1])

	e.MarkForRemoval()
	if err := d.ConfirmRemove(ctx); err != nil {
		fail(err)
	}
	fmt.Printf("Removed %s. Day total: %s\n", args[1], e.Day().Duration())
	return nil
}
