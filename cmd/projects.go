package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/ttdash/internal/model"
)

var projectsScope string

var projectsCmd = &cobra.Command{
	Use:   "projects [project]",
	Short: "List your projects, or the tasks or tickets of one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProjects,
}

func init() {
	projectsCmd.Flags().StringVar(&projectsScope, "scope", "task", "Items to list for a project: task or ticket")
}

func runProjects(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a := loadApp()
	a.requireSession()

	projects, err := a.client.ListProjects(ctx, a.sess.User.ID)
	if err != nil {
		fail(err)
	}
	if len(args) == 0 {
		if len(projects) == 0 {
			fmt.Println("No projects found.")
			return nil
		}
		for _, p := range projects {
			fmt.Printf("%-26s %s\n", p.ID, p.Label)
		}
		return nil
	}

	p, ok := findRef(projects, args[0])
	if !ok {
		usageError("unknown project %q", args[0])
	}
	scope := parseScopeFlag(projectsScope)
	if scope == model.ScopeGlobal {
		usageError("--scope must be task or ticket")
	}
	items, err := a.client.ListScopeItems(ctx, scope, p.ID)
	if err != nil {
		fail(err)
	}
	fmt.Printf("%ss of %s\n", scope.Name(), p.Label)
	fmt.Println("--------------------------------")
	if len(items) == 0 {
		fmt.Println("None.")
	}
	for _, it := range items {
		fmt.Printf("%-26s %s\n", it.ID, it.Label)
	}
	return nil
}
