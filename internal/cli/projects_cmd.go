package cli

import (
	"fmt"

	"github.com/alexanderramin/ironflow/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "Registered projects and their blocks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Blocks.Projects(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProjects(projects))
			return nil
		},
	}
	cmd.AddCommand(
		newProjectDurationCmd(app),
		newProjectRemoveCmd(app),
	)
	return cmd
}

func newProjectDurationCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "duration PROJECT PROCESS DAYS",
		Short:   "Set a process duration on every block of a project",
		Long:    "Set a process duration on every block of a project. 0 restores the process default.",
		Example: "  ironflow -w yard.yaml --save projects duration H1 Welding 7",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var days int
			if _, err := fmt.Sscan(args[2], &days); err != nil {
				return fmt.Errorf("invalid days %q", args[2])
			}
			n, err := app.Blocks.ApplyDuration(cmd.Context(), args[0], args[1], days)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s on %d block(s) of %s\n", args[1], n, args[0])
			return nil
		},
	}
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove PROJECT",
		Short: "Delete every block of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := app.Blocks.DeleteProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("project not found: %q", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d block(s) of %s\n", n, args[0])
			return nil
		},
	}
}
