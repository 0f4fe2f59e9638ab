package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/alexanderramin/ironflow/internal/cli/formatter"
	"github.com/alexanderramin/ironflow/internal/domain"
	"github.com/alexanderramin/ironflow/internal/service"
	"github.com/spf13/cobra"
)

func newPipelineCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Show and edit the process pipeline",
	}
	cmd.AddCommand(
		newPipelineShowCmd(app),
		newPipelineResetCmd(app),
		newPipelineAddCmd(app),
		newPipelineRemoveCmd(app),
	)
	return cmd
}

func newPipelineShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List the processes in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Pipeline.Get(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPipeline(p))
			return nil
		},
	}
}

func newPipelineResetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default fabrication pipeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			change, err := app.Pipeline.ResetDefault(cmd.Context())
			if err != nil {
				return err
			}
			printPipelineChange(cmd.OutOrStdout(), change)
			return nil
		},
	}
}

func newPipelineAddCmd(app *App) *cobra.Command {
	var team, after string
	var days int
	kind := newEnumValue("duration", "duration", "milestone")

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Insert a process",
		Long:  "Insert a process after --after, or before PND and Delivery when --after is omitted.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Pipeline.Get(ctx)
			if err != nil {
				return err
			}
			k, err := domain.ParseProcessKind(kind.value, days)
			if err != nil {
				return err
			}
			def := domain.ProcessDefinition{Name: args[0], Kind: k, TeamCode: team}
			if def.TeamCode == "" {
				def.TeamCode = strings.ToLower(args[0])
			}

			steps := p.Steps()
			at := len(steps)
			for at > 0 && steps[at-1].Role() != domain.RoleWork {
				at--
			}
			if after != "" {
				prev, ok := p.Lookup(after)
				if !ok {
					return fmt.Errorf("unknown process %q", after)
				}
				at = prev.Order
			}

			defs := make([]domain.ProcessDefinition, 0, len(steps)+1)
			defs = append(defs, steps[:at]...)
			defs = append(defs, def)
			defs = append(defs, steps[at:]...)
			for i := range defs {
				defs[i].Order = i + 1
			}

			change, err := app.Pipeline.Replace(ctx, defs)
			if err != nil {
				return err
			}
			printPipelineChange(cmd.OutOrStdout(), change)
			return nil
		},
	}
	cmd.Flags().Var(kind, "kind", "Process kind")
	cmd.Flags().StringVar(&team, "team", "", "Team code (defaults to the lowercased name)")
	cmd.Flags().StringVar(&after, "after", "", "Insert after this process")
	cmd.Flags().IntVar(&days, "days", 0, "Default duration in business days (0 uses the global default)")
	return cmd
}

func newPipelineRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a process",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Pipeline.Get(ctx)
			if err != nil {
				return err
			}
			target, ok := p.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown process %q", args[0])
			}
			var defs []domain.ProcessDefinition
			for _, s := range p.Steps() {
				if s.Name != target.Name {
					defs = append(defs, s)
				}
			}
			change, err := app.Pipeline.Replace(ctx, defs)
			if err != nil {
				return err
			}
			printPipelineChange(cmd.OutOrStdout(), change)
			return nil
		},
	}
}

func printPipelineChange(w io.Writer, change *service.PipelineChange) {
	fmt.Fprint(w, formatter.FormatPipeline(change.Pipeline))
	if len(change.AddedTeams) > 0 {
		fmt.Fprintf(w, "Added team calendars: %s\n", strings.Join(change.AddedTeams, ", "))
	}
	if len(change.RemovedTeams) > 0 {
		fmt.Fprintf(w, "Removed team calendars: %s\n", strings.Join(change.RemovedTeams, ", "))
	}
}
