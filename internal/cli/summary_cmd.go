package cli

import (
	"fmt"

	"github.com/alexanderramin/ironflow/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSummaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Count what the workspace holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.Summary.Summary(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSummary(s))
			return nil
		},
	}
}
