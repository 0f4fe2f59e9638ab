package cli

import (
	"io"

	"github.com/alexanderramin/ironflow/internal/workbook"
	"github.com/spf13/cobra"
)

func newTemplateCmd(app *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write an empty block sheet for the current pipeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Pipeline.Get(cmd.Context())
			if err != nil {
				return err
			}
			return withOutput(cmd, output, func(w io.Writer) error {
				return workbook.WriteTemplate(w, p)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}
