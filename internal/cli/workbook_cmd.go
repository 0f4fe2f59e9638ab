package cli

import (
	"fmt"
	"io"

	"github.com/alexanderramin/ironflow/internal/cli/formatter"
	"github.com/alexanderramin/ironflow/internal/workbook"
	"github.com/spf13/cobra"
)

func newWorkbookCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workbook",
		Short: "Validate and export workbooks",
	}
	cmd.AddCommand(newWorkbookExportCmd(app), newWorkbookValidateCmd())
	return cmd
}

func newWorkbookExportCmd(app *App) *cobra.Command {
	var output string
	format := newEnumValue("yaml", "yaml", "json")

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the workspace as a workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := app.Import.Export(cmd.Context())
			if err != nil {
				return err
			}
			f := workbook.Format(format.value)
			if output != "" && !cmd.Flags().Changed("format") {
				f = workbook.FormatFromPath(output)
			}
			data, err := workbook.Marshal(wb, f)
			if err != nil {
				return err
			}
			return withOutput(cmd, output, func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	cmd.Flags().Var(format, "format", "Workbook encoding (defaults to the output file extension)")
	return cmd
}

func newWorkbookValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a workbook without loading it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := workbook.Load(args[0])
			if err != nil {
				return err
			}
			errs := workbook.Validate(wb)
			out := cmd.OutOrStdout()
			if len(errs) == 0 {
				fmt.Fprintln(out, formatter.StyleGreen.Render("Workbook is valid."))
				return nil
			}
			for _, e := range errs {
				fmt.Fprintf(out, "  %s %s\n", formatter.StyleRed.Render("✗"), e)
			}
			return fmt.Errorf("%d validation error(s)", len(errs))
		},
	}
}
