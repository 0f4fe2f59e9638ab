package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/ironflow/internal/workbook"
	"github.com/spf13/cobra"
)

// sessionFlags name the files loaded into the in-memory workspace before
// a command runs.
type sessionFlags struct {
	workbookPath string
	blocksPath   string
	save         bool
}

// NewRootCmd creates the top-level "ironflow" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var flags sessionFlags

	root := &cobra.Command{
		Use:   "ironflow",
		Short: "Backward production scheduler for fabrication blocks",
		Long: `ironflow computes deadline-driven schedules for fabrication blocks.

Each invocation works on an in-memory workspace. Load a workbook with
--workbook and block sheets with --blocks; pass --save to write changes
back to the workbook.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadSession(cmd.Context(), app, flags)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if !flags.save {
				return nil
			}
			if flags.workbookPath == "" {
				return fmt.Errorf("--save requires --workbook")
			}
			if err := saveWorkbook(cmd.Context(), app, flags.workbookPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Saved workspace to %s\n", flags.workbookPath)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.workbookPath, "workbook", "w", "", "Workbook file (YAML or JSON) to load")
	pf.StringVarP(&flags.blocksPath, "blocks", "b", "", "Block sheet (CSV) to register after loading")
	pf.BoolVar(&flags.save, "save", false, "Write the workspace back to --workbook after the command")

	root.AddCommand(
		newScheduleCmd(app),
		newPipelineCmd(app),
		newCalendarCmd(app),
		newProjectsCmd(app),
		newTemplateCmd(app),
		newWorkbookCmd(app),
		newSummaryCmd(app),
	)
	return root
}

func loadSession(ctx context.Context, app *App, flags sessionFlags) error {
	if err := app.Pipeline.EnsureDefaults(ctx); err != nil {
		return fmt.Errorf("preparing workspace: %w", err)
	}
	if flags.workbookPath != "" {
		if _, err := app.Import.ImportWorkbook(ctx, flags.workbookPath); err != nil {
			return err
		}
	}
	if flags.blocksPath != "" {
		f, err := os.Open(flags.blocksPath)
		if err != nil {
			return fmt.Errorf("opening block sheet: %w", err)
		}
		defer f.Close()
		if _, err := app.Import.ImportBlocks(ctx, f); err != nil {
			return fmt.Errorf("importing %s: %w", flags.blocksPath, err)
		}
	}
	return nil
}

func saveWorkbook(ctx context.Context, app *App, path string) error {
	wb, err := app.Import.Export(ctx)
	if err != nil {
		return err
	}
	data, err := workbook.Marshal(wb, workbook.FormatFromPath(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// withOutput runs write against the file at path, or against the command's
// output when path is empty.
func withOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
