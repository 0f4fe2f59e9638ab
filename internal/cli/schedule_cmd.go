package cli

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/alexanderramin/ironflow/internal/cli/formatter"
	"github.com/alexanderramin/ironflow/internal/domain"
	"github.com/alexanderramin/ironflow/internal/pipeline"
	"github.com/alexanderramin/ironflow/internal/scheduler"
	"github.com/alexanderramin/ironflow/internal/service"
	"github.com/alexanderramin/ironflow/internal/workbook"
	"github.com/spf13/cobra"
)

// calendarOverrides are one-off calendar edits applied before a run.
type calendarOverrides struct {
	holidays     dateListValue
	teamHolidays teamDatesValue
	workdays     teamWeekdaysValue
}

func (o *calendarOverrides) register(cmd *cobra.Command) {
	cmd.Flags().Var(&o.holidays, "holiday", "Global holiday (YYYY-MM-DD, repeatable or comma separated)")
	cmd.Flags().Var(&o.teamHolidays, "team-holiday", "Team holiday as team=YYYY-MM-DD[,...] (repeatable)")
	cmd.Flags().Var(&o.workdays, "workdays", "Team work weekdays as team=mon,tue,... (repeatable)")
}

func (o *calendarOverrides) apply(ctx context.Context, cals service.CalendarService) error {
	for _, d := range o.holidays.dates {
		if _, err := cals.AddGlobalHoliday(ctx, d); err != nil {
			return err
		}
	}
	for _, e := range o.teamHolidays.entries {
		for _, d := range e.dates {
			if _, err := cals.AddTeamHoliday(ctx, e.team, d); err != nil {
				return err
			}
		}
	}
	for _, e := range o.workdays.entries {
		if err := cals.SetWorkWeekdays(ctx, e.team, e.mask); err != nil {
			return err
		}
	}
	return nil
}

func newScheduleCmd(app *App) *cobra.Command {
	var (
		overrides calendarOverrides
		projects  []string
		output    string
	)
	format := newEnumValue("table", "table", "csv", "json", "gantt")

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Compute the backward schedule of every block",
		Long: `Compute process dates backward from each block's deadline.

Calendar flags apply to this run only unless --save is given.`,
		Example: `  ironflow -w yard.yaml schedule
  ironflow -w yard.yaml schedule --holiday 2026-05-05 --workdays painting=mon,tue,wed,thu,fri
  ironflow -w yard.yaml -b h2.csv schedule --project H2 --format csv -o h2-schedule.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := overrides.apply(ctx, app.Calendars); err != nil {
				return err
			}

			var spin *formatter.Spinner
			if app.interactive() {
				spin = formatter.NewSpinner(cmd.ErrOrStderr(), "Scheduling blocks...")
				spin.Start()
			}
			run, err := app.Schedule.Run(ctx, service.RunOptions{Projects: projects})
			if spin != nil {
				spin.Stop()
			}
			if err != nil {
				return err
			}

			p, err := pipeline.New(run.Pipeline)
			if err != nil {
				return err
			}
			results := slices.Clone(run.Blocks)
			scheduler.CanonicalSort(results)

			return withOutput(cmd, output, func(w io.Writer) error {
				return writeSchedule(w, format.value, results, p, app.DateLayout)
			})
		},
	}

	overrides.register(cmd)
	cmd.Flags().StringSliceVar(&projects, "project", nil, "Only schedule these projects (repeatable)")
	cmd.Flags().VarP(format, "format", "f", "Output format")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

func writeSchedule(w io.Writer, format string, results []domain.ScheduledBlock, p *pipeline.Pipeline, layout string) error {
	switch format {
	case "csv":
		return workbook.WriteResultsCSV(w, results, p)
	case "json":
		return workbook.WriteResultsJSON(w, results, p)
	case "gantt":
		_, err := fmt.Fprint(w, formatter.FormatGantt(scheduler.GanttRows(results, p), formatter.DefaultGanttWidth))
		return err
	default:
		_, err := fmt.Fprint(w, formatter.FormatScheduleTable(results, p, layout))
		return err
	}
}
