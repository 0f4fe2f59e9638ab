package cli

import (
	"fmt"

	"github.com/alexanderramin/ironflow/internal/calendar"
	"github.com/alexanderramin/ironflow/internal/cli/formatter"
	"github.com/alexanderramin/ironflow/internal/domain"
	"github.com/spf13/cobra"
)

func newCalendarCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Team work weekdays and holidays",
	}
	cmd.AddCommand(
		newCalendarShowCmd(app),
		newCalendarWorkdaysCmd(app),
		newCalendarHolidayCmd(app),
		newCalendarWalkCmd(app),
	)
	return cmd
}

func newCalendarShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [TEAM]",
		Short: "List team calendars and global holidays",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var teams []domain.TeamCalendar
			if len(args) == 1 {
				team, err := app.Calendars.Team(ctx, args[0])
				if err != nil {
					return err
				}
				teams = []domain.TeamCalendar{*team}
			} else {
				var err error
				if teams, err = app.Calendars.Teams(ctx); err != nil {
					return err
				}
			}
			global, err := app.Calendars.GlobalHolidays(ctx)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCalendars(teams, global))
			return nil
		},
	}
}

func newCalendarWorkdaysCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "workdays TEAM DAYS",
		Short:   "Set the work weekdays of a team",
		Example: "  ironflow -w yard.yaml --save calendar workdays painting mon,tue,wed,thu,fri",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mask, err := domain.ParseWeekdayList(args[1])
			if err != nil {
				return err
			}
			if err := app.Calendars.SetWorkWeekdays(cmd.Context(), args[0], mask); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s works %s\n", args[0], mask)
			return nil
		},
	}
}

func newCalendarHolidayCmd(app *App) *cobra.Command {
	var team string
	var remove bool

	cmd := &cobra.Command{
		Use:   "holiday DATE...",
		Short: "Add or remove holidays",
		Long:  "Add holidays for --team, or globally when --team is omitted. --remove deletes them instead.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			scope := "global"
			if team != "" {
				scope = team
			}
			for _, arg := range args {
				d, err := domain.ParseDate(arg)
				if err != nil {
					return err
				}
				var changed bool
				switch {
				case team == "" && remove:
					changed, err = app.Calendars.RemoveGlobalHoliday(ctx, d)
				case team == "":
					changed, err = app.Calendars.AddGlobalHoliday(ctx, d)
				case remove:
					changed, err = app.Calendars.RemoveTeamHoliday(ctx, team, d)
				default:
					changed, err = app.Calendars.AddTeamHoliday(ctx, team, d)
				}
				if err != nil {
					return err
				}

				verb := "Added"
				if remove {
					verb = "Removed"
				}
				if !changed {
					fmt.Fprintln(out, formatter.Dim(fmt.Sprintf("%s holiday %s unchanged", scope, domain.FormatDate(d))))
					continue
				}
				fmt.Fprintf(out, "%s %s holiday %s\n", verb, scope, domain.FormatDate(d))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&team, "team", "", "Team code")
	cmd.Flags().BoolVar(&remove, "remove", false, "Remove the dates instead of adding them")
	return cmd
}

func newCalendarWalkCmd(app *App) *cobra.Command {
	var team string
	var days int
	var from dateValue

	cmd := &cobra.Command{
		Use:   "walk",
		Short: "Subtract business days on a team calendar",
		Long: `Count back from --from: the start date counts when it is a working day,
and the result is the date of the n-th working day counted.`,
		Example: "  ironflow calendar walk --team welding --from 2026-04-30 --days 5",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if from.date.IsZero() {
				return fmt.Errorf("--from is required")
			}
			set, err := app.Calendars.Set(cmd.Context())
			if err != nil {
				return err
			}
			result, err := calendar.SubtractBusinessDaysWithin(from.date, days, set.Resolve(team), app.LookbackDays)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWalk(team, from.date, days, result))
			return nil
		},
	}
	cmd.Flags().StringVar(&team, "team", "", "Team code (unknown teams use the default calendar)")
	cmd.Flags().Var(&from, "from", "Start date (YYYY-MM-DD)")
	cmd.Flags().IntVarP(&days, "days", "n", 1, "Business days to count")
	return cmd
}
