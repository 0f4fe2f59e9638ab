package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/ironflow/internal/domain"
)

// FormatCalendars lists team calendars followed by the global holidays.
func FormatCalendars(teams []domain.TeamCalendar, global []time.Time) string {
	var b strings.Builder

	b.WriteString(Header("Team Calendars") + "\n")
	if len(teams) == 0 {
		b.WriteString(Dim("No team calendars. Unknown teams work Monday through Saturday.") + "\n")
	} else {
		rows := make([][]string, 0, len(teams))
		for _, t := range teams {
			weekdays := t.WorkWeekdays.String()
			if t.WorkWeekdays.Empty() {
				weekdays = StyleRed.Render("none")
			}
			rows = append(rows, []string{t.TeamCode, weekdays, formatDateList(t.Holidays)})
		}
		b.WriteString(RenderTable([]string{"TEAM", "WORK DAYS", "HOLIDAYS"}, rows))
	}

	b.WriteString("\n" + Header("Global Holidays") + "\n")
	if len(global) == 0 {
		b.WriteString(Dim("none") + "\n")
	} else {
		b.WriteString(formatDateList(global) + "\n")
	}
	return b.String()
}

// FormatWalk reports a business-day subtraction.
func FormatWalk(team string, from time.Time, days int, result time.Time) string {
	return fmt.Sprintf("%s %s - %d business day(s) = %s\n",
		Dim(team+":"), domain.FormatDate(from), days, StyleGreen.Render(domain.FormatDate(result)))
}

func formatDateList(dates []time.Time) string {
	if len(dates) == 0 {
		return Dim("-")
	}
	parts := make([]string, len(dates))
	for i, d := range dates {
		parts[i] = domain.FormatDate(d)
	}
	return strings.Join(parts, ", ")
}
