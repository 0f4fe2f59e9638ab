package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/ironflow/internal/domain"
	"github.com/alexanderramin/ironflow/internal/scheduler"
)

// DefaultGanttWidth is the number of bar columns drawn by FormatGantt.
const DefaultGanttWidth = 60

// FormatGantt renders chart rows as a table followed by a bar per row.
// Each bar column covers ceil(span/width) calendar days.
func FormatGantt(rows []scheduler.GanttRow, width int) string {
	if len(rows) == 0 {
		return Dim("No processes to chart.") + "\n"
	}
	if width <= 0 {
		width = DefaultGanttWidth
	}

	first, last := rows[0].Start, rows[0].Finish
	for _, r := range rows[1:] {
		if r.Start.Before(first) {
			first = r.Start
		}
		if r.Finish.After(last) {
			last = r.Finish
		}
	}
	span := daysBetween(first, last) + 1
	scale := (span + width - 1) / width

	headers := []string{"TASK", "PROCESS", "START", "FINISH", "DAYS", "BAR"}
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		offset := daysBetween(first, r.Start) / scale
		var bar string
		if r.Milestone {
			bar = strings.Repeat(" ", offset) + StylePurple.Render("◆")
		} else {
			length := max(r.Days/scale, 1)
			bar = strings.Repeat(" ", offset) + StyleBlue.Render(strings.Repeat("█", length))
		}
		table = append(table, []string{
			r.Task,
			r.Process,
			domain.FormatDate(r.Start),
			domain.FormatDate(r.Finish),
			fmt.Sprint(r.Days),
			bar,
		})
	}

	out := RenderTable(headers, table)
	out += Dim(fmt.Sprintf("%s .. %s, 1 column = %d day(s)", domain.FormatDate(first), domain.FormatDate(last), scale)) + "\n"
	return out
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
