package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/ironflow/internal/domain"
	"github.com/alexanderramin/ironflow/internal/pipeline"
)

// FormatScheduleTable renders one row per block with a column per work
// process, dates rendered with layout. Spans that fell back to the default
// duration are marked with "*".
func FormatScheduleTable(results []domain.ScheduledBlock, p *pipeline.Pipeline, layout string) string {
	if len(results) == 0 {
		return Dim("No blocks scheduled.") + "\n"
	}

	work := p.WorkProcesses()
	headers := []string{"BLOCK", "WEIGHT", "DEADLINE"}
	for _, proc := range work {
		headers = append(headers, strings.ToUpper(proc.Name))
	}
	headers = append(headers, "PND")

	defaulted := false
	rows := make([][]string, 0, len(results))
	for _, sb := range results {
		row := []string{
			Bold(sb.Block.Label()),
			strconv.FormatFloat(sb.Block.WeightTon, 'f', -1, 64),
			sb.Deadline.Format(layout),
		}
		for _, proc := range work {
			d, ok := sb.Processes[proc.Name]
			if !ok {
				row = append(row, Dim("-"))
				continue
			}
			row = append(row, formatDates(d, proc, layout))
			defaulted = defaulted || d.Defaulted
		}
		if sb.PND != nil {
			row = append(row, StyleYellow.Render(sb.PND.Format(layout)))
		} else {
			row = append(row, Dim("-"))
		}
		rows = append(rows, row)
	}

	out := RenderTable(headers, rows)
	if defaulted {
		out += Dim(fmt.Sprintf("* default duration (%d business days unless configured)", domain.DefaultDurationDays)) + "\n"
	}
	return out
}

func formatDates(d domain.ProcessDates, proc domain.ProcessDefinition, layout string) string {
	style := KindStyle(proc)
	if d.Kind == domain.DatesMilestone {
		return style.Render(d.Date.Format(layout))
	}
	cell := style.Render(d.Start.Format(layout) + "~" + d.End.Format(layout))
	if d.Defaulted {
		cell += Dim("*")
	}
	return cell
}
