package scheduler

import (
	"time"

	"github.com/alexanderramin/ironflow/internal/domain"
	"github.com/alexanderramin/ironflow/internal/pipeline"
)

// GanttRow is one bar of a Gantt chart.
type GanttRow struct {
	Task      string // project-block label
	Process   string
	Start     time.Time
	Finish    time.Time
	Days      int // calendar days, inclusive
	Milestone bool
}

// GanttRows flattens scheduled blocks into chart rows, in block order and
// then pipeline order. Sentinel processes are not charted.
func GanttRows(results []domain.ScheduledBlock, p *pipeline.Pipeline) []GanttRow {
	work := p.WorkProcesses()
	rows := make([]GanttRow, 0, len(results)*len(work))
	for _, sb := range results {
		for _, proc := range work {
			dates, ok := sb.Processes[proc.Name]
			if !ok {
				continue
			}
			row := GanttRow{
				Task:      sb.Block.Label(),
				Process:   proc.Name,
				Start:     dates.First(),
				Finish:    dates.Last(),
				Milestone: dates.Kind == domain.DatesMilestone,
			}
			row.Days = int(row.Finish.Sub(row.Start).Hours()/24) + 1
			rows = append(rows, row)
		}
	}
	return rows
}

// EarliestStart returns the first date any process of sb occupies, or the
// deadline when nothing was computed.
func EarliestStart(sb domain.ScheduledBlock) time.Time {
	earliest := sb.Deadline
	for _, d := range sb.Processes {
		if first := d.First(); first.Before(earliest) {
			earliest = first
		}
	}
	if sb.PND != nil && sb.PND.Before(earliest) {
		earliest = *sb.PND
	}
	return earliest
}
