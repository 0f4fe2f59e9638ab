package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/ironflow/internal/domain"
	"github.com/alexanderramin/ironflow/internal/service"
)

// FormatSummary renders the workspace counters in a box.
func FormatSummary(s *service.WorkspaceSummary) string {
	var b strings.Builder
	line := func(label string, value any) {
		fmt.Fprintf(&b, "%s %v\n", Dim(fmt.Sprintf("%-10s", label)), value)
	}
	line("Processes", s.ProcessCount)
	line("Teams", s.TeamCount)
	line("Projects", s.ProjectCount)
	line("Blocks", s.BlockCount)
	line("Holidays", s.HolidayCount)
	if s.LatestRun != nil {
		line("Last run", s.LatestRun.Format("2006-01-02 15:04"))
	}
	return RenderBox("Workspace", strings.TrimRight(b.String(), "\n")) + "\n"
}

// FormatProjects lists project summaries.
func FormatProjects(projects []domain.ProjectSummary) string {
	if len(projects) == 0 {
		return Dim("No projects registered.") + "\n"
	}
	headers := []string{"PROJECT", "BLOCKS", "WEIGHT (T)", "FIRST DEADLINE", "LAST DEADLINE"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			Bold(p.ProjectNo),
			fmt.Sprint(p.BlockCount),
			strconv.FormatFloat(p.TotalWeightTon, 'f', 1, 64),
			domain.FormatDate(p.EarliestDeadline),
			domain.FormatDate(p.LatestDeadline),
		})
	}
	return RenderTable(headers, rows)
}
