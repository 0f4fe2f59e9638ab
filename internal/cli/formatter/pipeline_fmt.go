package formatter

import (
	"fmt"

	"github.com/alexanderramin/ironflow/internal/pipeline"
)

// FormatPipeline renders the process list in pipeline order.
func FormatPipeline(p *pipeline.Pipeline) string {
	headers := []string{"#", "PROCESS", "KIND", "TEAM", "DEFAULT DAYS"}
	rows := make([][]string, 0, p.Len())
	for _, s := range p.Steps() {
		days := Dim("-")
		if n := s.DefaultDays(); n > 0 {
			days = fmt.Sprint(n)
		}
		team := s.TeamCode
		if team == "" {
			team = Dim("-")
		}
		rows = append(rows, []string{fmt.Sprint(s.Order), s.Name, KindBadge(s), team, days})
	}
	return Header("Pipeline") + "\n" + RenderTable(headers, rows)
}
