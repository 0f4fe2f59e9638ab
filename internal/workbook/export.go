package workbook

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/alexanderramin/ironflow/internal/domain"
	"github.com/alexanderramin/ironflow/internal/pipeline"
)

// ResultColumns returns the schedule export header for p: block fields,
// then {name}_start/{name}_end or {name}_date per work process in pipeline
// order, then pnd_date when the pipeline has a PND step.
func ResultColumns(p *pipeline.Pipeline) []string {
	cols := []string{"project_no", "block_no", "weight_ton", "deadline"}
	for _, proc := range p.WorkProcesses() {
		switch proc.Kind.(type) {
		case domain.Duration:
			cols = append(cols, proc.Name+"_start", proc.Name+"_end")
		case domain.Milestone:
			cols = append(cols, proc.Name+"_date")
		}
	}
	if hasPND(p) {
		cols = append(cols, "pnd_date")
	}
	return cols
}

// ResultRow renders sb in ResultColumns order using layout for dates.
func ResultRow(sb domain.ScheduledBlock, p *pipeline.Pipeline, layout string) []string {
	row := []string{
		sb.Block.ProjectNo,
		sb.Block.BlockNo,
		strconv.FormatFloat(sb.Block.WeightTon, 'f', -1, 64),
		sb.Deadline.Format(layout),
	}
	for _, proc := range p.WorkProcesses() {
		d, ok := sb.Processes[proc.Name]
		switch proc.Kind.(type) {
		case domain.Duration:
			if !ok {
				row = append(row, "", "")
				continue
			}
			row = append(row, d.Start.Format(layout), d.End.Format(layout))
		case domain.Milestone:
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, d.Date.Format(layout))
		}
	}
	if hasPND(p) {
		if sb.PND != nil {
			row = append(row, sb.PND.Format(layout))
		} else {
			row = append(row, "")
		}
	}
	return row
}

// WriteResultsCSV writes one row per scheduled block with ISO dates.
func WriteResultsCSV(w io.Writer, results []domain.ScheduledBlock, p *pipeline.Pipeline) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ResultColumns(p)); err != nil {
		return err
	}
	for _, sb := range results {
		if err := cw.Write(ResultRow(sb, p, domain.DateLayout)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ResultRecord is the JSON form of one scheduled block.
type ResultRecord struct {
	ProjectNo string          `json:"project_no"`
	BlockNo   string          `json:"block_no"`
	WeightTon float64         `json:"weight_ton"`
	Deadline  string          `json:"deadline"`
	PNDDate   string          `json:"pnd_date,omitempty"`
	Processes []ProcessRecord `json:"processes"`
}

type ProcessRecord struct {
	Name      string `json:"name"`
	Team      string `json:"team,omitempty"`
	Kind      string `json:"kind"`
	Start     string `json:"start,omitempty"`
	End       string `json:"end,omitempty"`
	Days      int    `json:"days,omitempty"`
	Defaulted bool   `json:"defaulted,omitempty"`
	Date      string `json:"date,omitempty"`
}

// Records converts results into JSON records, processes in pipeline order.
func Records(results []domain.ScheduledBlock, p *pipeline.Pipeline) []ResultRecord {
	out := make([]ResultRecord, 0, len(results))
	for _, sb := range results {
		rec := ResultRecord{
			ProjectNo: sb.Block.ProjectNo,
			BlockNo:   sb.Block.BlockNo,
			WeightTon: sb.Block.WeightTon,
			Deadline:  domain.FormatDate(sb.Deadline),
			Processes: []ProcessRecord{},
		}
		if sb.PND != nil {
			rec.PNDDate = domain.FormatDate(*sb.PND)
		}
		for _, proc := range p.WorkProcesses() {
			d, ok := sb.Processes[proc.Name]
			if !ok {
				continue
			}
			pr := ProcessRecord{Name: proc.Name, Team: proc.TeamCode, Kind: string(d.Kind)}
			switch d.Kind {
			case domain.DatesSpan:
				pr.Start, pr.End = formatOptional(d.Start), formatOptional(d.End)
				pr.Days, pr.Defaulted = d.Days, d.Defaulted
			case domain.DatesMilestone:
				pr.Date = formatOptional(d.Date)
			}
			rec.Processes = append(rec.Processes, pr)
		}
		out = append(out, rec)
	}
	return out
}

// WriteResultsJSON writes results as an indented JSON array.
func WriteResultsJSON(w io.Writer, results []domain.ScheduledBlock, p *pipeline.Pipeline) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Records(results, p))
}

func hasPND(p *pipeline.Pipeline) bool {
	for _, proc := range p.Steps() {
		if proc.Role() == domain.RolePND {
			return true
		}
	}
	return false
}

func formatOptional(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return domain.FormatDate(t)
}
