package workbook

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/ironflow/internal/domain"
	"github.com/alexanderramin/ironflow/internal/pipeline"
	"github.com/google/uuid"
)

// Contents is a converted workbook, ready to be loaded into a workspace.
type Contents struct {
	Pipeline       *pipeline.Pipeline
	Teams          []domain.TeamCalendar
	GlobalHolidays []time.Time
	Blocks         []domain.Block
}

// Convert transforms a validated workbook into domain values.
// Call Validate first; Convert assumes the workbook is valid.
func Convert(wb *Workbook) (*Contents, error) {
	p, err := convertPipeline(wb.Processes)
	if err != nil {
		return nil, err
	}
	out := &Contents{Pipeline: p}

	for _, t := range wb.Teams {
		c := domain.TeamCalendar{TeamCode: strings.TrimSpace(t.Code), WorkWeekdays: domain.DefaultWorkWeekdays}
		if len(t.WorkWeekdays) > 0 {
			c.WorkWeekdays = 0
			for _, w := range t.WorkWeekdays {
				d, err := domain.ParseWeekday(string(w))
				if err != nil {
					return nil, fmt.Errorf("team %q: %w", c.TeamCode, err)
				}
				c.WorkWeekdays |= domain.NewWeekdayMask(d)
			}
		}
		for _, h := range t.Holidays {
			d, err := domain.ParseDate(h)
			if err != nil {
				return nil, fmt.Errorf("team %q: %w", c.TeamCode, err)
			}
			c.AddHoliday(d)
		}
		out.Teams = append(out.Teams, c)
	}

	for _, h := range wb.GlobalHolidays {
		d, err := domain.ParseDate(h)
		if err != nil {
			return nil, fmt.Errorf("global holiday: %w", err)
		}
		out.GlobalHolidays = append(out.GlobalHolidays, d)
	}
	out.GlobalHolidays = domain.SortDates(out.GlobalHolidays)

	now := time.Now().UTC()
	for _, proj := range wb.Projects {
		for _, be := range proj.Blocks {
			deadline, err := domain.ParseDate(be.Deadline)
			if err != nil {
				return nil, fmt.Errorf("block %s-%s: %w", proj.ProjectNo, be.BlockNo, err)
			}
			b := domain.Block{
				ID:        uuid.New().String(),
				ProjectNo: strings.TrimSpace(proj.ProjectNo),
				BlockNo:   strings.TrimSpace(be.BlockNo),
				WeightTon: be.Weight,
				Deadline:  deadline,
				Durations: make(map[string]int),
				CreatedAt: now,
				UpdatedAt: now,
			}
			for name, raw := range be.Durations {
				proc, ok := p.Lookup(name)
				if !ok {
					return nil, fmt.Errorf("block %s: unknown process %q", b.Label(), name)
				}
				if days, ok := domain.CoerceDurationDays(string(raw)); ok {
					b.SetDuration(proc.Name, days)
				}
			}
			out.Blocks = append(out.Blocks, b)
		}
	}
	return out, nil
}

func convertPipeline(entries []ProcessEntry) (*pipeline.Pipeline, error) {
	if len(entries) == 0 {
		return pipeline.Default(), nil
	}
	defs := make([]domain.ProcessDefinition, 0, len(entries))
	for _, e := range entries {
		defaultDays := 0
		if e.DefaultDays != nil {
			defaultDays = *e.DefaultDays
		}
		kind, err := domain.ParseProcessKind(e.Kind, defaultDays)
		if err != nil {
			return nil, fmt.Errorf("process %q: %w", e.Name, err)
		}
		defs = append(defs, domain.ProcessDefinition{
			Name:     e.Name,
			Kind:     kind,
			Order:    e.Order,
			TeamCode: e.Team,
		})
	}
	return pipeline.New(defs)
}

func defaultDurationNames() map[string]bool {
	names := make(map[string]bool)
	for _, p := range pipeline.Default().DurationProcesses() {
		names[strings.ToLower(p.Name)] = true
	}
	return names
}

// FromWorkspace builds a workbook from workspace contents, the inverse of
// Convert. Durations are written as integers.
func FromWorkspace(c *Contents) *Workbook {
	wb := &Workbook{}
	for _, p := range c.Pipeline.Steps() {
		e := ProcessEntry{Name: p.Name, Kind: domain.KindName(p.Kind), Order: p.Order, Team: p.TeamCode}
		if d, ok := p.Kind.(domain.Duration); ok && d.DefaultDays > 0 {
			days := d.DefaultDays
			e.DefaultDays = &days
		}
		wb.Processes = append(wb.Processes, e)
	}
	for _, t := range c.Teams {
		e := TeamEntry{Code: t.TeamCode}
		for _, i := range t.WorkWeekdays.Indices() {
			e.WorkWeekdays = append(e.WorkWeekdays, Scalar(fmt.Sprint(i)))
		}
		for _, h := range t.Holidays {
			e.Holidays = append(e.Holidays, domain.FormatDate(h))
		}
		wb.Teams = append(wb.Teams, e)
	}
	for _, h := range c.GlobalHolidays {
		wb.GlobalHolidays = append(wb.GlobalHolidays, domain.FormatDate(h))
	}

	index := make(map[string]int)
	for _, b := range c.Blocks {
		i, ok := index[b.ProjectNo]
		if !ok {
			i = len(wb.Projects)
			index[b.ProjectNo] = i
			wb.Projects = append(wb.Projects, ProjectEntry{ProjectNo: b.ProjectNo})
		}
		be := BlockEntry{BlockNo: b.BlockNo, Weight: b.WeightTon, Deadline: domain.FormatDate(b.Deadline)}
		if len(b.Durations) > 0 {
			be.Durations = make(map[string]Scalar, len(b.Durations))
			for name, days := range b.Durations {
				be.Durations[name] = Scalar(fmt.Sprint(days))
			}
		}
		wb.Projects[i].Blocks = append(wb.Projects[i].Blocks, be)
	}
	return wb
}
