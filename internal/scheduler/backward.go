// Package scheduler computes backward, deadline-driven block schedules.
package scheduler

import (
	"fmt"
	"maps"

	"github.com/alexanderramin/ironflow/internal/calendar"
	"github.com/alexanderramin/ironflow/internal/domain"
	"github.com/alexanderramin/ironflow/internal/pipeline"
)

// BackwardScheduler walks a pipeline in reverse from each block's deadline.
// The zero value uses calendar.DefaultLookbackDays.
type BackwardScheduler struct {
	LookbackDays int
}

// Schedule runs the default BackwardScheduler.
func Schedule(blocks []domain.Block, p *pipeline.Pipeline, cals *calendar.Set) ([]domain.ScheduledBlock, error) {
	return BackwardScheduler{}.Schedule(blocks, p, cals)
}

// Schedule computes every block in input order. The first error aborts the
// whole batch and no results are returned.
func (s BackwardScheduler) Schedule(blocks []domain.Block, p *pipeline.Pipeline, cals *calendar.Set) ([]domain.ScheduledBlock, error) {
	out := make([]domain.ScheduledBlock, 0, len(blocks))
	for _, b := range blocks {
		sb, err := s.ScheduleBlock(b, p, cals)
		if err != nil {
			return nil, err
		}
		out = append(out, sb)
	}
	return out, nil
}

// ScheduleBlock computes one block. It depends only on its arguments.
func (s BackwardScheduler) ScheduleBlock(b domain.Block, p *pipeline.Pipeline, cals *calendar.Set) (domain.ScheduledBlock, error) {
	if b.Deadline.IsZero() {
		return domain.ScheduledBlock{}, fmt.Errorf("%s: %w", b.Label(), ErrMissingDeadline)
	}

	b.Durations = maps.Clone(b.Durations)
	deadline := domain.Day(b.Deadline)
	out := domain.ScheduledBlock{
		Block:     b,
		Deadline:  deadline,
		Processes: make(map[string]domain.ProcessDates, p.Len()),
	}

	ref := deadline
	for _, proc := range p.Backward() {
		switch proc.Role() {
		case domain.RoleDelivery:
			continue
		case domain.RolePND:
			pnd := deadline.AddDate(0, 0, -1)
			out.PND = &pnd
			// PND never moves the reference later than an already placed process.
			if pnd.Before(ref) {
				ref = pnd
			}
			continue
		}

		cal := cals.Resolve(proc.TeamCode)
		// A process must finish strictly before the next one starts.
		boundary := ref.AddDate(0, 0, -1)

		switch kind := proc.Kind.(type) {
		case domain.Milestone:
			date, err := calendar.SubtractBusinessDaysWithin(boundary, 1, cal, s.LookbackDays)
			if err != nil {
				return domain.ScheduledBlock{}, configError(b, proc, err)
			}
			out.Processes[proc.Name] = domain.ProcessDates{Kind: domain.DatesMilestone, Date: date}
			ref = date

		case domain.Duration:
			days, defaulted := b.DurationFor(proc.Name, kind.Fallback())
			end, err := calendar.LatestWorkingDay(boundary, cal, s.LookbackDays)
			if err != nil {
				return domain.ScheduledBlock{}, configError(b, proc, err)
			}
			start, err := calendar.SubtractBusinessDaysWithin(end, days, cal, s.LookbackDays)
			if err != nil {
				return domain.ScheduledBlock{}, configError(b, proc, err)
			}
			out.Processes[proc.Name] = domain.ProcessDates{
				Kind:      domain.DatesSpan,
				Start:     start,
				End:       end,
				Days:      days,
				Defaulted: defaulted,
			}
			ref = start
		}
	}
	return out, nil
}

func configError(b domain.Block, proc domain.ProcessDefinition, err error) error {
	return &ConfigurationError{
		ProjectNo: b.ProjectNo,
		BlockNo:   b.BlockNo,
		Process:   proc.Name,
		Team:      proc.TeamCode,
		Err:       err,
	}
}
