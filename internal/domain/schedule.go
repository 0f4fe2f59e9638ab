package domain

import "time"

// ProcessDates holds the computed dates of one process for one block.
// Start, End and Days are set for DatesSpan; Date for DatesMilestone.
type ProcessDates struct {
	Kind      DateKind
	Start     time.Time
	End       time.Time
	Days      int
	Defaulted bool
	Date      time.Time
}

// First returns the earliest date the process occupies.
func (d ProcessDates) First() time.Time {
	if d.Kind == DatesMilestone {
		return d.Date
	}
	return d.Start
}

// Last returns the latest date the process occupies.
func (d ProcessDates) Last() time.Time {
	if d.Kind == DatesMilestone {
		return d.Date
	}
	return d.End
}

// ScheduledBlock is a block together with its backward schedule.
type ScheduledBlock struct {
	Block     Block
	Deadline  time.Time
	PND       *time.Time
	Processes map[string]ProcessDates
}

// ScheduleRun is one scheduler invocation over the workspace.
type ScheduleRun struct {
	ID         string
	ComputedAt time.Time
	Pipeline   []ProcessDefinition
	Blocks     []ScheduledBlock
}
