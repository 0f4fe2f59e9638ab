package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/ironflow/internal/domain"
	"github.com/google/uuid"
)

var testBlockCounter atomic.Int64

// Block options
type BlockOption func(*domain.Block)

func WithProject(projectNo string) BlockOption {
	return func(b *domain.Block) {
		b.ProjectNo = projectNo
	}
}

func WithBlockNo(blockNo string) BlockOption {
	return func(b *domain.Block) {
		b.BlockNo = blockNo
	}
}

func WithDeadline(d time.Time) BlockOption {
	return func(b *domain.Block) {
		b.Deadline = domain.Day(d)
	}
}

func WithWeight(ton float64) BlockOption {
	return func(b *domain.Block) {
		b.WeightTon = ton
	}
}

func WithDuration(process string, days int) BlockOption {
	return func(b *domain.Block) {
		b.SetDuration(process, days)
	}
}

// NewTestBlock returns a block of project "H100" due 2026-04-30 with a
// unique block number.
func NewTestBlock(opts ...BlockOption) *domain.Block {
	n := testBlockCounter.Add(1)
	now := time.Now().UTC()
	b := &domain.Block{
		ID:        uuid.New().String(),
		ProjectNo: "H100",
		BlockNo:   fmt.Sprintf("B%03d", n),
		WeightTon: 12.5,
		Deadline:  domain.Date(2026, 4, 30),
		Durations: make(map[string]int),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Team calendar options
type CalendarOption func(*domain.TeamCalendar)

func WithWeekdays(days ...time.Weekday) CalendarOption {
	return func(c *domain.TeamCalendar) {
		c.WorkWeekdays = domain.NewWeekdayMask(days...)
	}
}

func WithHolidays(dates ...time.Time) CalendarOption {
	return func(c *domain.TeamCalendar) {
		for _, d := range dates {
			c.AddHoliday(d)
		}
	}
}

// NewTestCalendar returns a Monday–Saturday calendar for teamCode.
func NewTestCalendar(teamCode string, opts ...CalendarOption) domain.TeamCalendar {
	c := domain.DefaultTeamCalendar(teamCode)
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// NewTestProcess returns a Duration process; pass a Milestone kind through
// the struct literal when one is needed.
func NewTestProcess(name, teamCode string, order int) domain.ProcessDefinition {
	return domain.ProcessDefinition{Name: name, Kind: domain.Duration{}, Order: order, TeamCode: teamCode}
}
