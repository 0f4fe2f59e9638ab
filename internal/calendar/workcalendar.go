// Package calendar answers working-day questions for team calendars and
// walks business days backward from a reference date.
package calendar

import (
	"sort"
	"time"

	"github.com/alexanderramin/ironflow/internal/domain"
)

// WorkCalendar is an immutable working-day calendar: a weekday mask plus the
// union of team and global holidays.
type WorkCalendar struct {
	team     string
	weekdays domain.WeekdayMask
	holidays map[time.Time]struct{}
}

// NewWorkCalendar builds a calendar from a weekday mask and any number of holiday lists.
func NewWorkCalendar(team string, weekdays domain.WeekdayMask, holidays ...[]time.Time) WorkCalendar {
	set := make(map[time.Time]struct{})
	for _, list := range holidays {
		for _, d := range list {
			set[domain.Day(d)] = struct{}{}
		}
	}
	return WorkCalendar{team: team, weekdays: weekdays, holidays: set}
}

// Team returns the team code the calendar was built for.
func (c WorkCalendar) Team() string { return c.team }

// Weekdays returns the working weekday mask.
func (c WorkCalendar) Weekdays() domain.WeekdayMask { return c.weekdays }

// IsWorkingDay reports whether d falls on a working weekday and is not a holiday.
func (c WorkCalendar) IsWorkingDay(d time.Time) bool {
	d = domain.Day(d)
	if !c.weekdays.Has(d.Weekday()) {
		return false
	}
	_, holiday := c.holidays[d]
	return !holiday
}

// IsHoliday reports whether d is in the effective holiday set.
func (c WorkCalendar) IsHoliday(d time.Time) bool {
	_, ok := c.holidays[domain.Day(d)]
	return ok
}

// Holidays returns the effective holiday set in ascending order.
func (c WorkCalendar) Holidays() []time.Time {
	out := make([]time.Time, 0, len(c.holidays))
	for d := range c.holidays {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Set is a snapshot of every team calendar plus the global holidays,
// taken once per scheduling run. Later edits to the source configuration
// are never observed through a Set.
type Set struct {
	teams    map[string]WorkCalendar
	fallback WorkCalendar
	global   []time.Time
}

// NewSet copies teams and global into a new snapshot.
func NewSet(teams []domain.TeamCalendar, global []time.Time) *Set {
	g := domain.SortDates(global)
	s := &Set{
		teams:    make(map[string]WorkCalendar, len(teams)),
		fallback: NewWorkCalendar("", domain.DefaultWorkWeekdays, g),
		global:   g,
	}
	for _, tc := range teams {
		s.teams[tc.TeamCode] = NewWorkCalendar(tc.TeamCode, tc.WorkWeekdays, tc.Holidays, g)
	}
	return s
}

// Resolve returns the calendar for team. Unknown team codes get the default
// calendar: Monday to Saturday, global holidays only.
func (s *Set) Resolve(team string) WorkCalendar {
	if c, ok := s.teams[team]; ok {
		return c
	}
	c := s.fallback
	c.team = team
	return c
}

// Configured reports whether team has its own calendar in the snapshot.
func (s *Set) Configured(team string) bool {
	_, ok := s.teams[team]
	return ok
}

// GlobalHolidays returns a copy of the shared holidays.
func (s *Set) GlobalHolidays() []time.Time {
	out := make([]time.Time, len(s.global))
	copy(out, s.global)
	return out
}
