package domain

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// WeekdayMask is a set of weekdays, one bit per time.Weekday.
type WeekdayMask uint8

// mondayFirst lists weekdays in the index order used by workbooks (Monday = 0).
var mondayFirst = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

var weekdayNames = map[string]time.Weekday{
	"mon": time.Monday, "monday": time.Monday, "월": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday, "화": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday, "수": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday, "목": time.Thursday,
	"fri": time.Friday, "friday": time.Friday, "금": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday, "토": time.Saturday,
	"sun": time.Sunday, "sunday": time.Sunday, "일": time.Sunday,
}

// DefaultWorkWeekdays is Monday through Saturday.
var DefaultWorkWeekdays = NewWeekdayMask(
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday,
)

func NewWeekdayMask(days ...time.Weekday) WeekdayMask {
	var m WeekdayMask
	for _, d := range days {
		m |= 1 << uint(d)
	}
	return m
}

func (m WeekdayMask) Has(d time.Weekday) bool {
	return m&(1<<uint(d)) != 0
}

func (m WeekdayMask) Empty() bool {
	return m&0x7f == 0
}

// Indices returns the weekday indices in the set, Monday = 0.
func (m WeekdayMask) Indices() []int {
	var out []int
	for i, d := range mondayFirst {
		if m.Has(d) {
			out = append(out, i)
		}
	}
	return out
}

func (m WeekdayMask) String() string {
	if m.Empty() {
		return "-"
	}
	var parts []string
	for _, d := range mondayFirst {
		if m.Has(d) {
			parts = append(parts, d.String()[:3])
		}
	}
	return strings.Join(parts, ",")
}

// WeekdayFromIndex maps a Monday-first index (0..6) to a time.Weekday.
func WeekdayFromIndex(i int) (time.Weekday, error) {
	if i < 0 || i >= len(mondayFirst) {
		return 0, fmt.Errorf("weekday index %d out of range 0..6", i)
	}
	return mondayFirst[i], nil
}

// ParseWeekday accepts a Monday-first index, an English name or abbreviation,
// or a single Korean weekday character.
func ParseWeekday(s string) (time.Weekday, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(key); err == nil {
		return WeekdayFromIndex(n)
	}
	if d, ok := weekdayNames[key]; ok {
		return d, nil
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// ParseWeekdayList parses a comma separated weekday list such as "mon,tue,wed".
// An empty string yields an empty mask.
func ParseWeekdayList(s string) (WeekdayMask, error) {
	var m WeekdayMask
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		d, err := ParseWeekday(part)
		if err != nil {
			return 0, err
		}
		m |= NewWeekdayMask(d)
	}
	return m, nil
}

// TeamCalendar is the working-calendar configuration of one team.
type TeamCalendar struct {
	TeamCode     string
	WorkWeekdays WeekdayMask
	Holidays     []time.Time // sorted, unique, UTC midnight
}

// DefaultTeamCalendar works Monday through Saturday with no team holidays.
func DefaultTeamCalendar(teamCode string) TeamCalendar {
	return TeamCalendar{TeamCode: teamCode, WorkWeekdays: DefaultWorkWeekdays}
}

// AddHoliday inserts d into the holiday list. Returns false if already present.
func (c *TeamCalendar) AddHoliday(d time.Time) bool {
	d = Day(d)
	i, found := slices.BinarySearchFunc(c.Holidays, d, compareDates)
	if found {
		return false
	}
	c.Holidays = slices.Insert(c.Holidays, i, d)
	return true
}

// RemoveHoliday deletes d from the holiday list. Returns false if absent.
func (c *TeamCalendar) RemoveHoliday(d time.Time) bool {
	d = Day(d)
	i, found := slices.BinarySearchFunc(c.Holidays, d, compareDates)
	if !found {
		return false
	}
	c.Holidays = slices.Delete(c.Holidays, i, i+1)
	return true
}

// SortDates normalizes, sorts and de-duplicates dates.
func SortDates(dates []time.Time) []time.Time {
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		out = append(out, Day(d))
	}
	slices.SortFunc(out, compareDates)
	return slices.CompactFunc(out, time.Time.Equal)
}

func compareDates(a, b time.Time) int {
	return a.Compare(b)
}
