package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/ironflow/internal/domain"
)

// DefaultLookbackDays bounds how many calendar days a backward walk may examine.
const DefaultLookbackDays = 730

// ErrNoWorkingDay indicates a calendar without enough working days inside the
// lookback window, typically a team with no working weekdays.
var ErrNoWorkingDay = errors.New("no working day within lookback window")

// LookbackError describes a backward walk that could not converge.
type LookbackError struct {
	Team     string
	From     time.Time
	Days     int
	Counted  int
	Lookback int
}

func (e *LookbackError) Error() string {
	if e.Counted > 0 {
		return fmt.Sprintf("team %q: %d working days do not fit in the %d-day lookback window before %s (only %d found); shorten the duration or raise the lookback",
			e.Team, e.Days, e.Lookback, domain.FormatDate(e.From), e.Counted)
	}
	return fmt.Sprintf("team %q: counted %d of %d working days walking back %d calendar days from %s: %v",
		e.Team, e.Counted, e.Days, e.Lookback, domain.FormatDate(e.From), ErrNoWorkingDay)
}

func (e *LookbackError) Unwrap() error { return ErrNoWorkingDay }

// SubtractBusinessDays walks backward from end, counting end itself when it
// is a working day, and returns the n-th working day counted. n == 0 returns
// end unchanged. The walk examines at most DefaultLookbackDays calendar days.
func SubtractBusinessDays(end time.Time, n int, cal WorkCalendar) (time.Time, error) {
	return SubtractBusinessDaysWithin(end, n, cal, DefaultLookbackDays)
}

// SubtractBusinessDaysWithin is SubtractBusinessDays with an explicit lookback
// window. A non-positive window means DefaultLookbackDays.
func SubtractBusinessDaysWithin(end time.Time, n int, cal WorkCalendar, lookback int) (time.Time, error) {
	end = domain.Day(end)
	if n <= 0 {
		return end, nil
	}
	if lookback <= 0 {
		lookback = DefaultLookbackDays
	}

	lookbackErr := func(counted int) error {
		return &LookbackError{Team: cal.Team(), From: end, Days: n, Counted: counted, Lookback: lookback}
	}
	if cal.Weekdays().Empty() {
		return time.Time{}, lookbackErr(0)
	}

	counted := 0
	day := end
	for examined := 0; examined < lookback; examined++ {
		if cal.IsWorkingDay(day) {
			counted++
			if counted == n {
				return day, nil
			}
		}
		day = day.AddDate(0, 0, -1)
	}
	return time.Time{}, lookbackErr(counted)
}

// LatestWorkingDay returns the latest working day on or before d.
func LatestWorkingDay(d time.Time, cal WorkCalendar, lookback int) (time.Time, error) {
	return SubtractBusinessDaysWithin(d, 1, cal, lookback)
}

// WorkingDaysBetween counts working days in the inclusive range [from, to].
func WorkingDaysBetween(from, to time.Time, cal WorkCalendar) int {
	from, to = domain.Day(from), domain.Day(to)
	count := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if cal.IsWorkingDay(d) {
			count++
		}
	}
	return count
}
