package cli

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/ironflow/internal/domain"
	"github.com/spf13/pflag"
)

// dateListValue collects dates from repeated or comma separated flags.
type dateListValue struct {
	dates []time.Time
}

var _ pflag.Value = (*dateListValue)(nil)

func (v *dateListValue) String() string {
	parts := make([]string, len(v.dates))
	for i, d := range v.dates {
		parts[i] = domain.FormatDate(d)
	}
	return strings.Join(parts, ",")
}

func (v *dateListValue) Set(s string) error {
	dates, err := parseDates(s)
	if err != nil {
		return err
	}
	v.dates = append(v.dates, dates...)
	return nil
}

func (v *dateListValue) Type() string { return "dates" }

func parseDates(s string) ([]time.Time, error) {
	var out []time.Time
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		d, err := domain.ParseDate(part)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// splitTeamValue splits "team=rest".
func splitTeamValue(s string) (team, rest string, err error) {
	team, rest, ok := strings.Cut(s, "=")
	team = strings.TrimSpace(team)
	if !ok || team == "" {
		return "", "", fmt.Errorf("expected team=value, got %q", s)
	}
	return team, strings.TrimSpace(rest), nil
}

type teamDates struct {
	team  string
	dates []time.Time
}

// teamDatesValue collects "team=date[,date...]" flags in the order given.
type teamDatesValue struct {
	entries []teamDates
}

var _ pflag.Value = (*teamDatesValue)(nil)

func (v *teamDatesValue) String() string {
	parts := make([]string, 0, len(v.entries))
	for _, e := range v.entries {
		dl := dateListValue{dates: e.dates}
		parts = append(parts, e.team+"="+dl.String())
	}
	return strings.Join(parts, ";")
}

func (v *teamDatesValue) Set(s string) error {
	team, rest, err := splitTeamValue(s)
	if err != nil {
		return err
	}
	dates, err := parseDates(rest)
	if err != nil {
		return fmt.Errorf("team %s: %w", team, err)
	}
	if len(dates) == 0 {
		return fmt.Errorf("team %s: at least one date is required", team)
	}
	v.entries = append(v.entries, teamDates{team: team, dates: dates})
	return nil
}

func (v *teamDatesValue) Type() string { return "team=dates" }

type teamWeekdays struct {
	team string
	mask domain.WeekdayMask
}

// teamWeekdaysValue collects "team=mon,tue,..." flags. A later flag for
// the same team wins.
type teamWeekdaysValue struct {
	entries []teamWeekdays
}

var _ pflag.Value = (*teamWeekdaysValue)(nil)

func (v *teamWeekdaysValue) String() string {
	parts := make([]string, 0, len(v.entries))
	for _, e := range v.entries {
		parts = append(parts, e.team+"="+e.mask.String())
	}
	return strings.Join(parts, ";")
}

func (v *teamWeekdaysValue) Set(s string) error {
	team, rest, err := splitTeamValue(s)
	if err != nil {
		return err
	}
	mask, err := domain.ParseWeekdayList(rest)
	if err != nil {
		return fmt.Errorf("team %s: %w", team, err)
	}
	v.entries = append(v.entries, teamWeekdays{team: team, mask: mask})
	return nil
}

func (v *teamWeekdaysValue) Type() string { return "team=weekdays" }

// enumValue accepts one of a fixed set of lowercase values.
type enumValue struct {
	allowed []string
	value   string
}

var _ pflag.Value = (*enumValue)(nil)

func newEnumValue(def string, allowed ...string) *enumValue {
	return &enumValue{allowed: allowed, value: def}
}

func (v *enumValue) String() string { return v.value }

func (v *enumValue) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	if !slices.Contains(v.allowed, s) {
		return fmt.Errorf("must be one of %s", strings.Join(v.allowed, "|"))
	}
	v.value = s
	return nil
}

func (v *enumValue) Type() string { return strings.Join(v.allowed, "|") }

// dateValue is a single optional date flag.
type dateValue struct {
	date time.Time
}

var _ pflag.Value = (*dateValue)(nil)

func (v *dateValue) String() string {
	if v.date.IsZero() {
		return ""
	}
	return domain.FormatDate(v.date)
}

func (v *dateValue) Set(s string) error {
	d, err := domain.ParseDate(s)
	if err != nil {
		return err
	}
	v.date = d
	return nil
}

func (v *dateValue) Type() string { return "date" }
