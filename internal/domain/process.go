package domain

import (
	"fmt"
	"strings"
)

// ProcessKind is a closed variant: either Duration or Milestone.
type ProcessKind interface {
	kindName() string
}

// Duration occupies a contiguous span of business days.
type Duration struct {
	// DefaultDays is used when a block has no usable duration for the process.
	// Zero means DefaultDurationDays.
	DefaultDays int
}

// Milestone occupies a single business day.
type Milestone struct{}

func (Duration) kindName() string  { return "duration" }
func (Milestone) kindName() string { return "milestone" }

// Fallback returns the effective default duration.
func (d Duration) Fallback() int {
	if d.DefaultDays > 0 {
		return d.DefaultDays
	}
	return DefaultDurationDays
}

// KindName returns the storage name of k ("duration" or "milestone").
func KindName(k ProcessKind) string {
	if k == nil {
		return ""
	}
	return k.kindName()
}

// ParseProcessKind converts a stored or user-supplied kind name.
func ParseProcessKind(s string, defaultDays int) (ProcessKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "duration":
		return Duration{DefaultDays: defaultDays}, nil
	case "milestone":
		return Milestone{}, nil
	default:
		return nil, fmt.Errorf("unknown process kind %q (expected duration or milestone)", s)
	}
}

// ProcessDefinition is one step of a pipeline. Order is dense 1..N once the
// pipeline is built; TeamCode selects the work calendar.
type ProcessDefinition struct {
	Name     string
	Kind     ProcessKind
	Order    int
	TeamCode string
}

// Role reports whether the process is one of the reserved sentinels.
func (p ProcessDefinition) Role() ProcessRole {
	switch {
	case strings.EqualFold(p.Name, ProcessDelivery):
		return RoleDelivery
	case strings.EqualFold(p.Name, ProcessPND):
		return RolePND
	default:
		return RoleWork
	}
}

// DefaultDays returns the fallback duration of a Duration process and 0 otherwise.
func (p ProcessDefinition) DefaultDays() int {
	if d, ok := p.Kind.(Duration); ok {
		return d.Fallback()
	}
	return 0
}
