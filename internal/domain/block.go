package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Block is one fabrication block of a project. ProjectNo and BlockNo form the
// business key; ID is the workspace identity.
type Block struct {
	ID        string
	ProjectNo string
	BlockNo   string
	WeightTon float64
	Deadline  time.Time

	// Durations holds business-day durations keyed by process name. Only
	// positive values are meaningful.
	Durations map[string]int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Label returns "project-block", the row label used in reports.
func (b *Block) Label() string {
	return b.ProjectNo + "-" + b.BlockNo
}

// DurationFor returns the duration for process, or fallback when the block
// has no positive value for it. defaulted reports whether fallback was used.
func (b *Block) DurationFor(process string, fallback int) (days int, defaulted bool) {
	if n, ok := b.Durations[process]; ok && n > 0 {
		return n, false
	}
	return fallback, true
}

// SetDuration stores days for process. Non-positive values clear the entry.
func (b *Block) SetDuration(process string, days int) {
	if days <= 0 {
		delete(b.Durations, process)
		return
	}
	if b.Durations == nil {
		b.Durations = make(map[string]int)
	}
	b.Durations[process] = days
}

// CoerceDurationDays converts raw spreadsheet input into a duration.
// Fractions truncate toward zero. Empty, unparsable, NaN, infinite and
// non-positive inputs report ok=false.
func CoerceDurationDays(raw string) (days int, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, n > 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f >= math.MaxInt32 {
		return 0, false
	}
	n := int(f)
	return n, n > 0
}

// ProjectSummary aggregates the blocks registered under one project number.
type ProjectSummary struct {
	ProjectNo        string
	BlockCount       int
	TotalWeightTon   float64
	EarliestDeadline time.Time
	LatestDeadline   time.Time
}
