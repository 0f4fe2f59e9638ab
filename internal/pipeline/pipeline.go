// Package pipeline holds the ordered process list that drives backward scheduling.
package pipeline

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/alexanderramin/ironflow/internal/domain"
)

var (
	ErrEmptyPipeline    = errors.New("pipeline has no processes")
	ErrDuplicateProcess = errors.New("duplicate process name")
	ErrInvalidProcess   = errors.New("invalid process definition")
)

// Pipeline is an immutable, normalized process list. Orders are dense 1..N.
type Pipeline struct {
	steps []domain.ProcessDefinition
}

// New sorts defs by Order (ties keep input order), renumbers them 1..N and
// validates names and kinds. defs is not modified.
func New(defs []domain.ProcessDefinition) (*Pipeline, error) {
	if len(defs) == 0 {
		return nil, ErrEmptyPipeline
	}

	steps := slices.Clone(defs)
	slices.SortStableFunc(steps, func(a, b domain.ProcessDefinition) int {
		return a.Order - b.Order
	})

	seen := make(map[string]bool, len(steps))
	for i := range steps {
		p := &steps[i]
		p.Name = strings.TrimSpace(p.Name)
		p.TeamCode = strings.TrimSpace(p.TeamCode)
		p.Order = i + 1

		if p.Name == "" {
			return nil, fmt.Errorf("%w: process at position %d has no name", ErrInvalidProcess, i+1)
		}
		if p.Kind == nil {
			return nil, fmt.Errorf("%w: process %q has no kind", ErrInvalidProcess, p.Name)
		}
		if d, ok := p.Kind.(domain.Duration); ok && d.DefaultDays < 0 {
			return nil, fmt.Errorf("%w: process %q has negative default days", ErrInvalidProcess, p.Name)
		}
		key := strings.ToLower(p.Name)
		if seen[key] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateProcess, p.Name)
		}
		seen[key] = true
	}
	return &Pipeline{steps: steps}, nil
}

// Default returns the standard block fabrication pipeline.
func Default() *Pipeline {
	p, err := New(DefaultDefinitions())
	if err != nil {
		panic(err)
	}
	return p
}

// DefaultDefinitions lists the standard fabrication processes.
func DefaultDefinitions() []domain.ProcessDefinition {
	return []domain.ProcessDefinition{
		{Name: "Cutting", Kind: domain.Duration{}, Order: 1, TeamCode: "cutting"},
		{Name: "Fitting", Kind: domain.Duration{}, Order: 2, TeamCode: "fitting"},
		{Name: "Welding", Kind: domain.Duration{}, Order: 3, TeamCode: "welding"},
		{Name: "Sandblasting", Kind: domain.Duration{}, Order: 4, TeamCode: "sandblasting"},
		{Name: "AssemblyInspection", Kind: domain.Milestone{}, Order: 5, TeamCode: "assembly_inspection"},
		{Name: "Painting", Kind: domain.Duration{}, Order: 6, TeamCode: "painting"},
		{Name: "PaintingInspection", Kind: domain.Milestone{}, Order: 7, TeamCode: "painting_inspection"},
		{Name: domain.ProcessPND, Kind: domain.Milestone{}, Order: 8, TeamCode: "pnd"},
		{Name: domain.ProcessDelivery, Kind: domain.Milestone{}, Order: 9, TeamCode: "final"},
	}
}

// Len returns the number of processes.
func (p *Pipeline) Len() int { return len(p.steps) }

// Steps returns the processes in ascending order.
func (p *Pipeline) Steps() []domain.ProcessDefinition {
	return slices.Clone(p.steps)
}

// Backward returns the processes in descending order, the traversal order
// of the backward scheduler.
func (p *Pipeline) Backward() []domain.ProcessDefinition {
	out := slices.Clone(p.steps)
	slices.Reverse(out)
	return out
}

// Lookup finds a process by name, case-insensitively.
func (p *Pipeline) Lookup(name string) (domain.ProcessDefinition, bool) {
	for _, s := range p.steps {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return domain.ProcessDefinition{}, false
}

// WorkProcesses returns the non-sentinel processes in ascending order.
func (p *Pipeline) WorkProcesses() []domain.ProcessDefinition {
	var out []domain.ProcessDefinition
	for _, s := range p.steps {
		if s.Role() == domain.RoleWork {
			out = append(out, s)
		}
	}
	return out
}

// DurationProcesses returns the Duration-kind work processes in ascending order.
func (p *Pipeline) DurationProcesses() []domain.ProcessDefinition {
	var out []domain.ProcessDefinition
	for _, s := range p.WorkProcesses() {
		if _, ok := s.Kind.(domain.Duration); ok {
			out = append(out, s)
		}
	}
	return out
}

// TeamCodes returns the distinct team codes referenced by the pipeline, in
// pipeline order. Empty codes are skipped.
func (p *Pipeline) TeamCodes() []string {
	var out []string
	seen := make(map[string]bool)
	for _, s := range p.steps {
		if s.TeamCode == "" || seen[s.TeamCode] {
			continue
		}
		seen[s.TeamCode] = true
		out = append(out, s.TeamCode)
	}
	return out
}

// SchedulableTeamCodes is TeamCodes without the teams of the sentinel
// processes, whose calendars the scheduler never consults.
func (p *Pipeline) SchedulableTeamCodes() []string {
	var out []string
	seen := make(map[string]bool)
	for _, s := range p.WorkProcesses() {
		if s.TeamCode == "" || seen[s.TeamCode] {
			continue
		}
		seen[s.TeamCode] = true
		out = append(out, s.TeamCode)
	}
	return out
}
