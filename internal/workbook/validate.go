package workbook

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/ironflow/internal/domain"
)

// Validate checks the workbook before conversion.
// Returns every problem found, not just the first.
func Validate(wb *Workbook) []error {
	var errs []error

	names, errsP := validateProcesses(wb.Processes)
	errs = append(errs, errsP...)
	errs = append(errs, validateTeams(wb.Teams)...)
	for i, h := range wb.GlobalHolidays {
		if _, err := domain.ParseDate(h); err != nil {
			errs = append(errs, fmt.Errorf("global_holidays[%d]: %w", i, err))
		}
	}
	errs = append(errs, validateProjects(wb.Projects, names)...)

	return errs
}

// validateProcesses returns the lower-cased names of Duration processes,
// which are the keys a block may carry durations for.
func validateProcesses(procs []ProcessEntry) (map[string]bool, []error) {
	if len(procs) == 0 {
		return defaultDurationNames(), nil
	}

	var errs []error
	durations := make(map[string]bool)
	seen := make(map[string]bool)
	for i, p := range procs {
		prefix := fmt.Sprintf("processes[%d]", i)
		name := strings.TrimSpace(p.Name)

		if name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		} else if seen[strings.ToLower(name)] {
			errs = append(errs, fmt.Errorf("%s.name: duplicate process %q", prefix, name))
		} else {
			seen[strings.ToLower(name)] = true
		}

		kind, err := domain.ParseProcessKind(p.Kind, 0)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s.kind: %w", prefix, err))
			continue
		}
		if p.DefaultDays != nil {
			if _, ok := kind.(domain.Duration); !ok {
				errs = append(errs, fmt.Errorf("%s.default_days is only valid for duration processes", prefix))
			} else if *p.DefaultDays <= 0 {
				errs = append(errs, fmt.Errorf("%s.default_days must be positive", prefix))
			}
		}
		if _, ok := kind.(domain.Duration); ok && name != "" {
			durations[strings.ToLower(name)] = true
		}
	}
	return durations, errs
}

func validateTeams(teams []TeamEntry) []error {
	var errs []error
	seen := make(map[string]bool)
	for i, t := range teams {
		prefix := fmt.Sprintf("teams[%d]", i)
		code := strings.TrimSpace(t.Code)

		if code == "" {
			errs = append(errs, fmt.Errorf("%s.code is required", prefix))
		} else if seen[code] {
			errs = append(errs, fmt.Errorf("%s.code: duplicate team %q", prefix, code))
		} else {
			seen[code] = true
		}

		for j, w := range t.WorkWeekdays {
			if _, err := domain.ParseWeekday(string(w)); err != nil {
				errs = append(errs, fmt.Errorf("%s.work_weekdays[%d]: %w", prefix, j, err))
			}
		}
		for j, h := range t.Holidays {
			if _, err := domain.ParseDate(h); err != nil {
				errs = append(errs, fmt.Errorf("%s.holidays[%d]: %w", prefix, j, err))
			}
		}
	}
	return errs
}

func validateProjects(projects []ProjectEntry, durations map[string]bool) []error {
	var errs []error
	seenProjects := make(map[string]bool)
	for i, p := range projects {
		prefix := fmt.Sprintf("projects[%d]", i)
		projectNo := strings.TrimSpace(p.ProjectNo)

		if projectNo == "" {
			errs = append(errs, fmt.Errorf("%s.project_no is required", prefix))
		} else if seenProjects[projectNo] {
			errs = append(errs, fmt.Errorf("%s.project_no: duplicate project %q", prefix, projectNo))
		} else {
			seenProjects[projectNo] = true
		}

		seenBlocks := make(map[string]bool)
		for j, b := range p.Blocks {
			bprefix := fmt.Sprintf("%s.blocks[%d]", prefix, j)
			blockNo := strings.TrimSpace(b.BlockNo)

			if blockNo == "" {
				errs = append(errs, fmt.Errorf("%s.block_no is required", bprefix))
			} else if seenBlocks[blockNo] {
				errs = append(errs, fmt.Errorf("%s.block_no: duplicate block %q", bprefix, blockNo))
			} else {
				seenBlocks[blockNo] = true
			}

			if b.Weight < 0 {
				errs = append(errs, fmt.Errorf("%s.weight must not be negative", bprefix))
			}
			if strings.TrimSpace(b.Deadline) == "" {
				errs = append(errs, fmt.Errorf("%s.deadline is required", bprefix))
			} else if _, err := domain.ParseDate(b.Deadline); err != nil {
				errs = append(errs, fmt.Errorf("%s.deadline: %w", bprefix, err))
			}

			for name := range b.Durations {
				if !durations[strings.ToLower(strings.TrimSpace(name))] {
					errs = append(errs, fmt.Errorf("%s.durations: %q is not a duration process", bprefix, name))
				}
			}
		}
	}
	return errs
}
