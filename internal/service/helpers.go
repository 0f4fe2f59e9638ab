package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/ironflow/internal/db"
	"github.com/alexanderramin/ironflow/internal/domain"
	"github.com/alexanderramin/ironflow/internal/pipeline"
	"github.com/alexanderramin/ironflow/internal/repository"
	"github.com/alexanderramin/ironflow/internal/workbook"
)

// loadPipeline reads the stored process list, falling back to the default
// pipeline for a workspace that has none.
func loadPipeline(ctx context.Context, tx db.DBTX) (*pipeline.Pipeline, error) {
	defs, err := repository.NewSQLiteProcessRepo(tx).List(ctx)
	if err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return pipeline.Default(), nil
	}
	p, err := pipeline.New(defs)
	if err != nil {
		return nil, fmt.Errorf("stored pipeline: %w", err)
	}
	return p, nil
}

// loadSnapshot reads everything a schedule run needs.
func loadSnapshot(ctx context.Context, tx db.DBTX) (*workbook.Contents, error) {
	p, err := loadPipeline(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("loading pipeline: %w", err)
	}
	cals := repository.NewSQLiteCalendarRepo(tx)
	teams, err := cals.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading team calendars: %w", err)
	}
	global, err := cals.ListGlobalHolidays(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading global holidays: %w", err)
	}
	blocks, err := repository.NewSQLiteBlockRepo(tx).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading blocks: %w", err)
	}
	return &workbook.Contents{Pipeline: p, Teams: teams, GlobalHolidays: global, Blocks: blocks}, nil
}

// syncTeamCalendars adds a default calendar for every team code p uses
// that has none and removes calendars of codes p no longer uses.
func syncTeamCalendars(ctx context.Context, tx db.DBTX, p *pipeline.Pipeline) (added, removed []string, err error) {
	repo := repository.NewSQLiteCalendarRepo(tx)
	existing, err := repo.ListTeams(ctx)
	if err != nil {
		return nil, nil, err
	}
	have := make(map[string]bool, len(existing))
	for _, c := range existing {
		have[c.TeamCode] = true
	}

	used := make(map[string]bool)
	for _, code := range p.TeamCodes() {
		used[code] = true
		if have[code] {
			continue
		}
		if err := repo.UpsertTeam(ctx, domain.DefaultTeamCalendar(code)); err != nil {
			return nil, nil, err
		}
		added = append(added, code)
	}
	for _, c := range existing {
		if used[c.TeamCode] {
			continue
		}
		if err := repo.DeleteTeam(ctx, c.TeamCode); err != nil {
			return nil, nil, err
		}
		removed = append(removed, c.TeamCode)
	}
	return added, removed, nil
}

func (o observed) finish(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err error) {
	o.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}

// observed is embedded by services that report use-case events.
type observed struct {
	observer UseCaseObserver
}

func newObserved(observers []UseCaseObserver) observed {
	return observed{observer: useCaseObserverOrNoop(observers)}
}
