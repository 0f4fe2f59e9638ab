package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/ironflow/internal/calendar"
	"github.com/alexanderramin/ironflow/internal/db"
	"github.com/alexanderramin/ironflow/internal/domain"
	"github.com/alexanderramin/ironflow/internal/repository"
	"github.com/alexanderramin/ironflow/internal/scheduler"
	"github.com/alexanderramin/ironflow/internal/workbook"
)

type scheduleService struct {
	observed
	uow       db.UnitOfWork
	scheduler scheduler.BackwardScheduler
}

// NewScheduleService returns a ScheduleService whose calendar searches stop
// after lookbackDays. Zero selects calendar.DefaultLookbackDays.
func NewScheduleService(uow db.UnitOfWork, lookbackDays int, observers ...UseCaseObserver) ScheduleService {
	return &scheduleService{
		observed:  newObserved(observers),
		uow:       uow,
		scheduler: scheduler.BackwardScheduler{LookbackDays: lookbackDays},
	}
}

// Run snapshots the workspace, schedules outside any transaction and stores
// the result as a new run. A configuration error stores nothing.
func (s *scheduleService) Run(ctx context.Context, opts RunOptions) (run *domain.ScheduleRun, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	if len(opts.Projects) > 0 {
		fields["projects"] = strings.Join(opts.Projects, ",")
	}
	defer func() { s.finish(ctx, "schedule-run", startedAt, fields, err) }()

	var snap *workbook.Contents
	err = s.uow.WithinSnapshot(ctx, func(ctx context.Context, tx db.DBTX) error {
		snap, err = loadSnapshot(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	blocks := filterProjects(snap.Blocks, opts.Projects)
	fields["block_count"] = len(blocks)
	cals := calendar.NewSet(snap.Teams, snap.GlobalHolidays)
	results, err := s.scheduler.Schedule(blocks, snap.Pipeline, cals)
	if err != nil {
		return nil, err
	}

	run = &domain.ScheduleRun{Pipeline: snap.Pipeline.Steps(), Blocks: results}
	if opts.Now != nil {
		run.ComputedAt = opts.Now.UTC()
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteScheduleRepo(tx).SaveRun(ctx, run)
	})
	if err != nil {
		return nil, fmt.Errorf("storing schedule run: %w", err)
	}
	fields["run_id"] = run.ID
	return run, nil
}

func filterProjects(blocks []domain.Block, projects []string) []domain.Block {
	if len(projects) == 0 {
		return blocks
	}
	out := make([]domain.Block, 0, len(blocks))
	for _, b := range blocks {
		if slices.Contains(projects, b.ProjectNo) {
			out = append(out, b)
		}
	}
	return out
}

func (s *scheduleService) Get(ctx context.Context, id string) (run *domain.ScheduleRun, err error) {
	err = s.uow.WithinSnapshot(ctx, func(ctx context.Context, tx db.DBTX) error {
		run, err = repository.NewSQLiteScheduleRepo(tx).GetRun(ctx, id)
		return err
	})
	return run, err
}

func (s *scheduleService) Latest(ctx context.Context) (run *domain.ScheduleRun, err error) {
	err = s.uow.WithinSnapshot(ctx, func(ctx context.Context, tx db.DBTX) error {
		run, err = repository.NewSQLiteScheduleRepo(tx).LatestRun(ctx)
		return err
	})
	return run, err
}
