package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/ironflow/internal/db"
	"github.com/alexanderramin/ironflow/internal/domain"
	"github.com/alexanderramin/ironflow/internal/pipeline"
	"github.com/alexanderramin/ironflow/internal/repository"
)

type pipelineService struct {
	observed
	uow db.UnitOfWork
}

func NewPipelineService(uow db.UnitOfWork, observers ...UseCaseObserver) PipelineService {
	return &pipelineService{observed: newObserved(observers), uow: uow}
}

func (s *pipelineService) Get(ctx context.Context) (p *pipeline.Pipeline, err error) {
	err = s.uow.WithinSnapshot(ctx, func(ctx context.Context, tx db.DBTX) error {
		p, err = loadPipeline(ctx, tx)
		return err
	})
	return p, err
}

func (s *pipelineService) Replace(ctx context.Context, defs []domain.ProcessDefinition) (change *PipelineChange, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"process_count": len(defs)}
	defer func() { s.finish(ctx, "replace-pipeline", startedAt, fields, err) }()

	p, err := pipeline.New(defs)
	if err != nil {
		return nil, err
	}

	change = &PipelineChange{Pipeline: p}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteProcessRepo(tx).ReplaceAll(ctx, p.Steps()); err != nil {
			return err
		}
		var err error
		change.AddedTeams, change.RemovedTeams, err = syncTeamCalendars(ctx, tx, p)
		if err != nil {
			return fmt.Errorf("syncing team calendars: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["teams_added"] = len(change.AddedTeams)
	fields["teams_removed"] = len(change.RemovedTeams)
	return change, nil
}

func (s *pipelineService) ResetDefault(ctx context.Context) (*PipelineChange, error) {
	return s.Replace(ctx, pipeline.DefaultDefinitions())
}

func (s *pipelineService) EnsureDefaults(ctx context.Context) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		procs := repository.NewSQLiteProcessRepo(tx)
		n, err := procs.Count(ctx)
		if err != nil || n > 0 {
			return err
		}
		p := pipeline.Default()
		if err := procs.ReplaceAll(ctx, p.Steps()); err != nil {
			return err
		}
		_, _, err = syncTeamCalendars(ctx, tx, p)
		return err
	})
}
