package service

import (
	"context"
	"errors"

	"github.com/alexanderramin/ironflow/internal/db"
	"github.com/alexanderramin/ironflow/internal/repository"
)

type summaryService struct {
	uow db.UnitOfWork
}

func NewSummaryService(uow db.UnitOfWork) SummaryService {
	return &summaryService{uow: uow}
}

func (s *summaryService) Summary(ctx context.Context) (*WorkspaceSummary, error) {
	out := &WorkspaceSummary{}
	err := s.uow.WithinSnapshot(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		if out.ProcessCount, err = repository.NewSQLiteProcessRepo(tx).Count(ctx); err != nil {
			return err
		}

		cals := repository.NewSQLiteCalendarRepo(tx)
		teams, err := cals.ListTeams(ctx)
		if err != nil {
			return err
		}
		out.TeamCount = len(teams)
		if out.HolidayCount, err = cals.CountHolidays(ctx); err != nil {
			return err
		}

		projects, err := repository.NewSQLiteBlockRepo(tx).Summaries(ctx)
		if err != nil {
			return err
		}
		out.ProjectCount = len(projects)
		for _, p := range projects {
			out.BlockCount += p.BlockCount
		}

		run, err := repository.NewSQLiteScheduleRepo(tx).LatestRun(ctx)
		switch {
		case errors.Is(err, repository.ErrNotFound):
		case err != nil:
			return err
		default:
			out.LatestRun = &run.ComputedAt
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
