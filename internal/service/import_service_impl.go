package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/ironflow/internal/db"
	"github.com/alexanderramin/ironflow/internal/domain"
	"github.com/alexanderramin/ironflow/internal/repository"
	"github.com/alexanderramin/ironflow/internal/workbook"
)

type importService struct {
	observed
	uow db.UnitOfWork
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{observed: newObserved(observers), uow: uow}
}

func (s *importService) ImportWorkbook(ctx context.Context, path string) (*ImportResult, error) {
	wb, err := workbook.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading workbook: %w", err)
	}
	return s.ImportWorkbookContents(ctx, wb)
}

func (s *importService) ImportWorkbookContents(ctx context.Context, wb *workbook.Workbook) (result *ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"format": "workbook"}
	defer func() { s.finish(ctx, "import-workbook", startedAt, fields, err) }()

	if errs := workbook.Validate(wb); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	contents, err := workbook.Convert(wb)
	if err != nil {
		return nil, fmt.Errorf("converting workbook: %w", err)
	}

	result = &ImportResult{
		ProcessCount: contents.Pipeline.Len(),
		HolidayCount: len(contents.GlobalHolidays),
		ProjectCount: len(wb.Projects),
		BlockCount:   len(contents.Blocks),
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := clearWorkspace(ctx, tx); err != nil {
			return err
		}
		if err := repository.NewSQLiteProcessRepo(tx).ReplaceAll(ctx, contents.Pipeline.Steps()); err != nil {
			return fmt.Errorf("storing processes: %w", err)
		}

		cals := repository.NewSQLiteCalendarRepo(tx)
		for _, c := range contents.Teams {
			if err := cals.UpsertTeam(ctx, c); err != nil {
				return fmt.Errorf("storing team calendar: %w", err)
			}
			result.HolidayCount += len(c.Holidays)
		}
		if _, _, err := syncTeamCalendars(ctx, tx, contents.Pipeline); err != nil {
			return fmt.Errorf("syncing team calendars: %w", err)
		}
		for _, d := range contents.GlobalHolidays {
			if _, err := cals.AddGlobalHoliday(ctx, d); err != nil {
				return fmt.Errorf("storing global holiday: %w", err)
			}
		}

		blocks := repository.NewSQLiteBlockRepo(tx)
		for i := range contents.Blocks {
			if err := blocks.Upsert(ctx, &contents.Blocks[i]); err != nil {
				return fmt.Errorf("storing block: %w", err)
			}
		}

		teams, err := cals.ListTeams(ctx)
		if err != nil {
			return err
		}
		result.TeamCount = len(teams)
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["process_count"] = result.ProcessCount
	fields["block_count"] = result.BlockCount
	return result, nil
}

func (s *importService) ImportBlocks(ctx context.Context, r io.Reader) (result *ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"format": "csv"}
	defer func() { s.finish(ctx, "import-blocks", startedAt, fields, err) }()

	result = &ImportResult{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		p, err := loadPipeline(ctx, tx)
		if err != nil {
			return err
		}
		blocks, err := workbook.ReadBlocks(r, p)
		if err != nil {
			return err
		}

		var order []string
		byProject := make(map[string][]domain.Block)
		for _, b := range blocks {
			if _, ok := byProject[b.ProjectNo]; !ok {
				order = append(order, b.ProjectNo)
			}
			byProject[b.ProjectNo] = append(byProject[b.ProjectNo], b)
		}
		for _, projectNo := range order {
			if err := registerProject(ctx, tx, projectNo, byProject[projectNo]); err != nil {
				return fmt.Errorf("registering project %s: %w", projectNo, err)
			}
		}
		result.ProcessCount = p.Len()
		result.ProjectCount = len(order)
		result.BlockCount = len(blocks)
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["project_count"] = result.ProjectCount
	fields["block_count"] = result.BlockCount
	return result, nil
}

func (s *importService) Export(ctx context.Context) (wb *workbook.Workbook, err error) {
	err = s.uow.WithinSnapshot(ctx, func(ctx context.Context, tx db.DBTX) error {
		contents, err := loadSnapshot(ctx, tx)
		if err != nil {
			return err
		}
		wb = workbook.FromWorkspace(contents)
		return nil
	})
	return wb, err
}

// clearWorkspace removes processes, calendars and blocks. Stored schedule
// runs are kept; each carries its own pipeline.
func clearWorkspace(ctx context.Context, tx db.DBTX) error {
	for _, table := range []string{"blocks", "team_calendars", "global_holidays", "processes"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("workbook validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
