package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/ironflow/internal/db"
	"github.com/alexanderramin/ironflow/internal/domain"
	"github.com/alexanderramin/ironflow/internal/repository"
)

type blockService struct {
	observed
	uow db.UnitOfWork
}

func NewBlockService(uow db.UnitOfWork, observers ...UseCaseObserver) BlockService {
	return &blockService{observed: newObserved(observers), uow: uow}
}

func (s *blockService) RegisterProject(ctx context.Context, projectNo string, blocks []domain.Block) (n int, err error) {
	startedAt := time.Now().UTC()
	projectNo = strings.TrimSpace(projectNo)
	fields := map[string]any{"project": projectNo, "block_count": len(blocks)}
	defer func() { s.finish(ctx, "register-project", startedAt, fields, err) }()

	if projectNo == "" {
		return 0, fmt.Errorf("project number is required")
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return registerProject(ctx, tx, projectNo, blocks)
	})
	if err != nil {
		return 0, err
	}
	return len(blocks), nil
}

func registerProject(ctx context.Context, tx db.DBTX, projectNo string, blocks []domain.Block) error {
	repo := repository.NewSQLiteBlockRepo(tx)
	if _, err := repo.DeleteProject(ctx, projectNo); err != nil {
		return err
	}
	for i := range blocks {
		b := blocks[i]
		b.ProjectNo = projectNo
		if err := validateBlock(&b); err != nil {
			return err
		}
		if err := repo.Upsert(ctx, &b); err != nil {
			return err
		}
		blocks[i].ID = b.ID
	}
	return nil
}

func (s *blockService) UpsertBlock(ctx context.Context, b *domain.Block) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"block": b.Label()}
	defer func() { s.finish(ctx, "upsert-block", startedAt, fields, err) }()

	b.ProjectNo = strings.TrimSpace(b.ProjectNo)
	b.BlockNo = strings.TrimSpace(b.BlockNo)
	if err := validateBlock(b); err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteBlockRepo(tx).Upsert(ctx, b)
	})
}

func validateBlock(b *domain.Block) error {
	switch {
	case b.ProjectNo == "":
		return fmt.Errorf("block %q: project number is required", b.BlockNo)
	case b.BlockNo == "":
		return fmt.Errorf("project %s: block number is required", b.ProjectNo)
	case b.Deadline.IsZero():
		return fmt.Errorf("block %s: deadline is required", b.Label())
	case b.WeightTon < 0:
		return fmt.Errorf("block %s: weight must not be negative", b.Label())
	}
	b.Deadline = domain.Day(b.Deadline)
	return nil
}

// ApplyDuration rejects processes that are not Duration steps of the
// current pipeline. Non-positive days restore the process default.
func (s *blockService) ApplyDuration(ctx context.Context, projectNo, process string, days int) (n int, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project": projectNo, "process": process, "days": days}
	defer func() { s.finish(ctx, "apply-duration", startedAt, fields, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		p, err := loadPipeline(ctx, tx)
		if err != nil {
			return err
		}
		proc, ok := p.Lookup(process)
		if !ok {
			return fmt.Errorf("unknown process %q", process)
		}
		if _, ok := proc.Kind.(domain.Duration); !ok || proc.Role() != domain.RoleWork {
			return fmt.Errorf("process %q is not a duration process", proc.Name)
		}
		n, err = repository.NewSQLiteBlockRepo(tx).SetProjectDuration(ctx, projectNo, proc.Name, days)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("project %s: %w", projectNo, repository.ErrNotFound)
		}
		return nil
	})
	fields["block_count"] = n
	return n, err
}

func (s *blockService) List(ctx context.Context) (blocks []domain.Block, err error) {
	err = s.uow.WithinSnapshot(ctx, func(ctx context.Context, tx db.DBTX) error {
		blocks, err = repository.NewSQLiteBlockRepo(tx).List(ctx)
		return err
	})
	return blocks, err
}

func (s *blockService) ListProject(ctx context.Context, projectNo string) (blocks []domain.Block, err error) {
	err = s.uow.WithinSnapshot(ctx, func(ctx context.Context, tx db.DBTX) error {
		blocks, err = repository.NewSQLiteBlockRepo(tx).ListByProject(ctx, projectNo)
		return err
	})
	return blocks, err
}

func (s *blockService) DeleteProject(ctx context.Context, projectNo string) (n int, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project": projectNo}
	defer func() { s.finish(ctx, "delete-project", startedAt, fields, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		n, err = repository.NewSQLiteBlockRepo(tx).DeleteProject(ctx, projectNo)
		return err
	})
	fields["block_count"] = n
	return n, err
}

func (s *blockService) Projects(ctx context.Context) (out []domain.ProjectSummary, err error) {
	err = s.uow.WithinSnapshot(ctx, func(ctx context.Context, tx db.DBTX) error {
		out, err = repository.NewSQLiteBlockRepo(tx).Summaries(ctx)
		return err
	})
	return out, err
}
