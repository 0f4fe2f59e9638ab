package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/ironflow/internal/db"
	"github.com/alexanderramin/ironflow/internal/domain"
	"github.com/google/uuid"
)

// SQLiteBlockRepo implements BlockRepo using a SQLite database.
// Blocks are listed in registration order.
type SQLiteBlockRepo struct {
	db db.DBTX
}

func NewSQLiteBlockRepo(conn db.DBTX) *SQLiteBlockRepo {
	return &SQLiteBlockRepo{db: conn}
}

const blockColumns = `id, project_no, block_no, weight_ton, deadline, created_at, updated_at`

func (r *SQLiteBlockRepo) Upsert(ctx context.Context, b *domain.Block) error {
	now := time.Now().UTC()
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO blocks (`+blockColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(project_no, block_no) DO UPDATE SET
			weight_ton = excluded.weight_ton,
			deadline   = excluded.deadline,
			updated_at = excluded.updated_at`,
		b.ID, b.ProjectNo, b.BlockNo, b.WeightTon, domain.FormatDate(b.Deadline),
		formatTimestamp(b.CreatedAt), formatTimestamp(b.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting block %s: %w", b.Label(), err)
	}

	var createdAt string
	err = r.db.QueryRowContext(ctx,
		`SELECT id, created_at FROM blocks WHERE project_no = ? AND block_no = ?`,
		b.ProjectNo, b.BlockNo).Scan(&b.ID, &createdAt)
	if err != nil {
		return fmt.Errorf("reading back block %s: %w", b.Label(), err)
	}
	if b.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM block_durations WHERE block_id = ?`, b.ID); err != nil {
		return fmt.Errorf("clearing block %s durations: %w", b.Label(), err)
	}
	for process, days := range b.Durations {
		if days <= 0 {
			continue
		}
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO block_durations (block_id, process_name, days) VALUES (?, ?, ?)`, b.ID, process, days)
		if err != nil {
			return fmt.Errorf("inserting block %s duration for %s: %w", b.Label(), process, err)
		}
	}
	return nil
}

func (r *SQLiteBlockRepo) GetByKey(ctx context.Context, projectNo, blockNo string) (*domain.Block, error) {
	blocks, err := r.query(ctx, `WHERE project_no = ? AND block_no = ?`, projectNo, blockNo)
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, fmt.Errorf("block %s-%s: %w", projectNo, blockNo, ErrNotFound)
	}
	return &blocks[0], nil
}

func (r *SQLiteBlockRepo) List(ctx context.Context) ([]domain.Block, error) {
	return r.query(ctx, "")
}

func (r *SQLiteBlockRepo) ListByProject(ctx context.Context, projectNo string) ([]domain.Block, error) {
	return r.query(ctx, `WHERE project_no = ?`, projectNo)
}

// DeleteProject removes every block of projectNo and returns how many were removed.
func (r *SQLiteBlockRepo) DeleteProject(ctx context.Context, projectNo string) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blocks WHERE project_no = ?`, projectNo)
	if err != nil {
		return 0, fmt.Errorf("deleting project %s: %w", projectNo, err)
	}
	return affected(res), nil
}

// SetProjectDuration applies days for process to every block of projectNo.
// Non-positive days clear the entry so the process default applies again.
// Returns the number of blocks in the project.
func (r *SQLiteBlockRepo) SetProjectDuration(ctx context.Context, projectNo, process string, days int) (int, error) {
	var err error
	if days <= 0 {
		_, err = r.db.ExecContext(ctx,
			`DELETE FROM block_durations WHERE process_name = ?
			AND block_id IN (SELECT id FROM blocks WHERE project_no = ?)`, process, projectNo)
	} else {
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO block_durations (block_id, process_name, days)
			SELECT id, ?, ? FROM blocks WHERE project_no = ?
			ON CONFLICT(block_id, process_name) DO UPDATE SET days = excluded.days`,
			process, days, projectNo)
	}
	if err != nil {
		return 0, fmt.Errorf("setting %s duration for project %s: %w", process, projectNo, err)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE blocks SET updated_at = ? WHERE project_no = ?`, formatTimestamp(time.Now()), projectNo)
	if err != nil {
		return 0, fmt.Errorf("touching project %s: %w", projectNo, err)
	}
	return affected(res), nil
}

func (r *SQLiteBlockRepo) Summaries(ctx context.Context) ([]domain.ProjectSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT project_no, COUNT(*), SUM(weight_ton), MIN(deadline), MAX(deadline)
		FROM blocks GROUP BY project_no ORDER BY MIN(rowid)`)
	if err != nil {
		return nil, fmt.Errorf("summarizing projects: %w", err)
	}
	defer rows.Close()

	var out []domain.ProjectSummary
	for rows.Next() {
		var s domain.ProjectSummary
		var earliest, latest string
		if err := rows.Scan(&s.ProjectNo, &s.BlockCount, &s.TotalWeightTon, &earliest, &latest); err != nil {
			return nil, fmt.Errorf("scanning project summary: %w", err)
		}
		if s.EarliestDeadline, err = parseDate("deadline", earliest); err != nil {
			return nil, err
		}
		if s.LatestDeadline, err = parseDate("deadline", latest); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project summaries: %w", err)
	}
	return out, nil
}

func (r *SQLiteBlockRepo) query(ctx context.Context, where string, args ...any) ([]domain.Block, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+blockColumns+` FROM blocks `+where+` ORDER BY rowid`, args...)
	if err != nil {
		return nil, fmt.Errorf("listing blocks: %w", err)
	}
	var blocks []domain.Block
	index := make(map[string]int)
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		index[b.ID] = len(blocks)
		blocks = append(blocks, b)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("iterating blocks: %w", err)
	}
	if len(blocks) == 0 {
		return nil, nil
	}

	// The pool has one connection, so durations are read after the block
	// cursor is closed.
	drows, err := r.db.QueryContext(ctx,
		`SELECT d.block_id, d.process_name, d.days FROM block_durations d
		JOIN blocks b ON b.id = d.block_id `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("listing block durations: %w", err)
	}
	defer drows.Close()
	for drows.Next() {
		var (
			id, process string
			days        int
		)
		if err := drows.Scan(&id, &process, &days); err != nil {
			return nil, fmt.Errorf("scanning block duration: %w", err)
		}
		if i, ok := index[id]; ok {
			blocks[i].SetDuration(process, days)
		}
	}
	if err := drows.Err(); err != nil {
		return nil, fmt.Errorf("iterating block durations: %w", err)
	}
	return blocks, nil
}

func scanBlock(rows *sql.Rows) (domain.Block, error) {
	var b domain.Block
	var deadline, createdAt, updatedAt string
	if err := rows.Scan(&b.ID, &b.ProjectNo, &b.BlockNo, &b.WeightTon, &deadline, &createdAt, &updatedAt); err != nil {
		return b, fmt.Errorf("scanning block row: %w", err)
	}
	var err error
	if b.Deadline, err = parseDate("deadline", deadline); err != nil {
		return b, err
	}
	if b.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
		return b, err
	}
	if b.UpdatedAt, err = parseTimestamp("updated_at", updatedAt); err != nil {
		return b, err
	}
	b.Durations = make(map[string]int)
	return b, nil
}
