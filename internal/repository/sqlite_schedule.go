package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/ironflow/internal/db"
	"github.com/alexanderramin/ironflow/internal/domain"
	"github.com/google/uuid"
)

// SQLiteScheduleRepo implements ScheduleRepo using a SQLite database.
// A run stores the pipeline it was computed with, so later edits to the
// process list do not change how a stored run is exported.
type SQLiteScheduleRepo struct {
	db db.DBTX
}

func NewSQLiteScheduleRepo(conn db.DBTX) *SQLiteScheduleRepo {
	return &SQLiteScheduleRepo{db: conn}
}

func (r *SQLiteScheduleRepo) SaveRun(ctx context.Context, run *domain.ScheduleRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.ComputedAt.IsZero() {
		run.ComputedAt = time.Now().UTC()
	}

	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO schedule_runs (id, computed_at) VALUES (?, ?)`,
		run.ID, formatTimestamp(run.ComputedAt)); err != nil {
		return fmt.Errorf("inserting schedule run: %w", err)
	}

	for _, p := range run.Pipeline {
		var defaultDays int
		if d, ok := p.Kind.(domain.Duration); ok {
			defaultDays = d.DefaultDays
		}
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO schedule_run_processes (run_id, order_index, name, kind, default_days, team_code)
			VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, p.Order, p.Name, domain.KindName(p.Kind), defaultDays, p.TeamCode); err != nil {
			return fmt.Errorf("inserting run process %q: %w", p.Name, err)
		}
	}

	for seq, sb := range run.Blocks {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO schedule_blocks (run_id, seq, block_id, project_no, block_no, weight_ton, deadline, pnd_date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, seq, sb.Block.ID, sb.Block.ProjectNo, sb.Block.BlockNo, sb.Block.WeightTon,
			domain.FormatDate(sb.Deadline), nullableDate(sb.PND)); err != nil {
			return fmt.Errorf("inserting run block %s: %w", sb.Block.Label(), err)
		}
		for name, d := range sb.Processes {
			if err := r.insertEntry(ctx, run.ID, seq, name, d); err != nil {
				return fmt.Errorf("inserting run block %s: %w", sb.Block.Label(), err)
			}
		}
	}
	return nil
}

func (r *SQLiteScheduleRepo) insertEntry(ctx context.Context, runID string, seq int, name string, d domain.ProcessDates) error {
	var start, end, milestone *time.Time
	switch d.Kind {
	case domain.DatesSpan:
		start, end = &d.Start, &d.End
	case domain.DatesMilestone:
		milestone = &d.Date
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO schedule_entries (run_id, seq, process_name, kind, start_date, end_date, days, defaulted, milestone)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, seq, name, string(d.Kind), nullableDate(start), nullableDate(end),
		d.Days, boolToInt(d.Defaulted), nullableDate(milestone))
	if err != nil {
		return fmt.Errorf("entry %q: %w", name, err)
	}
	return nil
}

// GetRun loads a stored run. Block durations are not part of a run; each
// span carries the days it was computed with.
func (r *SQLiteScheduleRepo) GetRun(ctx context.Context, id string) (*domain.ScheduleRun, error) {
	var computedAt string
	err := r.db.QueryRowContext(ctx, `SELECT computed_at FROM schedule_runs WHERE id = ?`, id).Scan(&computedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("schedule run %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning schedule run: %w", err)
	}
	run := &domain.ScheduleRun{ID: id}
	if run.ComputedAt, err = parseTimestamp("computed_at", computedAt); err != nil {
		return nil, err
	}
	if run.Pipeline, err = r.loadPipeline(ctx, id); err != nil {
		return nil, err
	}
	if run.Blocks, err = r.loadBlocks(ctx, id); err != nil {
		return nil, err
	}
	if err := r.loadEntries(ctx, id, run.Blocks); err != nil {
		return nil, err
	}
	return run, nil
}

func (r *SQLiteScheduleRepo) LatestRun(ctx context.Context) (*domain.ScheduleRun, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM schedule_runs ORDER BY computed_at DESC, rowid DESC LIMIT 1`).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("schedule run: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning latest schedule run: %w", err)
	}
	return r.GetRun(ctx, id)
}

func (r *SQLiteScheduleRepo) loadPipeline(ctx context.Context, runID string) ([]domain.ProcessDefinition, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT order_index, name, kind, default_days, team_code FROM schedule_run_processes
		WHERE run_id = ? ORDER BY order_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("listing run processes: %w", err)
	}
	defer rows.Close()

	var defs []domain.ProcessDefinition
	for rows.Next() {
		var p domain.ProcessDefinition
		var kind string
		var defaultDays int
		if err := rows.Scan(&p.Order, &p.Name, &kind, &defaultDays, &p.TeamCode); err != nil {
			return nil, fmt.Errorf("scanning run process: %w", err)
		}
		if p.Kind, err = domain.ParseProcessKind(kind, defaultDays); err != nil {
			return nil, fmt.Errorf("run process %q: %w", p.Name, err)
		}
		defs = append(defs, p)
	}
	return defs, rows.Err()
}

func (r *SQLiteScheduleRepo) loadBlocks(ctx context.Context, runID string) ([]domain.ScheduledBlock, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT block_id, project_no, block_no, weight_ton, deadline, pnd_date FROM schedule_blocks
		WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("listing run blocks: %w", err)
	}
	defer rows.Close()

	var blocks []domain.ScheduledBlock
	for rows.Next() {
		var b domain.Block
		var deadline string
		var pnd sql.NullString
		if err := rows.Scan(&b.ID, &b.ProjectNo, &b.BlockNo, &b.WeightTon, &deadline, &pnd); err != nil {
			return nil, fmt.Errorf("scanning run block: %w", err)
		}
		if b.Deadline, err = parseDate("deadline", deadline); err != nil {
			return nil, err
		}
		blocks = append(blocks, domain.ScheduledBlock{
			Block:     b,
			Deadline:  b.Deadline,
			PND:       parseNullableDate(pnd),
			Processes: make(map[string]domain.ProcessDates),
		})
	}
	return blocks, rows.Err()
}

func (r *SQLiteScheduleRepo) loadEntries(ctx context.Context, runID string, blocks []domain.ScheduledBlock) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT seq, process_name, kind, start_date, end_date, days, defaulted, milestone
		FROM schedule_entries WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("listing run entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			seq, days, defaulted int
			name, kind           string
			start, end, date     sql.NullString
		)
		if err := rows.Scan(&seq, &name, &kind, &start, &end, &days, &defaulted, &date); err != nil {
			return fmt.Errorf("scanning run entry: %w", err)
		}
		if seq < 0 || seq >= len(blocks) {
			return fmt.Errorf("run entry %q references block %d of %d", name, seq, len(blocks))
		}
		d := domain.ProcessDates{Kind: domain.DateKind(kind), Days: days, Defaulted: intToBool(defaulted)}
		if t := parseNullableDate(start); t != nil {
			d.Start = *t
		}
		if t := parseNullableDate(end); t != nil {
			d.End = *t
		}
		if t := parseNullableDate(date); t != nil {
			d.Date = *t
		}
		blocks[seq].Processes[name] = d
	}
	return rows.Err()
}
