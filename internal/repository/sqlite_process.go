package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/ironflow/internal/db"
	"github.com/alexanderramin/ironflow/internal/domain"
)

// SQLiteProcessRepo implements ProcessRepo using a SQLite database.
type SQLiteProcessRepo struct {
	db db.DBTX
}

func NewSQLiteProcessRepo(conn db.DBTX) *SQLiteProcessRepo {
	return &SQLiteProcessRepo{db: conn}
}

func (r *SQLiteProcessRepo) List(ctx context.Context) ([]domain.ProcessDefinition, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, kind, default_days, order_index, team_code FROM processes ORDER BY order_index, rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing processes: %w", err)
	}
	defer rows.Close()

	var defs []domain.ProcessDefinition
	for rows.Next() {
		var (
			p           domain.ProcessDefinition
			kind        string
			defaultDays int
		)
		if err := rows.Scan(&p.Name, &kind, &defaultDays, &p.Order, &p.TeamCode); err != nil {
			return nil, fmt.Errorf("scanning process row: %w", err)
		}
		p.Kind, err = domain.ParseProcessKind(kind, defaultDays)
		if err != nil {
			return nil, fmt.Errorf("process %q: %w", p.Name, err)
		}
		defs = append(defs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating processes: %w", err)
	}
	return defs, nil
}

// ReplaceAll deletes every stored process and inserts defs in their given order.
func (r *SQLiteProcessRepo) ReplaceAll(ctx context.Context, defs []domain.ProcessDefinition) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM processes`); err != nil {
		return fmt.Errorf("clearing processes: %w", err)
	}
	for _, p := range defs {
		var defaultDays int
		if d, ok := p.Kind.(domain.Duration); ok {
			defaultDays = d.DefaultDays
		}
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO processes (name, kind, default_days, order_index, team_code) VALUES (?, ?, ?, ?, ?)`,
			p.Name, domain.KindName(p.Kind), defaultDays, p.Order, p.TeamCode)
		if err != nil {
			return fmt.Errorf("inserting process %q: %w", p.Name, err)
		}
	}
	return nil
}

func (r *SQLiteProcessRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM processes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting processes: %w", err)
	}
	return n, nil
}
