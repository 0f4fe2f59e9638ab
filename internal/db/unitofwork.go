package db

import (
	"context"
	"database/sql"
	"fmt"
)

// UnitOfWork manages transactional boundaries. The callback receives a DBTX
// backed by a *sql.Tx; callers create tx-scoped repositories from it.
//
// The workspace pool holds a single connection, so repositories built on the
// raw *sql.DB must not be used while a callback is running.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
	// WithinSnapshot runs fn in a transaction that is always rolled back.
	// It is used to read a consistent copy of the workspace.
	WithinSnapshot(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

// SQLiteUnitOfWork implements UnitOfWork using database/sql transactions.
type SQLiteUnitOfWork struct {
	db *sql.DB
}

func NewSQLiteUnitOfWork(db *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{db: db}
}

func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	return u.run(ctx, fn, true)
}

func (u *SQLiteUnitOfWork) WithinSnapshot(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	return u.run(ctx, fn, false)
}

func (u *SQLiteUnitOfWork) run(ctx context.Context, fn func(ctx context.Context, tx DBTX) error, commit bool) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if !commit {
		if err := tx.Rollback(); err != nil {
			return fmt.Errorf("releasing snapshot: %w", err)
		}
		return nil
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
