package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Every statement is idempotent.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS processes (
		name         TEXT PRIMARY KEY COLLATE NOCASE,
		kind         TEXT NOT NULL CHECK(kind IN ('duration','milestone')),
		default_days INTEGER NOT NULL DEFAULT 0 CHECK(default_days >= 0),
		order_index  INTEGER NOT NULL,
		team_code    TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE INDEX IF NOT EXISTS idx_processes_order ON processes(order_index)`,

	`CREATE TABLE IF NOT EXISTS team_calendars (
		team_code     TEXT PRIMARY KEY,
		work_weekdays INTEGER NOT NULL CHECK(work_weekdays BETWEEN 0 AND 127)
	)`,

	`CREATE TABLE IF NOT EXISTS team_holidays (
		team_code TEXT NOT NULL REFERENCES team_calendars(team_code) ON DELETE CASCADE,
		holiday   TEXT NOT NULL,
		PRIMARY KEY (team_code, holiday)
	)`,

	`CREATE TABLE IF NOT EXISTS global_holidays (
		holiday TEXT PRIMARY KEY
	)`,

	`CREATE TABLE IF NOT EXISTS blocks (
		id         TEXT PRIMARY KEY,
		project_no TEXT NOT NULL,
		block_no   TEXT NOT NULL,
		weight_ton REAL NOT NULL DEFAULT 0,
		deadline   TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE (project_no, block_no)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_blocks_project ON blocks(project_no)`,

	`CREATE TABLE IF NOT EXISTS block_durations (
		block_id     TEXT NOT NULL REFERENCES blocks(id) ON DELETE CASCADE,
		process_name TEXT NOT NULL,
		days         INTEGER NOT NULL CHECK(days > 0),
		PRIMARY KEY (block_id, process_name)
	)`,

	`CREATE TABLE IF NOT EXISTS schedule_runs (
		id          TEXT PRIMARY KEY,
		computed_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS schedule_run_processes (
		run_id       TEXT NOT NULL REFERENCES schedule_runs(id) ON DELETE CASCADE,
		order_index  INTEGER NOT NULL,
		name         TEXT NOT NULL,
		kind         TEXT NOT NULL CHECK(kind IN ('duration','milestone')),
		default_days INTEGER NOT NULL DEFAULT 0,
		team_code    TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (run_id, order_index)
	)`,

	`CREATE TABLE IF NOT EXISTS schedule_blocks (
		run_id     TEXT NOT NULL REFERENCES schedule_runs(id) ON DELETE CASCADE,
		seq        INTEGER NOT NULL,
		block_id   TEXT NOT NULL,
		project_no TEXT NOT NULL,
		block_no   TEXT NOT NULL,
		weight_ton REAL NOT NULL DEFAULT 0,
		deadline   TEXT NOT NULL,
		pnd_date   TEXT,
		PRIMARY KEY (run_id, seq)
	)`,

	`CREATE TABLE IF NOT EXISTS schedule_entries (
		run_id       TEXT NOT NULL,
		seq          INTEGER NOT NULL,
		process_name TEXT NOT NULL,
		kind         TEXT NOT NULL CHECK(kind IN ('span','milestone')),
		start_date   TEXT,
		end_date     TEXT,
		days         INTEGER NOT NULL DEFAULT 0,
		defaulted    INTEGER NOT NULL DEFAULT 0,
		milestone    TEXT,
		PRIMARY KEY (run_id, seq, process_name),
		FOREIGN KEY (run_id, seq) REFERENCES schedule_blocks(run_id, seq) ON DELETE CASCADE
	)`,
}
