package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/ironflow/internal/db"
	"github.com/alexanderramin/ironflow/internal/domain"
)

// SQLiteCalendarRepo implements CalendarRepo using a SQLite database.
type SQLiteCalendarRepo struct {
	db db.DBTX
}

func NewSQLiteCalendarRepo(conn db.DBTX) *SQLiteCalendarRepo {
	return &SQLiteCalendarRepo{db: conn}
}

func (r *SQLiteCalendarRepo) ListTeams(ctx context.Context) ([]domain.TeamCalendar, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT team_code, work_weekdays FROM team_calendars ORDER BY team_code`)
	if err != nil {
		return nil, fmt.Errorf("listing team calendars: %w", err)
	}
	var teams []domain.TeamCalendar
	index := make(map[string]int)
	for rows.Next() {
		var (
			c    domain.TeamCalendar
			mask int
		)
		if err := rows.Scan(&c.TeamCode, &mask); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning team calendar row: %w", err)
		}
		c.WorkWeekdays = domain.WeekdayMask(mask)
		index[c.TeamCode] = len(teams)
		teams = append(teams, c)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating team calendars: %w", err)
	}
	rows.Close()

	hrows, err := r.db.QueryContext(ctx, `SELECT team_code, holiday FROM team_holidays ORDER BY team_code, holiday`)
	if err != nil {
		return nil, fmt.Errorf("listing team holidays: %w", err)
	}
	defer hrows.Close()
	for hrows.Next() {
		var code, s string
		if err := hrows.Scan(&code, &s); err != nil {
			return nil, fmt.Errorf("scanning team holiday row: %w", err)
		}
		d, err := parseDate("holiday", s)
		if err != nil {
			return nil, err
		}
		if i, ok := index[code]; ok {
			teams[i].Holidays = append(teams[i].Holidays, d)
		}
	}
	if err := hrows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team holidays: %w", err)
	}
	return teams, nil
}

func (r *SQLiteCalendarRepo) GetTeam(ctx context.Context, teamCode string) (*domain.TeamCalendar, error) {
	var mask int
	err := r.db.QueryRowContext(ctx,
		`SELECT work_weekdays FROM team_calendars WHERE team_code = ?`, teamCode).Scan(&mask)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("team calendar %q: %w", teamCode, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning team calendar: %w", err)
	}
	c := &domain.TeamCalendar{TeamCode: teamCode, WorkWeekdays: domain.WeekdayMask(mask)}

	c.Holidays, err = r.queryDates(ctx,
		`SELECT holiday FROM team_holidays WHERE team_code = ? ORDER BY holiday`, teamCode)
	if err != nil {
		return nil, fmt.Errorf("team %q holidays: %w", teamCode, err)
	}
	return c, nil
}

// UpsertTeam stores the weekday mask of c and replaces its holiday list.
func (r *SQLiteCalendarRepo) UpsertTeam(ctx context.Context, c domain.TeamCalendar) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO team_calendars (team_code, work_weekdays) VALUES (?, ?)
		ON CONFLICT(team_code) DO UPDATE SET work_weekdays = excluded.work_weekdays`,
		c.TeamCode, int(c.WorkWeekdays&0x7f))
	if err != nil {
		return fmt.Errorf("upserting team calendar %q: %w", c.TeamCode, err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM team_holidays WHERE team_code = ?`, c.TeamCode); err != nil {
		return fmt.Errorf("clearing team %q holidays: %w", c.TeamCode, err)
	}
	for _, d := range domain.SortDates(c.Holidays) {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO team_holidays (team_code, holiday) VALUES (?, ?)`, c.TeamCode, domain.FormatDate(d))
		if err != nil {
			return fmt.Errorf("inserting team %q holiday: %w", c.TeamCode, err)
		}
	}
	return nil
}

func (r *SQLiteCalendarRepo) DeleteTeam(ctx context.Context, teamCode string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM team_calendars WHERE team_code = ?`, teamCode); err != nil {
		return fmt.Errorf("deleting team calendar %q: %w", teamCode, err)
	}
	return nil
}

func (r *SQLiteCalendarRepo) ListGlobalHolidays(ctx context.Context) ([]time.Time, error) {
	dates, err := r.queryDates(ctx, `SELECT holiday FROM global_holidays ORDER BY holiday`)
	if err != nil {
		return nil, fmt.Errorf("global holidays: %w", err)
	}
	return dates, nil
}

// AddGlobalHoliday reports false when d was already registered.
func (r *SQLiteCalendarRepo) AddGlobalHoliday(ctx context.Context, d time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO global_holidays (holiday) VALUES (?)`, domain.FormatDate(d))
	if err != nil {
		return false, fmt.Errorf("adding global holiday: %w", err)
	}
	return affected(res) > 0, nil
}

// RemoveGlobalHoliday reports false when d was not registered.
func (r *SQLiteCalendarRepo) RemoveGlobalHoliday(ctx context.Context, d time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM global_holidays WHERE holiday = ?`, domain.FormatDate(d))
	if err != nil {
		return false, fmt.Errorf("removing global holiday: %w", err)
	}
	return affected(res) > 0, nil
}

// CountHolidays counts global holidays plus every team holiday entry.
func (r *SQLiteCalendarRepo) CountHolidays(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM global_holidays) + (SELECT COUNT(*) FROM team_holidays)`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting holidays: %w", err)
	}
	return n, nil
}

func (r *SQLiteCalendarRepo) queryDates(ctx context.Context, query string, args ...any) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		d, err := parseDate("holiday", s)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}
