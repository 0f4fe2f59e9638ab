package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/ironflow/internal/domain"
)

// parseNullableDate parses a sql.NullString into a *time.Time.
// Returns nil if the value is NULL, empty, or fails to parse.
func parseNullableDate(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(domain.DateLayout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullableDate returns nil (SQL NULL) for a nil or zero date.
func nullableDate(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.Format(domain.DateLayout)
}

func parseDate(column, s string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", column, err)
	}
	return t, nil
}

func parseTimestamp(column, s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", column, err)
	}
	return t, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func intToBool(i int) bool {
	return i != 0
}

func affected(res sql.Result) int {
	n, err := res.RowsAffected()
	if err != nil {
		return 0
	}
	return int(n)
}
