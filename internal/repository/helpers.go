package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lani-platform/lani/internal/db"
	"github.com/lani-platform/lani/internal/domain"
)

const dateLayout = domain.DateLayout

// selectRows runs query and maps every row onto T by its db tags.
func selectRows[T any](ctx context.Context, q db.DBTX, query string, args ...any) ([]T, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	if err := sqlx.StructScan(rows, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// getRow is selectRows for a single row. A missing row becomes
// domain.NotFound(entity, id).
func getRow[T any](ctx context.Context, q db.DBTX, entity, id, query string, args ...any) (T, error) {
	var zero T
	rows, err := selectRows[T](ctx, q, query, args...)
	if err != nil {
		return zero, fmt.Errorf("getting %s: %w", entity, err)
	}
	if len(rows) == 0 {
		return zero, domain.NotFound(entity, id)
	}
	return rows[0], nil
}

// requireAffected turns a zero-row write into domain.NotFound.
func requireAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return domain.NotFound(entity, id)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

func parseNullableTime(s sql.NullString, layout string) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(layout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func nullableTimeToString(t *time.Time, layout string) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(layout)
}

func nullableIntToValue(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func nullableString(v sql.NullString) *string {
	if !v.Valid || v.String == "" {
		return nil
	}
	s := v.String
	return &s
}

func nullableStringToValue(v *string) any {
	if v == nil || *v == "" {
		return nil
	}
	return *v
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullableFloatToValue(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
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

func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
