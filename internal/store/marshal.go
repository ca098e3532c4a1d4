package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/assetcare/internal/model"
)

// Calendar dates and timestamps are stored in different layouts so that a
// plan's last_maintenance_date reads back as a date, not as midnight UTC
// with a zone suffix.

func dateText(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(model.DateLayout), Valid: true}
}

func timeText(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func optTimeText(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: timeText(*t), Valid: true}
}

func parseDateText(col string, ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := model.ParseDate(ns.String)
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", col, err)
	}
	return &t, nil
}

func parseTimeText(col, s string) (time.Time, error) {
	t, err := model.ParseTime(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("column %s: %w", col, err)
	}
	return t, nil
}

func parseOptTimeText(col string, ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := parseTimeText(col, ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func intValue(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func floatValue(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
