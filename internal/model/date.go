package model

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date text form used in fleet files and reports.
const DateLayout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from a to b.
// Negative when b is before a. Works on Unix seconds, since a
// time.Duration overflows past about 292 years.
func DaysBetween(a, b time.Time) int {
	return int((Day(b).Unix() - Day(a).Unix()) / secondsPerDay)
}

// AddDays returns the calendar day n days after t.
func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// ParseTime accepts either an RFC 3339 timestamp or a YYYY-MM-DD date.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: want RFC 3339 or %s", s, DateLayout)
	}
	return t, nil
}

// MustDate is ParseDate for literals in tests and fixtures. It panics on error.
func MustDate(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
