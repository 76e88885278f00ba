// Package models defines data structures for planlens
package models

import (
	"fmt"
	"strings"
	"time"
)

// Date layouts. Provider NAV dates are DD-MM-YYYY; user-entered dates are ISO.
const (
	NAVDateLayout = "02-01-2006"
	ISODateLayout = "2006-01-02"
)

// ParseNAVDate parses a provider DD-MM-YYYY date as a naive calendar date (UTC midnight).
func ParseNAVDate(s string) (time.Time, error) {
	t, err := time.Parse(NAVDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid NAV date %q want DD-MM-YYYY: %w", s, err)
	}
	return t, nil
}

// ParseISODate parses a YYYY-MM-DD date as a naive calendar date (UTC midnight).
func ParseISODate(s string) (time.Time, error) {
	t, err := time.Parse(ISODateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q want YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

// FormatISODate formats a calendar date as YYYY-MM-DD.
func FormatISODate(t time.Time) string {
	return t.Format(ISODateLayout)
}

// Day strips the clock from t, keeping its calendar date as UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthStart returns the first day of t's month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthEnd returns the last day of t's month.
func MonthEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), DaysInMonth(t.Year(), t.Month()), 0, 0, 0, 0, time.UTC)
}

// ClampedDay returns day-of-month `day` in the given month, clamped to the
// month's last day (a day-31 schedule lands on 28/29 February).
func ClampedDay(year int, month time.Month, day int) time.Time {
	if last := DaysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// YearsBetween returns the elapsed time from a to b in 365-day years.
func YearsBetween(a, b time.Time) float64 {
	return Day(b).Sub(Day(a)).Hours() / 24 / 365
}
