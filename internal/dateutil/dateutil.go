// Package dateutil anchors the Sunday-Thursday teaching week on calendar dates.
package dateutil

import (
	"errors"
	"strings"
	"time"
)

// Validation errors.
var (
	ErrInvalidDateFormat = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidWeek       = errors.New("week must be YYYY-MM-DD, 'this-week', 'next-week' or 'upcoming'")
)

// ParseDate parses a date string in YYYY-MM-DD format.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekStart returns the Sunday on or before t, at midnight.
func WeekStart(t time.Time) time.Time {
	day := TruncateToDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// NextWeekStart returns the Sunday on or after t, at midnight.
func NextWeekStart(t time.Time) time.Time {
	day := TruncateToDay(t)
	return day.AddDate(0, 0, (7-int(day.Weekday()))%7)
}

// ParseWeek resolves a week anchor relative to a date. It accepts:
//   - "" or "upcoming": the Sunday on or after relativeTo
//   - "this-week": the Sunday on or before relativeTo
//   - "next-week": the Sunday after that
//   - "YYYY-MM-DD": the Sunday on or before that date
//
// Input is case-insensitive.
func ParseWeek(s string, relativeTo time.Time) (time.Time, error) {
	input := strings.ToLower(strings.TrimSpace(s))
	switch input {
	case "", "upcoming":
		return NextWeekStart(relativeTo), nil
	case "this-week":
		return WeekStart(relativeTo), nil
	case "next-week":
		return WeekStart(relativeTo).AddDate(0, 0, 7), nil
	}

	t, err := ParseDate(input)
	if err != nil {
		return time.Time{}, ErrInvalidWeek
	}
	return WeekStart(t), nil
}
