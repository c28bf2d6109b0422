package dateutil

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDate(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		got, err := ParseDate("2026-09-06")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Equal(date(2026, 9, 6)) {
			t.Errorf("got %v", got)
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := ParseDate("06/09/2026")
		if !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("got error %v, want %v", err, ErrInvalidDateFormat)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if _, err := ParseDate(""); !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("got error %v", err)
		}
	})
}

func TestTruncateToDay(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	in := time.Date(2026, 9, 8, 23, 59, 30, 0, loc)
	got := TruncateToDay(in)
	if !got.Equal(time.Date(2026, 9, 8, 0, 0, 0, 0, loc)) || got.Location() != loc {
		t.Errorf("TruncateToDay = %v", got)
	}
}

func TestWeekStart(t *testing.T) {
	// 2026-09-06 is a Sunday.
	tests := []struct {
		name string
		in   time.Time
		prev time.Time
		next time.Time
	}{
		{"sunday", date(2026, 9, 6).Add(18 * time.Hour), date(2026, 9, 6), date(2026, 9, 6)},
		{"thursday", date(2026, 9, 10), date(2026, 9, 6), date(2026, 9, 13)},
		{"saturday", date(2026, 9, 12), date(2026, 9, 6), date(2026, 9, 13)},
		{"across month", date(2026, 10, 1), date(2026, 9, 27), date(2026, 10, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekStart(tt.in); !got.Equal(tt.prev) {
				t.Errorf("WeekStart = %v, want %v", got, tt.prev)
			}
			if got := NextWeekStart(tt.in); !got.Equal(tt.next) {
				t.Errorf("NextWeekStart = %v, want %v", got, tt.next)
			}
		})
	}
}

func TestParseWeek(t *testing.T) {
	tuesday := date(2026, 9, 8)
	tests := []struct {
		in      string
		want    time.Time
		wantErr error
	}{
		{"", date(2026, 9, 13), nil},
		{"upcoming", date(2026, 9, 13), nil},
		{"This-Week", date(2026, 9, 6), nil},
		{"next-week", date(2026, 9, 13), nil},
		{"2026-09-17", date(2026, 9, 13), nil},
		{"2026-09-20", date(2026, 9, 20), nil},
		{"someday", time.Time{}, ErrInvalidWeek},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWeek(tt.in, tuesday)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseWeek(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
