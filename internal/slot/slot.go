// Package slot defines the fixed weekly grid: five teaching days of eight periods.
package slot

import "fmt"

const (
	// Days is the number of teaching days in a week.
	Days = 5
	// PeriodsPerDay is the number of periods in a teaching day.
	PeriodsPerDay = 8
	// Count is the total number of slot indices in a week.
	Count = Days * PeriodsPerDay
)

// Period is one fixed teaching period of a day.
type Period struct {
	Start string // "H:MM", 12-hour clock as printed on the timetable
	End   string
}

// Label returns the "start - end" form used in every rendering.
func (p Period) Label() string {
	return p.Start + " - " + p.End
}

var dayNames = [Days]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday"}

var periods = [PeriodsPerDay]Period{
	{Start: "9:00", End: "9:45"},
	{Start: "9:45", End: "10:30"},
	{Start: "10:45", End: "11:30"},
	{Start: "11:30", End: "12:15"},
	{Start: "12:30", End: "1:15"},
	{Start: "1:15", End: "2:00"},
	{Start: "2:15", End: "3:00"},
	{Start: "3:00", End: "3:45"},
}

// DayOf returns the day (0-4) a slot index falls on.
func DayOf(slotIndex int) int {
	return slotIndex / PeriodsPerDay
}

// PeriodOf returns the period (0-7) of a slot index within its day.
func PeriodOf(slotIndex int) int {
	return slotIndex % PeriodsPerDay
}

// Index returns the slot index for a day and period.
func Index(day, period int) int {
	return day*PeriodsPerDay + period
}

// Valid reports whether a slot index is inside the weekly grid.
func Valid(slotIndex int) bool {
	return slotIndex >= 0 && slotIndex < Count
}

// Fits reports whether a run of duration slots starting at slotIndex stays
// inside the grid and on a single day.
func Fits(slotIndex, duration int) bool {
	if duration <= 0 || !Valid(slotIndex) {
		return false
	}
	last := slotIndex + duration - 1
	return Valid(last) && DayOf(slotIndex) == DayOf(last)
}

// DayName returns the display name of a day, or "Day N" when out of range.
func DayName(day int) string {
	if day < 0 || day >= Days {
		return fmt.Sprintf("Day %d", day)
	}
	return dayNames[day]
}

// DayNames returns the display names of all teaching days in order.
func DayNames() []string {
	names := make([]string, Days)
	copy(names, dayNames[:])
	return names
}

// PeriodAt returns the fixed period definition for a period index.
func PeriodAt(period int) (Period, bool) {
	if period < 0 || period >= PeriodsPerDay {
		return Period{}, false
	}
	return periods[period], true
}

// PeriodLabel returns the time label of a period, or "Slot N" when out of range.
func PeriodLabel(period int) string {
	p, ok := PeriodAt(period)
	if !ok {
		return fmt.Sprintf("Slot %d", period)
	}
	return p.Label()
}

// SpanLabel returns the time label covering duration periods starting at the
// given slot index, e.g. "9:00 - 10:30" for a two-period session.
func SpanLabel(slotIndex, duration int) string {
	first, ok := PeriodAt(PeriodOf(slotIndex))
	if !ok || duration <= 0 {
		return PeriodLabel(PeriodOf(slotIndex))
	}
	last, ok := PeriodAt(PeriodOf(slotIndex) + duration - 1)
	if !ok {
		return first.Label()
	}
	return first.Start + " - " + last.End
}
