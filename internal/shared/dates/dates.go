// Package dates holds calendar helpers for reporting windows and limit periods.
// All returned bounds are dates at midnight; an end bound is inclusive.
package dates

import (
	"time"
)

// DefaultLayout is day-month-year, the format used by the web forms.
const DefaultLayout = "02-01-2006"

// Period names a reporting or limit window.
type Period string

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
	Yearly  Period = "yearly"
)

// IsValid reports whether p is one of the known periods.
func (p Period) IsValid() bool {
	switch p {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// MonthBounds returns the first and last day of the given month in UTC.
// Months outside 1..12 roll over the same way time.Date does.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	return monthBounds(year, month, time.UTC)
}

func monthBounds(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, -1)
	return start, end
}

// DaysInMonth returns the number of days in month of year.
func DaysInMonth(year int, month time.Month) int {
	_, end := MonthBounds(year, month)
	return end.Day()
}

// WeekBounds returns Monday and Sunday of week number week in year.
// Weeks are counted the way strftime's %W counts them: week 1 starts on the
// first Monday of the year and days before it fall into week 0. Week 0
// starts on the Monday on or before January 1, so it may begin in the
// previous year, and it equals week 1 when the year starts on a Monday.
func WeekBounds(year, week int) (time.Time, time.Time) {
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	if week == 0 {
		start := jan1.AddDate(0, 0, -((int(jan1.Weekday()) + 6) % 7))
		return start, start.AddDate(0, 0, 6)
	}

	offset := (int(time.Monday) - int(jan1.Weekday()) + 7) % 7
	firstMonday := jan1.AddDate(0, 0, offset)

	start := firstMonday.AddDate(0, 0, (week-1)*7)
	return start, start.AddDate(0, 0, 6)
}

// Range returns the window of period that contains ref. Unknown periods
// fall back to Monthly.
func Range(period Period, ref time.Time) (time.Time, time.Time) {
	day := Day(ref)

	switch period {
	case Daily:
		return day, day
	case Weekly:
		// time.Weekday starts at Sunday; shift so Monday is 0.
		back := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -back)
		return start, start.AddDate(0, 0, 6)
	case Yearly:
		start := time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, day.Location())
		end := time.Date(day.Year(), time.December, 31, 0, 0, 0, 0, day.Location())
		return start, end
	default:
		return monthBounds(day.Year(), day.Month(), day.Location())
	}
}

// Contains reports whether t falls on a day within [start, end].
func Contains(start, end, t time.Time) bool {
	d := Day(t)
	return !d.Before(Day(start)) && !d.After(Day(end))
}

// Format renders t with layout, or DefaultLayout when layout is empty.
// The zero time renders as "".
func Format(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	if layout == "" {
		layout = DefaultLayout
	}
	return Day(t).Format(layout)
}

// Parse reads a date written with layout (DefaultLayout when empty).
// It reports false for empty or malformed input instead of returning an error.
func Parse(s, layout string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if layout == "" {
		layout = DefaultLayout
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, false
	}
	return Day(t), true
}

// MonthsBack returns the first day of each of the last n months ending with
// the month containing now, oldest first.
func MonthsBack(now time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	months := make([]time.Time, 0, n)
	for i := n - 1; i >= 0; i-- {
		months = append(months, first.AddDate(0, -i, 0))
	}
	return months
}
