// Package calendar maps week offsets to working dates and measures working-day distances.
// Every function takes "today" or the dates it works on as input; nothing here reads the wall clock.
package calendar

import (
	"fmt"
	"time"
)

// DaysPerWeek is the number of bookable days (Monday to Friday).
const DaysPerWeek = 5

// DateLayout is the ISO date format used on the wire and in storage.
const DateLayout = "2006-01-02"

// Normalize strips the time of day from t and pins it to noon in t's location.
// Noon keeps the calendar date stable when the value is later converted to UTC.
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, t.Location())
}

// Monday returns the Monday of the ISO week containing t, normalized.
// Sunday belongs to the week that started on the previous Monday.
func Monday(t time.Time) time.Time {
	day := Normalize(t)
	back := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -back)
}

// WeekDates returns Monday to Friday of the week weekOffset weeks away from the week containing today.
// 0 is the current week, negative offsets are past weeks.
func WeekDates(today time.Time, weekOffset int) [DaysPerWeek]time.Time {
	monday := Monday(today).AddDate(0, 0, 7*weekOffset)

	var dates [DaysPerWeek]time.Time
	for i := range dates {
		dates[i] = monday.AddDate(0, 0, i)
	}
	return dates
}

// IsWorkingDay reports whether t falls on Monday to Friday.
func IsWorkingDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// WorkingDaysBetween counts the working days strictly after from's date up to and including to's date.
// It returns 0 when to is not after from.
func WorkingDaysBetween(from, to time.Time) int {
	d := Normalize(from)
	target := Normalize(to.In(from.Location()))

	count := 0
	for d.Before(target) {
		d = d.AddDate(0, 0, 1)
		if IsWorkingDay(d) {
			count++
		}
	}
	return count
}

// FormatDate renders t as YYYY-MM-DD in its own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string as a normalized date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Normalize(t), nil
}

// WeekLabel renders the Monday to Friday range, e.g. "12. 10. 2026 - 16. 10. 2026".
func WeekLabel(dates [DaysPerWeek]time.Time) string {
	return shortDate(dates[0]) + " - " + shortDate(dates[DaysPerWeek-1])
}

func shortDate(t time.Time) string {
	return fmt.Sprintf("%d. %d. %d", t.Day(), int(t.Month()), t.Year())
}
