package utils

import (
	"strings"
	"time"
)

// DateLayout is the YYYY-MM-DD form used by the date input and the API.
const DateLayout = "2006-01-02"

// DateOf returns the calendar date of t as midnight UTC. The date is read in
// t's own location, so 23:30 in Kuala Lumpur stays on the same day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date in loc.
func Today(loc *time.Location) time.Time {
	return DateOf(time.Now().In(loc))
}

// StartOfWeek returns the Monday of the week containing t.
func StartOfWeek(t time.Time) time.Time {
	day := DateOf(t)
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	return day.AddDate(0, 0, -(weekday - 1))
}

// EndOfWeek returns the Sunday of the week containing t.
func EndOfWeek(t time.Time) time.Time {
	return StartOfWeek(t).AddDate(0, 0, 6)
}

// CalendarWeeksBetween counts the Monday boundaries crossed going from
// earlier to later. A Sunday and the following Monday are one week apart.
func CalendarWeeksBetween(later, earlier time.Time) int {
	days := int(StartOfWeek(later).Sub(StartOfWeek(earlier)).Hours() / 24)
	return days / 7
}

// ParseDate parses a YYYY-MM-DD string into a calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
