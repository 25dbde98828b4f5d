package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	DateLayout        = "2006-01-02"
	ClockLayout       = "15:04"
	DisplayDateLayout = "Mon, Jan 2"
)

// ParseDate parses a YYYY-MM-DD calendar date as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return d, nil
}

// ParseClock parses a 24-hour HH:MM time of day.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse(ClockLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

// At combines a calendar date with an HH:MM time of day in loc.
func At(date time.Time, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	h, m, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	y, mo, d := date.In(loc).Date()
	return time.Date(y, mo, d, h, m, 0, 0, loc), nil
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddDays moves t by n calendar days, keeping the wall clock.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// DayDiff returns the number of calendar days from one date to another.
// Time of day is ignored. Dates are compared on their own wall calendars,
// so DST transitions do not shift the result.
func DayDiff(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

func FormatDate(t time.Time) string  { return t.Format(DateLayout) }
func FormatClock(t time.Time) string { return t.Format(ClockLayout) }
func DisplayDate(t time.Time) string { return t.Format(DisplayDateLayout) }

// HoursToDuration converts fractional stay hours to a duration.
func HoursToDuration(h float64) time.Duration {
	return time.Duration(math.Round(h*3600)) * time.Second
}
