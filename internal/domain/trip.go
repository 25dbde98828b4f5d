package domain

import (
	"strings"
	"time"
)

// Trip is the container a schedule is computed for. The engine only reads it.
type Trip struct {
	ID           string
	Title        string
	StartDate    string // YYYY-MM-DD
	StartTime    string // HH:MM, empty means DefaultStartTime
	DurationDays int
	TotalCost    float64
}

// StartClock returns the trip's start-of-day, defaulting to fallback.
func (t Trip) StartClock(fallback string) string {
	if s := strings.TrimSpace(t.StartTime); s != "" {
		return s
	}
	return fallback
}

// Begin returns the first instant of the trip.
func (t Trip) Begin(rules TimingRules) (time.Time, error) {
	d, err := ParseDate(t.StartDate, rules.Loc())
	if err != nil {
		return time.Time{}, err
	}
	return At(d, t.StartClock(rules.DefaultStartTime), rules.Loc())
}

// DayDate returns the calendar date of the given 1-based day number.
func (t Trip) DayDate(day int, rules TimingRules) (time.Time, error) {
	d, err := ParseDate(t.StartDate, rules.Loc())
	if err != nil {
		return time.Time{}, err
	}
	return AddDays(d, day-1), nil
}
