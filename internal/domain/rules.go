package domain

import "time"

// Timing constants shared by every consumer of the schedule. They are part of
// the externally visible behavior and must not drift.
const (
	// DefaultStartTime is the start-of-day used when a trip has none and for
	// stops promoted to anchors.
	DefaultStartTime = "08:00"
	// DefaultTravelMinutes applies to stops without an explicit travel time.
	DefaultTravelMinutes = 30
	// RolloverHour is the local hour at or after which a non-fixed arrival
	// is pushed to the next morning.
	RolloverHour = 22
)

// TimingRules carries the engine constants together with the zone in which
// dates and times of day are interpreted.
type TimingRules struct {
	DefaultStartTime     string
	DefaultTravelMinutes int
	RolloverHour         int
	Location             *time.Location
}

func DefaultTimingRules() TimingRules {
	return TimingRules{
		DefaultStartTime:     DefaultStartTime,
		DefaultTravelMinutes: DefaultTravelMinutes,
		RolloverHour:         RolloverHour,
		Location:             time.UTC,
	}
}

// Loc returns the configured zone, falling back to UTC.
func (r TimingRules) Loc() *time.Location {
	if r.Location == nil {
		return time.UTC
	}
	return r.Location
}
