package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

type TransportMode string

const (
	TransportDriving TransportMode = "driving"
	TransportTransit TransportMode = "transit"
	TransportWalking TransportMode = "walking"
)

// ParseTransportMode accepts the closed set of modes; empty means driving.
func ParseTransportMode(s string) (TransportMode, error) {
	switch m := TransportMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return TransportDriving, nil
	case TransportDriving, TransportTransit, TransportWalking:
		return m, nil
	default:
		return "", fmt.Errorf("unknown transport mode %q", s)
	}
}

// Stop is a single visit on the itinerary.
// FixedDate and FixedTime only matter when IsFixedTime is set.
// TravelMinutes is the time needed to reach this stop from the previous one;
// nil means the default.
type Stop struct {
	ID            string
	TripID        string
	Name          string
	Order         int
	StayHours     float64
	Notes         string
	IsFixedTime   bool
	FixedDate     string
	FixedTime     string
	TravelMinutes *int
	TransportMode TransportMode
}

// Travel returns the travel lead time to this stop.
func (s Stop) Travel(rules TimingRules) time.Duration {
	m := rules.DefaultTravelMinutes
	if s.TravelMinutes != nil {
		m = *s.TravelMinutes
	}
	return time.Duration(m) * time.Minute
}

// Anchored reports whether the stop pins its arrival. A fixed stop missing
// either half of its date/time is treated as floating.
func (s Stop) Anchored() bool {
	return s.IsFixedTime && strings.TrimSpace(s.FixedDate) != "" && strings.TrimSpace(s.FixedTime) != ""
}

// Anchor returns the pinned arrival. ok is false for floating stops.
func (s Stop) Anchor(rules TimingRules) (at time.Time, ok bool, err error) {
	if !s.Anchored() {
		return time.Time{}, false, nil
	}
	d, err := ParseDate(s.FixedDate, rules.Loc())
	if err != nil {
		return time.Time{}, false, fmt.Errorf("stop %s: %w", s.ID, err)
	}
	at, err = At(d, s.FixedTime, rules.Loc())
	if err != nil {
		return time.Time{}, false, fmt.Errorf("stop %s: %w", s.ID, err)
	}
	return at, true, nil
}

// StopPatch is a merge update; nil fields are left alone.
type StopPatch struct {
	StayHours   *float64
	IsFixedTime *bool
	FixedDate   *string
	FixedTime   *string
}

func (p StopPatch) Apply(s Stop) Stop {
	if p.StayHours != nil {
		s.StayHours = *p.StayHours
	}
	if p.IsFixedTime != nil {
		s.IsFixedTime = *p.IsFixedTime
	}
	if p.FixedDate != nil {
		s.FixedDate = *p.FixedDate
	}
	if p.FixedTime != nil {
		s.FixedTime = *p.FixedTime
	}
	return s
}

func (p StopPatch) Empty() bool {
	return p.StayHours == nil && p.IsFixedTime == nil && p.FixedDate == nil && p.FixedTime == nil
}

// SortStops returns a copy of stops ordered by Order. Equal orders keep their
// input position.
func SortStops(stops []Stop) []Stop {
	out := slices.Clone(stops)
	slices.SortStableFunc(out, func(a, b Stop) int { return a.Order - b.Order })
	return out
}

// NextOrder is one past the highest order in use.
func NextOrder(stops []Stop) int {
	next := 0
	for _, s := range stops {
		if s.Order >= next {
			next = s.Order + 1
		}
	}
	return next
}
