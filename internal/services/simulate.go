package services

import (
	"fmt"
	"time"

	"itinerary-service/internal/domain"
)

// walk is the accumulator threaded through the timeline pass.
// cursor is where the traveller is after the previous stop; done is set once
// the duration cutoff has been hit.
type walk struct {
	cursor time.Time
	index  int
	done   bool
}

// timeline holds the per-trip inputs that do not change during a pass.
type timeline struct {
	trip      domain.Trip
	rules     domain.TimingRules
	tripStart time.Time
}

// Simulate walks stops in order once and returns their arrival/departure
// times bucketed by trip day.
//
// Anchored stops reset the clock to their fixed date/time. Floating stops
// arrive travel minutes after the previous departure, roll over to the next
// morning when they would arrive at or after the rollover hour, and end the
// walk once they fall past the trip's last day. Stops after that point are
// left out of the result.
func Simulate(trip domain.Trip, stops []domain.Stop, rules domain.TimingRules) (*domain.Schedule, error) {
	begin, err := trip.Begin(rules)
	if err != nil {
		return nil, fmt.Errorf("simulate trip %s: %w", trip.ID, err)
	}

	tl := timeline{trip: trip, rules: rules, tripStart: begin}
	sched := domain.NewSchedule()

	w := walk{cursor: begin}
	for _, s := range domain.SortStops(stops) {
		var out *domain.ScheduledStop
		w, out, err = tl.step(w, s)
		if err != nil {
			return nil, fmt.Errorf("simulate trip %s: %w", trip.ID, err)
		}
		if w.done {
			break
		}
		sched.Append(*out)
	}

	return sched, nil
}

// step advances the walk over one stop. It returns the next walk and the
// scheduled stop, or a walk with done set when the cutoff is reached.
func (tl timeline) step(w walk, s domain.Stop) (walk, *domain.ScheduledStop, error) {
	anchor, fixed, err := s.Anchor(tl.rules)
	if err != nil {
		return w, nil, err
	}

	arrival := w.cursor
	switch {
	case fixed:
		arrival = anchor
	case w.index > 0:
		arrival = arrival.Add(s.Travel(tl.rules))
	}

	day := domain.DayDiff(tl.tripStart, arrival) + 1

	if !fixed && day <= tl.trip.DurationDays && arrival.Hour() >= tl.rules.RolloverHour {
		day++
		nextMorning := domain.AddDays(domain.StartOfDay(arrival), 1)
		arrival, err = domain.At(nextMorning, tl.trip.StartClock(tl.rules.DefaultStartTime), tl.rules.Loc())
		if err != nil {
			return w, nil, err
		}
	}

	if !fixed && day > tl.trip.DurationDays {
		return walk{cursor: arrival, index: w.index + 1, done: true}, nil, nil
	}

	departure := arrival.Add(domain.HoursToDuration(s.StayHours))
	out := &domain.ScheduledStop{
		Stop:        s,
		Arrival:     arrival,
		Departure:   departure,
		Day:         day,
		DisplayDate: domain.DisplayDate(arrival),
	}

	return walk{cursor: departure, index: w.index + 1}, out, nil
}
