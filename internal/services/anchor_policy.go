package services

import (
	"fmt"

	"itinerary-service/internal/domain"
)

// AssignAnchorIfNeeded pins a new floating stop to the start of targetDay
// when that day has no stops yet. Without the pin the stop would inherit
// wherever the previous day's timeline ended and might never land on the day
// the user added it to.
//
// targetDay <= 0 means no specific day is being viewed. The returned bool
// reports whether the candidate was promoted.
func AssignAnchorIfNeeded(
	trip domain.Trip,
	snapshot *domain.Schedule,
	candidate domain.Stop,
	targetDay int,
	isNew bool,
	rules domain.TimingRules,
) (domain.Stop, bool, error) {
	if !isNew || candidate.IsFixedTime || targetDay <= 0 {
		return candidate, false, nil
	}
	if _, busy := snapshot.Day(targetDay); busy {
		return candidate, false, nil
	}

	date, err := trip.DayDate(targetDay, rules)
	if err != nil {
		return candidate, false, fmt.Errorf("assign anchor for day %d: %w", targetDay, err)
	}

	candidate.IsFixedTime = true
	candidate.FixedDate = domain.FormatDate(date)
	candidate.FixedTime = rules.DefaultStartTime
	return candidate, true, nil
}
