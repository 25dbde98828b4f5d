package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"itinerary-service/internal/domain"
)

// ErrInfeasibleStay means an anchor cannot be reached from its predecessor
// without giving the predecessor a non-positive stay.
var ErrInfeasibleStay = errors.New("requested time is not reachable from the previous stop")

type ReconcileOutcome int

const (
	// ReconcileSkipped: nothing to adjust (candidate floating, first stop,
	// or predecessor missing from the snapshot).
	ReconcileSkipped ReconcileOutcome = iota
	// ReconcileApplied: the predecessor gets a new positive stay.
	ReconcileApplied
	// ReconcileInfeasible: the predecessor is left untouched and the caller
	// should warn.
	ReconcileInfeasible
)

func (o ReconcileOutcome) String() string {
	switch o {
	case ReconcileApplied:
		return "applied"
	case ReconcileInfeasible:
		return "infeasible"
	default:
		return "skipped"
	}
}

// Reconciliation is the result of fitting a predecessor's stay to an anchor.
type Reconciliation struct {
	Outcome       ReconcileOutcome
	PredecessorID string
	StayHours     float64
	// RequiredDeparture is when the predecessor must leave for the anchor.
	RequiredDeparture time.Time
	Err               error
}

// Patch returns the merge update for the predecessor when the outcome is
// applied.
func (r Reconciliation) Patch() (domain.StopPatch, bool) {
	if r.Outcome != ReconcileApplied {
		return domain.StopPatch{}, false
	}
	stay := r.StayHours
	return domain.StopPatch{StayHours: &stay}, true
}

// Reconcile computes the stay the predecessor needs so that leaving it and
// travelling candidate's lead time lands exactly on candidate's anchor.
// snapshot must be the schedule computed before the edit. The adjustment is a
// single hop: nothing further back and nothing after the anchor is touched.
func Reconcile(
	candidate domain.Stop,
	predecessor *domain.Stop,
	snapshot *domain.Schedule,
	rules domain.TimingRules,
) (Reconciliation, error) {
	target, fixed, err := candidate.Anchor(rules)
	if err != nil {
		return Reconciliation{}, fmt.Errorf("reconcile: %w", err)
	}
	if !fixed || predecessor == nil {
		return Reconciliation{Outcome: ReconcileSkipped}, nil
	}

	prev, ok := snapshot.Find(predecessor.ID)
	if !ok {
		return Reconciliation{Outcome: ReconcileSkipped, PredecessorID: predecessor.ID}, nil
	}

	required := target.Add(-candidate.Travel(rules))
	hours := roundHours(required.Sub(prev.Arrival).Hours())

	res := Reconciliation{
		PredecessorID:     predecessor.ID,
		StayHours:         hours,
		RequiredDeparture: required,
	}
	if hours <= 0 {
		res.Outcome = ReconcileInfeasible
		res.Err = fmt.Errorf(
			"%w: %q must depart by %s but arrives at %s",
			ErrInfeasibleStay, prev.Name,
			required.Format("2006-01-02 15:04"), prev.Arrival.Format("2006-01-02 15:04"),
		)
		return res, nil
	}

	res.Outcome = ReconcileApplied
	return res, nil
}

// FindPredecessor picks the stop a reconciliation adjusts: the stop right
// before the edited one in current order, or the current last stop when the
// candidate is new. It returns nil when there is none.
func FindPredecessor(stops []domain.Stop, candidateID string, isNew bool) *domain.Stop {
	ordered := domain.SortStops(stops)
	if len(ordered) == 0 {
		return nil
	}

	if isNew {
		last := ordered[len(ordered)-1]
		return &last
	}

	for i, s := range ordered {
		if s.ID != candidateID {
			continue
		}
		if i == 0 {
			return nil
		}
		prev := ordered[i-1]
		return &prev
	}
	return nil
}

func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
