package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"itinerary-service/internal/domain"
	"itinerary-service/internal/platform/obs"
	"itinerary-service/internal/ports"

	"github.com/google/uuid"
)

// Itinerary coordinates the timing engine with persistence.
//
// Every write follows the same protocol: simulate the current stops to get a
// snapshot, derive the mutations from that snapshot, write them, then re-read
// and simulate again. Nothing is cached between calls.
type Itinerary struct {
	Repo     ports.TripRepository
	Notifier ports.ChangeNotifier
	Rules    domain.TimingRules
	// Now is used for change timestamps; nil means time.Now.
	Now func() time.Time
}

func NewItinerary(repo ports.TripRepository, notifier ports.ChangeNotifier, rules domain.TimingRules) *Itinerary {
	return &Itinerary{Repo: repo, Notifier: notifier, Rules: rules}
}

type SaveStopRequest struct {
	TripID string
	Stop   domain.Stop
	IsNew  bool
	// ViewDay is the day the user is looking at; 0 is the all-days view.
	ViewDay int
}

type SaveStopResult struct {
	Stop           domain.Stop
	Promoted       bool
	Reconciliation Reconciliation
	Schedule       *domain.Schedule
	// Warning is set when the predecessor could not be adjusted.
	Warning string
}

// TripSchedule loads a trip with its stops and simulates it.
func (it *Itinerary) TripSchedule(ctx context.Context, tripID string) (domain.Trip, []domain.Stop, *domain.Schedule, error) {
	trip, stops, err := it.load(ctx, tripID)
	if err != nil {
		return domain.Trip{}, nil, nil, fmt.Errorf("trip schedule: %w", err)
	}

	sched, err := Simulate(trip, stops, it.Rules)
	if err != nil {
		return domain.Trip{}, nil, nil, fmt.Errorf("trip schedule: %w", err)
	}
	return trip, stops, sched, nil
}

// SaveStop creates or edits a stop, applying the anchor policy and the
// backward stay reconciliation before writing.
func (it *Itinerary) SaveStop(ctx context.Context, req SaveStopRequest) (_ *SaveStopResult, err error) {
	defer obs.Time(ctx, "itinerary.SaveStop")(&err)

	trip, stops, err := it.load(ctx, req.TripID)
	if err != nil {
		return nil, fmt.Errorf("save stop: %w", err)
	}

	candidate := req.Stop
	candidate.TripID = trip.ID
	candidate.Name = strings.TrimSpace(candidate.Name)
	if candidate.Name == "" {
		return nil, fmt.Errorf("save stop: %w", ErrInvalidStop("name is required"))
	}
	if candidate.StayHours < 0 {
		return nil, fmt.Errorf("save stop: %w", ErrInvalidStop("stay hours must not be negative"))
	}
	if candidate.TravelMinutes != nil && *candidate.TravelMinutes < 0 {
		return nil, fmt.Errorf("save stop: %w", ErrInvalidStop("travel minutes must not be negative"))
	}

	if req.IsNew {
		if candidate.ID == "" {
			candidate.ID = uuid.NewString()
		}
		candidate.Order = domain.NextOrder(stops)
	} else {
		existing, ok := findStop(stops, candidate.ID)
		if !ok {
			return nil, fmt.Errorf("save stop %s: %w", candidate.ID, ports.ErrNotFound)
		}
		candidate.Order = existing.Order
	}

	// Phase 1: snapshot of the schedule as it stands before this edit.
	snapshot, err := Simulate(trip, stops, it.Rules)
	if err != nil {
		return nil, fmt.Errorf("save stop: snapshot: %w", err)
	}

	res := &SaveStopResult{}

	// Phase 2: derive and write mutations from the snapshot.
	candidate, res.Promoted, err = AssignAnchorIfNeeded(trip, snapshot, candidate, req.ViewDay, req.IsNew, it.Rules)
	if err != nil {
		return nil, fmt.Errorf("save stop: %w", err)
	}
	if _, _, err := candidate.Anchor(it.Rules); err != nil {
		return nil, fmt.Errorf("save stop: %w", ErrInvalidStop(err.Error()))
	}

	pred := FindPredecessor(stops, candidate.ID, req.IsNew)
	res.Reconciliation, err = Reconcile(candidate, pred, snapshot, it.Rules)
	if err != nil {
		return nil, fmt.Errorf("save stop: %w", err)
	}

	switch res.Reconciliation.Outcome {
	case ReconcileApplied:
		patch, _ := res.Reconciliation.Patch()
		if err := it.Repo.PatchStop(ctx, trip.ID, pred.ID, patch); err != nil {
			return nil, fmt.Errorf("save stop: adjust stay of %s: %w", pred.ID, err)
		}
		it.publish(ctx, trip.ID, pred.ID, domain.ChangeStopPatched)
	case ReconcileInfeasible:
		res.Warning = res.Reconciliation.Err.Error()
		log.Printf("op=itinerary.SaveStop trip=%s stop=%s warn=%q", trip.ID, candidate.ID, res.Warning)
	}

	if err := it.Repo.UpsertStop(ctx, candidate); err != nil {
		return nil, fmt.Errorf("save stop %s: %w", candidate.ID, err)
	}
	it.publish(ctx, trip.ID, candidate.ID, domain.ChangeStopSaved)

	// Phase 3: re-simulate from what is now stored.
	_, _, res.Schedule, err = it.TripSchedule(ctx, trip.ID)
	if err != nil {
		return nil, fmt.Errorf("save stop: %w", err)
	}
	res.Stop = candidate

	return res, nil
}

// DeleteStop removes a stop and returns the recomputed schedule.
func (it *Itinerary) DeleteStop(ctx context.Context, tripID, stopID string) (*domain.Schedule, error) {
	if err := it.Repo.DeleteStop(ctx, tripID, stopID); err != nil {
		return nil, fmt.Errorf("delete stop %s: %w", stopID, err)
	}
	it.publish(ctx, tripID, stopID, domain.ChangeStopDeleted)

	_, _, sched, err := it.TripSchedule(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("delete stop %s: %w", stopID, err)
	}
	return sched, nil
}

// CreateTrip validates and stores a new trip.
func (it *Itinerary) CreateTrip(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	trip.Title = strings.TrimSpace(trip.Title)
	if trip.ID == "" {
		trip.ID = uuid.NewString()
	}
	if trip.Title == "" {
		return domain.Trip{}, fmt.Errorf("create trip: %w", ErrInvalidTrip("title is required"))
	}
	if trip.DurationDays < 1 {
		return domain.Trip{}, fmt.Errorf("create trip: %w", ErrInvalidTrip("duration_days must be at least 1"))
	}
	if _, err := trip.Begin(it.Rules); err != nil {
		return domain.Trip{}, fmt.Errorf("create trip: %w", ErrInvalidTrip(err.Error()))
	}

	if err := it.Repo.CreateTrip(ctx, trip); err != nil {
		return domain.Trip{}, fmt.Errorf("create trip: %w", err)
	}
	it.publish(ctx, trip.ID, "", domain.ChangeTripUpdated)
	return trip, nil
}

// UpdateTotalCost writes the running cost maintained by the expense side.
func (it *Itinerary) UpdateTotalCost(ctx context.Context, tripID string, total float64) error {
	if total < 0 {
		return fmt.Errorf("update total cost: %w", ErrInvalidTrip("total cost must not be negative"))
	}
	if err := it.Repo.UpdateTotalCost(ctx, tripID, total); err != nil {
		return fmt.Errorf("update total cost: %w", err)
	}
	it.publish(ctx, tripID, "", domain.ChangeTripUpdated)
	return nil
}

func (it *Itinerary) load(ctx context.Context, tripID string) (domain.Trip, []domain.Stop, error) {
	trip, err := it.Repo.GetTrip(ctx, tripID)
	if err != nil {
		return domain.Trip{}, nil, fmt.Errorf("get trip %s: %w", tripID, err)
	}

	stops, err := it.Repo.ListStops(ctx, tripID)
	if err != nil {
		return domain.Trip{}, nil, fmt.Errorf("list stops of %s: %w", tripID, err)
	}
	return trip, stops, nil
}

// publish is best effort; a lost notification only delays other sessions.
func (it *Itinerary) publish(ctx context.Context, tripID, stopID string, kind domain.ChangeKind) {
	if it.Notifier == nil {
		return
	}

	now := time.Now
	if it.Now != nil {
		now = it.Now
	}

	change := domain.TripChange{TripID: tripID, StopID: stopID, Kind: kind, At: now().UTC()}
	if err := it.Notifier.Publish(ctx, change); err != nil {
		log.Printf("publish change failed: trip=%s stop=%s kind=%s err=%v", tripID, stopID, kind, err)
	}
}

func findStop(stops []domain.Stop, id string) (domain.Stop, bool) {
	for _, s := range stops {
		if s.ID == id {
			return s, true
		}
	}
	return domain.Stop{}, false
}

// ValidationError reports bad user input; handlers map it to 400.
type ValidationError struct {
	Subject string
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Subject, e.Reason)
}

func ErrInvalidStop(reason string) error { return &ValidationError{Subject: "stop", Reason: reason} }
func ErrInvalidTrip(reason string) error { return &ValidationError{Subject: "trip", Reason: reason} }

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
