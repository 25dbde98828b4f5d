package ports

import (
	"context"
	"errors"

	"itinerary-service/internal/domain"
)

// ErrNotFound is returned when a trip or stop does not exist.
var ErrNotFound = errors.New("not found")

// Port: a boundary for reading and writing trips and their stops.
type TripRepository interface {
	GetTrip(ctx context.Context, tripID string) (domain.Trip, error)
	ListTrips(ctx context.Context) ([]domain.Trip, error)
	CreateTrip(ctx context.Context, trip domain.Trip) error
	// Update the trip's running total cost.
	UpdateTotalCost(ctx context.Context, tripID string, total float64) error

	// Return the trip's stops ordered by Order.
	ListStops(ctx context.Context, tripID string) ([]domain.Stop, error)
	// Insert or fully replace a stop.
	UpsertStop(ctx context.Context, stop domain.Stop) error
	// Merge-update only the fields set in patch.
	PatchStop(ctx context.Context, tripID, stopID string, patch domain.StopPatch) error
	DeleteStop(ctx context.Context, tripID, stopID string) error
}
