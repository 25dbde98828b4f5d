package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"itinerary-service/internal/domain"
	"itinerary-service/internal/ports"
)

// In-memory TripRepository used by tests and offline CLI runs.
// It is safe for concurrent use.
type TripRepository struct {
	mu    sync.RWMutex
	trips map[string]domain.Trip
	stops map[string]map[string]domain.Stop
}

var _ ports.TripRepository = (*TripRepository)(nil)

func NewTripRepository() *TripRepository {
	return &TripRepository{
		trips: make(map[string]domain.Trip),
		stops: make(map[string]map[string]domain.Stop),
	}
}

func (r *TripRepository) GetTrip(_ context.Context, tripID string) (domain.Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.trips[tripID]
	if !ok {
		return domain.Trip{}, fmt.Errorf("get trip %q: %w", tripID, ports.ErrNotFound)
	}
	return t, nil
}

func (r *TripRepository) ListTrips(_ context.Context) ([]domain.Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Trip, 0, len(r.trips))
	for _, t := range r.trips {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b domain.Trip) int {
		if a.StartDate != b.StartDate {
			if a.StartDate < b.StartDate {
				return -1
			}
			return 1
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return out, nil
}

func (r *TripRepository) CreateTrip(_ context.Context, t domain.Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.trips[t.ID]; ok {
		t.TotalCost = old.TotalCost
	}
	r.trips[t.ID] = t
	if r.stops[t.ID] == nil {
		r.stops[t.ID] = make(map[string]domain.Stop)
	}
	return nil
}

func (r *TripRepository) UpdateTotalCost(_ context.Context, tripID string, total float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.trips[tripID]
	if !ok {
		return fmt.Errorf("update total cost of %q: %w", tripID, ports.ErrNotFound)
	}
	t.TotalCost = total
	r.trips[tripID] = t
	return nil
}

func (r *TripRepository) ListStops(_ context.Context, tripID string) ([]domain.Stop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byID := r.stops[tripID]
	out := make([]domain.Stop, 0, len(byID))
	for _, s := range byID {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b domain.Stop) int {
		if a.Order != b.Order {
			return a.Order - b.Order
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return out, nil
}

func (r *TripRepository) UpsertStop(_ context.Context, s domain.Stop) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.trips[s.TripID]; !ok {
		return fmt.Errorf("upsert stop %q: trip %q: %w", s.ID, s.TripID, ports.ErrNotFound)
	}
	if s.TransportMode == "" {
		s.TransportMode = domain.TransportDriving
	}
	r.stops[s.TripID][s.ID] = s
	return nil
}

func (r *TripRepository) PatchStop(_ context.Context, tripID, stopID string, patch domain.StopPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.stops[tripID][stopID]
	if !ok {
		return fmt.Errorf("patch stop %q: %w", stopID, ports.ErrNotFound)
	}
	r.stops[tripID][stopID] = patch.Apply(s)
	return nil
}

func (r *TripRepository) DeleteStop(_ context.Context, tripID, stopID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stops[tripID][stopID]; !ok {
		return fmt.Errorf("delete stop %q: %w", stopID, ports.ErrNotFound)
	}
	delete(r.stops[tripID], stopID)
	return nil
}
