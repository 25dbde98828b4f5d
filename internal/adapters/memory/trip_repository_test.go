package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"itinerary-service/internal/domain"
	"itinerary-service/internal/ports"
)

func TestTripRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewTripRepository()

	if _, err := repo.GetTrip(ctx, "t1"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("GetTrip err = %v", err)
	}
	if err := repo.UpsertStop(ctx, domain.Stop{ID: "a", TripID: "t1", Name: "A"}); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("orphan UpsertStop err = %v", err)
	}

	if err := repo.CreateTrip(ctx, domain.Trip{ID: "t1", Title: "x", StartDate: "2024-06-01", DurationDays: 1}); err != nil {
		t.Fatal(err)
	}
	if err := repo.UpdateTotalCost(ctx, "t1", 10); err != nil {
		t.Fatal(err)
	}
	if err := repo.CreateTrip(ctx, domain.Trip{ID: "t1", Title: "y", StartDate: "2024-06-01", DurationDays: 2}); err != nil {
		t.Fatal(err)
	}
	trip, _ := repo.GetTrip(ctx, "t1")
	if trip.TotalCost != 10 || trip.Title != "y" {
		t.Errorf("trip = %+v", trip)
	}

	for _, s := range []domain.Stop{
		{ID: "c", TripID: "t1", Name: "C", Order: 1},
		{ID: "b", TripID: "t1", Name: "B", Order: 1},
		{ID: "a", TripID: "t1", Name: "A", Order: 0, StayHours: 1},
	} {
		if err := repo.UpsertStop(ctx, s); err != nil {
			t.Fatal(err)
		}
	}

	stops, _ := repo.ListStops(ctx, "t1")
	if len(stops) != 3 || stops[0].ID != "a" || stops[1].ID != "b" || stops[2].ID != "c" {
		t.Fatalf("order = %+v", stops)
	}
	if stops[0].TransportMode != domain.TransportDriving {
		t.Errorf("mode = %q", stops[0].TransportMode)
	}

	stay := 0.5
	if err := repo.PatchStop(ctx, "t1", "a", domain.StopPatch{StayHours: &stay}); err != nil {
		t.Fatal(err)
	}
	stops, _ = repo.ListStops(ctx, "t1")
	if stops[0].StayHours != 0.5 || stops[0].Name != "A" {
		t.Errorf("patched = %+v", stops[0])
	}

	if err := repo.DeleteStop(ctx, "t1", "a"); err != nil {
		t.Fatal(err)
	}
	if err := repo.DeleteStop(ctx, "t1", "a"); !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("second delete err = %v", err)
	}
}

func TestTripRepositoryConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	repo := NewTripRepository()
	if err := repo.CreateTrip(ctx, domain.Trip{ID: "t1", Title: "x", StartDate: "2024-06-01", DurationDays: 1}); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = repo.UpsertStop(ctx, domain.Stop{ID: string(rune('a' + i)), TripID: "t1", Name: "s", Order: i})
			_, _ = repo.ListStops(ctx, "t1")
		}(i)
	}
	wg.Wait()

	stops, _ := repo.ListStops(ctx, "t1")
	if len(stops) != 20 {
		t.Errorf("stops = %d, want 20", len(stops))
	}
}
