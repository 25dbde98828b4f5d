package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"itinerary-service/internal/adapters/memory"
	"itinerary-service/internal/domain"
)

const yamlSeed = `
- trip_id: t1
  title: Porto
  start_date: "2024-06-01"
  duration_days: 2
  stops:
    - stop_id: s1
      name: Ribeira
      order: 0
      stay_hours: 2
    - stop_id: s2
      name: Port cellar
      order: 1
      stay_hours: 1.5
      travel_minutes: 10
      transport_mode: walking
      is_fixed_time: true
      fixed_date: "2024-06-01"
      fixed_time: "14:00"
`

const jsonSeed = `[
  {"trip_id": "t2", "title": "Rome", "start_date": "2024-07-01", "duration_days": 1,
   "stops": [{"stop_id": "r1", "name": "Colosseum", "order": 0, "stay_hours": 3}]}
]`

func writeSeed(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	return path
}

func TestSeedFromYAML(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	if err := SeedFromFile(ctx, repo, writeSeed(t, "trips.yaml", yamlSeed), SeedSkipExisting); err != nil {
		t.Fatalf("SeedFromFile: %v", err)
	}

	stops, err := repo.ListStops(ctx, "t1")
	if err != nil || len(stops) != 2 {
		t.Fatalf("ListStops = %+v, %v", stops, err)
	}
	s2 := stops[1]
	if !s2.IsFixedTime || s2.FixedTime != "14:00" || s2.TravelMinutes == nil || *s2.TravelMinutes != 10 {
		t.Errorf("s2 = %+v", s2)
	}

	// Replacing with the same file is idempotent.
	if err := SeedFromFile(ctx, repo, writeSeed(t, "trips.yml", yamlSeed), SeedReplace); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	stops, _ = repo.ListStops(ctx, "t1")
	if len(stops) != 2 {
		t.Errorf("stops after reseed = %d", len(stops))
	}
}

func TestSeedKeepsEditsUnlessReplacing(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	path := writeSeed(t, "trips.yaml", yamlSeed)

	if err := SeedFromFile(ctx, repo, path, SeedSkipExisting); err != nil {
		t.Fatalf("SeedFromFile: %v", err)
	}

	stay := 0.75
	if err := repo.PatchStop(ctx, "t1", "s1", domain.StopPatch{StayHours: &stay}); err != nil {
		t.Fatalf("PatchStop: %v", err)
	}
	if err := repo.DeleteStop(ctx, "t1", "s2"); err != nil {
		t.Fatalf("DeleteStop: %v", err)
	}

	// A restart seeds again; the edited trip is left alone.
	if err := SeedFromFile(ctx, repo, path, SeedSkipExisting); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	stops, _ := repo.ListStops(ctx, "t1")
	if len(stops) != 1 || stops[0].StayHours != 0.75 {
		t.Fatalf("stops after skip reseed = %+v", stops)
	}

	if err := SeedFromFile(ctx, repo, path, SeedReplace); err != nil {
		t.Fatalf("replace reseed: %v", err)
	}
	stops, _ = repo.ListStops(ctx, "t1")
	if len(stops) != 2 || stops[0].StayHours != 2 {
		t.Errorf("stops after replace = %+v", stops)
	}
}

func TestSeedFromJSONIntoMemory(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewTripRepository()

	if err := SeedFromFile(ctx, repo, writeSeed(t, "trips.json", jsonSeed), SeedSkipExisting); err != nil {
		t.Fatalf("SeedFromFile: %v", err)
	}
	trip, err := repo.GetTrip(ctx, "t2")
	if err != nil || trip.Title != "Rome" {
		t.Fatalf("GetTrip = %+v, %v", trip, err)
	}
}

func TestSeedValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing trip id", `[{"title":"x","start_date":"2024-06-01","duration_days":1}]`},
		{"zero duration", `[{"trip_id":"t","title":"x","start_date":"2024-06-01","duration_days":0}]`},
		{"bad start date", `[{"trip_id":"t","title":"x","start_date":"June 1st","duration_days":1}]`},
		{"bad mode", `[{"trip_id":"t","title":"x","start_date":"2024-06-01","duration_days":1,
			"stops":[{"stop_id":"s","name":"n","transport_mode":"boat"}]}]`},
		{"missing stop name", `[{"trip_id":"t","title":"x","start_date":"2024-06-01","duration_days":1,
			"stops":[{"stop_id":"s"}]}]`},
		{"negative stay", `[{"trip_id":"t","title":"x","start_date":"2024-06-01","duration_days":1,
			"stops":[{"stop_id":"s","name":"n","stay_hours":-1}]}]`},
		{"bad anchor", `[{"trip_id":"t","title":"x","start_date":"2024-06-01","duration_days":1,
			"stops":[{"stop_id":"s","name":"n","is_fixed_time":true,"fixed_date":"2024-06-01","fixed_time":"25:00"}]}]`},
		{"not json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := memory.NewTripRepository()
			if err := SeedFromFile(context.Background(), repo, writeSeed(t, "seed.json", tt.body), SeedSkipExisting); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSeedMissingFile(t *testing.T) {
	err := SeedFromFile(context.Background(), memory.NewTripRepository(), filepath.Join(t.TempDir(), "none.json"), SeedSkipExisting)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
