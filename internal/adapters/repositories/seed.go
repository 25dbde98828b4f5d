package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"itinerary-service/internal/domain"
	"itinerary-service/internal/ports"

	"gopkg.in/yaml.v3"
)

type StopSeed struct {
	StopID        string  `json:"stop_id" yaml:"stop_id"`
	Name          string  `json:"name" yaml:"name"`
	Order         int     `json:"order" yaml:"order"`
	StayHours     float64 `json:"stay_hours" yaml:"stay_hours"`
	Notes         string  `json:"notes" yaml:"notes"`
	IsFixedTime   bool    `json:"is_fixed_time" yaml:"is_fixed_time"`
	FixedDate     string  `json:"fixed_date" yaml:"fixed_date"`
	FixedTime     string  `json:"fixed_time" yaml:"fixed_time"`
	TravelMinutes *int    `json:"travel_minutes" yaml:"travel_minutes"`
	TransportMode string  `json:"transport_mode" yaml:"transport_mode"`
}

type TripSeed struct {
	TripID       string     `json:"trip_id" yaml:"trip_id"`
	Title        string     `json:"title" yaml:"title"`
	StartDate    string     `json:"start_date" yaml:"start_date"`
	StartTime    string     `json:"start_time" yaml:"start_time"`
	DurationDays int        `json:"duration_days" yaml:"duration_days"`
	TotalCost    float64    `json:"total_cost" yaml:"total_cost"`
	Stops        []StopSeed `json:"stops" yaml:"stops"`
}

// SeedMode decides what happens to trips that already exist.
type SeedMode int

const (
	// SeedSkipExisting leaves stored trips and their stops untouched, so
	// reconciled stays and user edits survive a restart.
	SeedSkipExisting SeedMode = iota
	// SeedReplace overwrites stored trips and seeded stops with the file.
	SeedReplace
)

// LoadSeeds reads trip seeds from a .json, .yaml or .yml file.
func LoadSeeds(path string) ([]TripSeed, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load seeds: read %q: %w", path, err)
	}

	var data []TripSeed
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(bytes, &data); err != nil {
			return nil, fmt.Errorf("load seeds: parse yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(bytes, &data); err != nil {
			return nil, fmt.Errorf("load seeds: parse json: %w", err)
		}
	}

	return data, nil
}

// Populate the repository with trips and stops from a seed file.
func SeedFromFile(ctx context.Context, repo ports.TripRepository, path string, mode SeedMode) error {
	seeds, err := LoadSeeds(path)
	if err != nil {
		return err
	}
	return Seed(ctx, repo, seeds, mode)
}

// Seed validates and writes trips with their stops. Seed ids are kept as
// given.
func Seed(ctx context.Context, repo ports.TripRepository, seeds []TripSeed, mode SeedMode) error {
	rules := domain.DefaultTimingRules()

	for i, ts := range seeds {
		trip := domain.Trip{
			ID:           strings.TrimSpace(ts.TripID),
			Title:        strings.TrimSpace(ts.Title),
			StartDate:    strings.TrimSpace(ts.StartDate),
			StartTime:    strings.TrimSpace(ts.StartTime),
			DurationDays: ts.DurationDays,
			TotalCost:    ts.TotalCost,
		}
		if trip.ID == "" {
			return fmt.Errorf("seed trips: trip at index %d: trip_id cannot be empty", i+1)
		}
		if trip.DurationDays < 1 {
			return fmt.Errorf("seed trips: trip %q: invalid duration_days %d", trip.ID, trip.DurationDays)
		}
		if _, err := trip.Begin(rules); err != nil {
			return fmt.Errorf("seed trips: trip %q: %w", trip.ID, err)
		}

		if mode == SeedSkipExisting {
			_, err := repo.GetTrip(ctx, trip.ID)
			if err == nil {
				log.Printf("seed trips: skip existing trip=%s", trip.ID)
				continue
			}
			if !errors.Is(err, ports.ErrNotFound) {
				return fmt.Errorf("seed trips: %w", err)
			}
		}

		if err := repo.CreateTrip(ctx, trip); err != nil {
			return fmt.Errorf("seed trips: %w", err)
		}

		for j, ss := range ts.Stops {
			mode, err := domain.ParseTransportMode(ss.TransportMode)
			if err != nil {
				return fmt.Errorf("seed trips: trip %q stop at index %d: %w", trip.ID, j+1, err)
			}

			stop := domain.Stop{
				ID:            strings.TrimSpace(ss.StopID),
				TripID:        trip.ID,
				Name:          strings.TrimSpace(ss.Name),
				Order:         ss.Order,
				StayHours:     ss.StayHours,
				Notes:         ss.Notes,
				IsFixedTime:   ss.IsFixedTime,
				FixedDate:     strings.TrimSpace(ss.FixedDate),
				FixedTime:     strings.TrimSpace(ss.FixedTime),
				TravelMinutes: ss.TravelMinutes,
				TransportMode: mode,
			}
			if stop.ID == "" || stop.Name == "" {
				return fmt.Errorf("seed trips: trip %q stop at index %d: stop_id and name are required", trip.ID, j+1)
			}
			if stop.Order < 0 || stop.StayHours < 0 {
				return fmt.Errorf("seed trips: stop %q: order and stay_hours must be non-negative", stop.ID)
			}
			if _, _, err := stop.Anchor(rules); err != nil {
				return fmt.Errorf("seed trips: %w", err)
			}

			if err := repo.UpsertStop(ctx, stop); err != nil {
				return fmt.Errorf("seed trips: %w", err)
			}
		}
	}

	return nil
}
