package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the database schema. The DDL is valid for both sqlite and
// postgres.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createTripsQuery := `
	CREATE TABLE IF NOT EXISTS trips (
		trip_id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		start_date TEXT NOT NULL,
		start_time TEXT NOT NULL DEFAULT '',
		duration_days INTEGER NOT NULL CHECK (duration_days >= 1),
		total_cost DOUBLE PRECISION NOT NULL DEFAULT 0
	);
	`

	createStopsQuery := `
	CREATE TABLE IF NOT EXISTS stops (
		stop_id TEXT PRIMARY KEY,
		trip_id TEXT NOT NULL REFERENCES trips(trip_id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		stop_order INTEGER NOT NULL,
		stay_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT '',
		is_fixed_time BOOLEAN NOT NULL DEFAULT FALSE,
		fixed_date TEXT NOT NULL DEFAULT '',
		fixed_time TEXT NOT NULL DEFAULT '',
		travel_minutes INTEGER,
		transport_mode TEXT NOT NULL DEFAULT 'driving'
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_stops_trip_order
	ON stops(trip_id, stop_order);
	`

	statements := []string{
		createTripsQuery,
		createStopsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
