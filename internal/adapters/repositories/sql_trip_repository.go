package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"itinerary-service/internal/domain"
	"itinerary-service/internal/platform/obs"
	"itinerary-service/internal/ports"
)

// SQL-backed implementation of the TripRepository port.
type SQLTripRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

var _ ports.TripRepository = (*SQLTripRepository)(nil)

func NewSQLTripRepository(db *sql.DB, dialect Dialect) *SQLTripRepository {
	return &SQLTripRepository{DB: db, Dialect: dialect}
}

func (s *SQLTripRepository) GetTrip(ctx context.Context, tripID string) (_ domain.Trip, err error) {
	defer obs.Time(ctx, "repo.GetTrip")(&err)

	if s.DB == nil {
		return domain.Trip{}, errors.New("sql trip repository: DB is nil")
	}

	q := s.Dialect.Rebind(`
	SELECT trip_id, title, start_date, start_time, duration_days, total_cost
	FROM trips
	WHERE trip_id = ?;
	`)

	var t domain.Trip
	err = s.DB.QueryRowContext(ctx, q, tripID).Scan(
		&t.ID, &t.Title, &t.StartDate, &t.StartTime, &t.DurationDays, &t.TotalCost,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Trip{}, fmt.Errorf("get trip %q: %w", tripID, ports.ErrNotFound)
	}
	if err != nil {
		return domain.Trip{}, fmt.Errorf("get trip %q: %w", tripID, err)
	}

	return t, nil
}

func (s *SQLTripRepository) ListTrips(ctx context.Context) ([]domain.Trip, error) {
	if s.DB == nil {
		return nil, errors.New("sql trip repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT trip_id, title, start_date, start_time, duration_days, total_cost
	FROM trips
	ORDER BY start_date, trip_id;
	`)
	if err != nil {
		return nil, fmt.Errorf("list trips: query trips table: %w", err)
	}
	defer rows.Close()

	trips := make([]domain.Trip, 0, 16)
	for rows.Next() {
		var t domain.Trip
		if err := rows.Scan(&t.ID, &t.Title, &t.StartDate, &t.StartTime, &t.DurationDays, &t.TotalCost); err != nil {
			return nil, fmt.Errorf("list trips: scan row: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trips: row iteration: %w", err)
	}

	return trips, nil
}

func (s *SQLTripRepository) CreateTrip(ctx context.Context, t domain.Trip) error {
	if s.DB == nil {
		return errors.New("sql trip repository: DB is nil")
	}

	q := s.Dialect.Rebind(`
	INSERT INTO trips (trip_id, title, start_date, start_time, duration_days, total_cost)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (trip_id) DO UPDATE
	SET title = EXCLUDED.title,
		start_date = EXCLUDED.start_date,
		start_time = EXCLUDED.start_time,
		duration_days = EXCLUDED.duration_days;
	`)
	if _, err := s.DB.ExecContext(ctx, q, t.ID, t.Title, t.StartDate, t.StartTime, t.DurationDays, t.TotalCost); err != nil {
		return fmt.Errorf("create trip %q: %w", t.ID, err)
	}

	return nil
}

func (s *SQLTripRepository) UpdateTotalCost(ctx context.Context, tripID string, total float64) error {
	if s.DB == nil {
		return errors.New("sql trip repository: DB is nil")
	}

	q := s.Dialect.Rebind(`UPDATE trips SET total_cost = ? WHERE trip_id = ?;`)
	res, err := s.DB.ExecContext(ctx, q, total, tripID)
	if err != nil {
		return fmt.Errorf("update total cost of %q: %w", tripID, err)
	}

	return expectRow(res, fmt.Sprintf("update total cost of %q", tripID))
}

func (s *SQLTripRepository) ListStops(ctx context.Context, tripID string) (_ []domain.Stop, err error) {
	defer obs.Time(ctx, "repo.ListStops")(&err)

	if s.DB == nil {
		return nil, errors.New("sql trip repository: DB is nil")
	}

	q := s.Dialect.Rebind(`
	SELECT
		stop_id,
		trip_id,
		name,
		stop_order,
		stay_hours,
		notes,
		is_fixed_time,
		fixed_date,
		fixed_time,
		travel_minutes,
		transport_mode
	FROM stops
	WHERE trip_id = ?
	ORDER BY stop_order, stop_id;
	`)

	rows, err := s.DB.QueryContext(ctx, q, tripID)
	if err != nil {
		return nil, fmt.Errorf("list stops: query stops table: %w", err)
	}
	defer rows.Close()

	stops := make([]domain.Stop, 0, 32)
	for rows.Next() {
		var (
			st     domain.Stop
			travel sql.NullInt64
			mode   string
		)
		err := rows.Scan(
			&st.ID, &st.TripID, &st.Name, &st.Order, &st.StayHours, &st.Notes,
			&st.IsFixedTime, &st.FixedDate, &st.FixedTime, &travel, &mode,
		)
		if err != nil {
			return nil, fmt.Errorf("list stops: scan row: %w", err)
		}
		if travel.Valid {
			m := int(travel.Int64)
			st.TravelMinutes = &m
		}
		st.TransportMode = domain.TransportMode(mode)
		stops = append(stops, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stops: row iteration: %w", err)
	}

	return stops, nil
}

func (s *SQLTripRepository) UpsertStop(ctx context.Context, st domain.Stop) error {
	if s.DB == nil {
		return errors.New("sql trip repository: DB is nil")
	}

	if strings.TrimSpace(st.ID) == "" {
		return errors.New("upsert stop: empty stop id")
	}

	var travel sql.NullInt64
	if st.TravelMinutes != nil {
		travel = sql.NullInt64{Int64: int64(*st.TravelMinutes), Valid: true}
	}
	mode := st.TransportMode
	if mode == "" {
		mode = domain.TransportDriving
	}

	q := s.Dialect.Rebind(`
	INSERT INTO stops (
		stop_id,
		trip_id,
		name,
		stop_order,
		stay_hours,
		notes,
		is_fixed_time,
		fixed_date,
		fixed_time,
		travel_minutes,
		transport_mode
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (stop_id) DO UPDATE
	SET name = EXCLUDED.name,
		stop_order = EXCLUDED.stop_order,
		stay_hours = EXCLUDED.stay_hours,
		notes = EXCLUDED.notes,
		is_fixed_time = EXCLUDED.is_fixed_time,
		fixed_date = EXCLUDED.fixed_date,
		fixed_time = EXCLUDED.fixed_time,
		travel_minutes = EXCLUDED.travel_minutes,
		transport_mode = EXCLUDED.transport_mode;
	`)

	_, err := s.DB.ExecContext(ctx, q,
		st.ID, st.TripID, st.Name, st.Order, st.StayHours, st.Notes,
		st.IsFixedTime, st.FixedDate, st.FixedTime, travel, string(mode),
	)
	if err != nil {
		return fmt.Errorf("upsert stop %q: %w", st.ID, err)
	}

	return nil
}

// PatchStop updates only the columns present in patch.
func (s *SQLTripRepository) PatchStop(ctx context.Context, tripID, stopID string, patch domain.StopPatch) error {
	if s.DB == nil {
		return errors.New("sql trip repository: DB is nil")
	}

	if patch.Empty() {
		return nil
	}

	sets := make([]string, 0, 4)
	args := make([]any, 0, 6)
	if patch.StayHours != nil {
		sets = append(sets, "stay_hours = ?")
		args = append(args, *patch.StayHours)
	}
	if patch.IsFixedTime != nil {
		sets = append(sets, "is_fixed_time = ?")
		args = append(args, *patch.IsFixedTime)
	}
	if patch.FixedDate != nil {
		sets = append(sets, "fixed_date = ?")
		args = append(args, *patch.FixedDate)
	}
	if patch.FixedTime != nil {
		sets = append(sets, "fixed_time = ?")
		args = append(args, *patch.FixedTime)
	}
	args = append(args, tripID, stopID)

	// Only the column list is interpolated; all values remain parameterized.
	q := s.Dialect.Rebind(fmt.Sprintf(
		`UPDATE stops SET %s WHERE trip_id = ? AND stop_id = ?;`,
		strings.Join(sets, ", "),
	))

	res, err := s.DB.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("patch stop %q: %w", stopID, err)
	}

	return expectRow(res, fmt.Sprintf("patch stop %q", stopID))
}

func (s *SQLTripRepository) DeleteStop(ctx context.Context, tripID, stopID string) error {
	if s.DB == nil {
		return errors.New("sql trip repository: DB is nil")
	}

	q := s.Dialect.Rebind(`DELETE FROM stops WHERE trip_id = ? AND stop_id = ?;`)
	res, err := s.DB.ExecContext(ctx, q, tripID, stopID)
	if err != nil {
		return fmt.Errorf("delete stop %q: %w", stopID, err)
	}

	return expectRow(res, fmt.Sprintf("delete stop %q", stopID))
}

func expectRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ports.ErrNotFound)
	}
	return nil
}
