package api

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"itinerary-service/internal/adapters/memory"
	"itinerary-service/internal/adapters/notify"
	"itinerary-service/internal/api/dto"
	"itinerary-service/internal/domain"
	"itinerary-service/internal/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	repo := memory.NewTripRepository()
	it := services.NewItinerary(repo, notify.Nop{}, domain.DefaultTimingRules())
	return NewRouter(it, nil, 0)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body=%q)", err, rec.Body.String())
	}
	return v
}

func seedTrip(t *testing.T, h http.Handler) {
	t.Helper()

	rec := do(t, h, http.MethodPost, "/trips",
		`{"trip_id":"t1","title":"Lisbon","start_date":"2024-06-01","duration_days":2}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create trip status = %d body=%s", rec.Code, rec.Body.String())
	}

	for _, body := range []string{
		`{"name":"A","stay_hours":1}`,
		`{"name":"B","stay_hours":2,"travel_minutes":30,"transport_mode":"walking"}`,
	} {
		rec := do(t, h, http.MethodPost, "/trips/t1/stops", body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create stop status = %d body=%s", rec.Code, rec.Body.String())
		}
	}
}

func TestScheduleEndpoint(t *testing.T) {
	h := newTestRouter(t)
	seedTrip(t, h)

	rec := do(t, h, http.MethodGet, "/trips/t1/schedule", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("X-Request-ID"); got == "" {
		t.Error("missing request id header")
	}

	res := decode[dto.ScheduleResponse](t, rec)
	if len(res.Days) != 1 || len(res.Days[0].Stops) != 2 {
		t.Fatalf("schedule = %+v", res)
	}
	b := res.Days[0].Stops[1]
	if b.Name != "B" || b.ArrivalTime != "09:30" || b.DepartureTime != "11:30" || b.StayHoursPart != 2 || b.StayMinutes != 0 {
		t.Errorf("B = %+v", b)
	}
	if res.Days[0].Date != "2024-06-01" {
		t.Errorf("date = %q", res.Days[0].Date)
	}

	rec = do(t, h, http.MethodGet, "/trips/t1/schedule?day=2", "")
	if res := decode[dto.ScheduleResponse](t, rec); len(res.Days) != 0 {
		t.Errorf("empty day should return no buckets, got %+v", res.Days)
	}

	rec = do(t, h, http.MethodGet, "/trips/t1/schedule?day=zero", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad day status = %d", rec.Code)
	}
}

func TestUpdateStopReconcilesAndWarns(t *testing.T) {
	h := newTestRouter(t)
	seedTrip(t, h)

	detail := decode[dto.TripDetailResponse](t, do(t, h, http.MethodGet, "/trips/t1", ""))
	if len(detail.Stops) != 2 {
		t.Fatalf("stops = %+v", detail.Stops)
	}
	bID := detail.Stops[1].StopID

	rec := do(t, h, http.MethodPut, "/trips/t1/stops/"+bID,
		`{"name":"B","stay_hours":2,"travel_minutes":15,"is_fixed_time":true,"fixed_date":"2024-06-01","fixed_time":"09:00"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	res := decode[dto.SaveStopResponse](t, rec)
	if res.Reconciliation != "applied" || res.Warning != "" {
		t.Errorf("response = %+v", res)
	}
	if a := res.Schedule.Days[0].Stops[0]; a.StayHours != 0.75 || a.DepartureTime != "08:45" {
		t.Errorf("A = %+v", a)
	}

	rec = do(t, h, http.MethodPut, "/trips/t1/stops/"+bID,
		`{"name":"B","stay_hours":2,"travel_minutes":30,"is_fixed_time":true,"fixed_date":"2024-06-01","fixed_time":"08:05"}`)
	res = decode[dto.SaveStopResponse](t, rec)
	if rec.Code != http.StatusOK || res.Reconciliation != "infeasible" || res.Warning == "" {
		t.Errorf("status=%d response = %+v", rec.Code, res)
	}
}

func TestCreateStopInEmptyDayViewIsAnchored(t *testing.T) {
	h := newTestRouter(t)
	seedTrip(t, h)

	rec := do(t, h, http.MethodPost, "/trips/t1/stops?view_day=2", `{"name":"Belem","stay_hours":3}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}

	res := decode[dto.SaveStopResponse](t, rec)
	if !res.Promoted || res.Stop.FixedDate != "2024-06-02" || res.Stop.FixedTime != "08:00" {
		t.Errorf("stop = %+v promoted=%v", res.Stop, res.Promoted)
	}
}

func TestErrorsMapToStatus(t *testing.T) {
	h := newTestRouter(t)
	seedTrip(t, h)

	tests := []struct {
		name, method, path, body string
		want                     int
	}{
		{"unknown trip", http.MethodGet, "/trips/nope/schedule", "", http.StatusNotFound},
		{"unknown stop", http.MethodDelete, "/trips/t1/stops/nope", "", http.StatusNotFound},
		{"bad json", http.MethodPost, "/trips/t1/stops", `{"name":`, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/trips/t1/stops", `{"name":"x","colour":"red"}`, http.StatusBadRequest},
		{"two objects", http.MethodPost, "/trips/t1/stops", `{"name":"x"}{"name":"y"}`, http.StatusBadRequest},
		{"bad mode", http.MethodPost, "/trips/t1/stops", `{"name":"x","transport_mode":"flying"}`, http.StatusBadRequest},
		{"missing name", http.MethodPost, "/trips/t1/stops", `{"stay_hours":1}`, http.StatusBadRequest},
		{"bad view day", http.MethodPost, "/trips/t1/stops?view_day=-1", `{"name":"x"}`, http.StatusBadRequest},
		{"bad export format", http.MethodGet, "/trips/t1/export?format=pdf", "", http.StatusBadRequest},
		{"invalid trip", http.MethodPost, "/trips", `{"title":"x","start_date":"tomorrow","duration_days":1}`, http.StatusBadRequest},
		{"missing cost", http.MethodPut, "/trips/t1/cost", `{}`, http.StatusBadRequest},
		{"wrong method", http.MethodPatch, "/trips/t1/schedule", "", http.StatusMethodNotAllowed},
		{"events without broker", http.MethodGet, "/trips/t1/events", "", http.StatusNotImplemented},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body=%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestExportAndCost(t *testing.T) {
	h := newTestRouter(t)
	seedTrip(t, h)

	if rec := do(t, h, http.MethodPut, "/trips/t1/cost", `{"total_cost":42.5}`); rec.Code != http.StatusNoContent {
		t.Fatalf("cost status = %d", rec.Code)
	}

	rec := do(t, h, http.MethodGet, "/trips/t1/export?format=text", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type = %q", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{"Lisbon", "09:30-11:30  B", "Total cost: 42.50"} {
		if !strings.Contains(body, want) {
			t.Errorf("export missing %q:\n%s", want, body)
		}
	}

	rec = do(t, h, http.MethodGet, "/trips/t1/export?format=ics", "")
	if !strings.Contains(rec.Body.String(), "BEGIN:VCALENDAR") {
		t.Errorf("ics export body = %s", rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "itinerary-t1.ics") {
		t.Errorf("content disposition = %q", cd)
	}

	trips := decode[dto.ListTripsResponse](t, do(t, h, http.MethodGet, "/trips", ""))
	if len(trips.Trips) != 1 || trips.Trips[0].TotalCost != 42.5 || trips.Trips[0].StartTime != "08:00" {
		t.Errorf("trips = %+v", trips)
	}
}

func TestEventsStreamChanges(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	notifier := notify.NewRedisNotifier(client)
	repo := memory.NewTripRepository()
	it := services.NewItinerary(repo, notifier, domain.DefaultTimingRules())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := it.CreateTrip(ctx, domain.Trip{ID: "t1", Title: "x", StartDate: "2024-06-01", DurationDays: 1}); err != nil {
		t.Fatalf("create trip: %v", err)
	}

	srv := httptest.NewServer(NewRouter(it, notifier, time.Second))
	defer srv.Close()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/trips/t1/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	if _, err := it.SaveStop(ctx, services.SaveStopRequest{TripID: "t1", Stop: domain.Stop{Name: "A"}, IsNew: true}); err != nil {
		t.Fatalf("save stop: %v", err)
	}

	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		if line := sc.Text(); line == "event: stop_saved" {
			return
		}
	}
	t.Fatalf("stream ended without stop_saved event: %v", sc.Err())
}
