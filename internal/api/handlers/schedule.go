package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"itinerary-service/internal/adapters/export"
	"itinerary-service/internal/ports"
	"itinerary-service/internal/services"
)

// ScheduleHandler serves computed schedules, exports and live change events.
type ScheduleHandler struct {
	Itinerary *services.Itinerary
	// Subscriber is nil when no broker is configured.
	Subscriber ports.ChangeSubscriber
	// KeepAlive is the SSE comment interval; zero means 25s.
	KeepAlive time.Duration
}

// Get returns day buckets; ?day=N narrows to one day. A day with no stops
// yields an empty list, not an error.
func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	only := 0
	if v := r.URL.Query().Get("day"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, r, http.StatusBadRequest, "day must be a positive integer")
			return
		}
		only = n
	}

	trip, _, sched, err := h.Itinerary.TripSchedule(r.Context(), r.PathValue("tripID"))
	if err != nil {
		writeServiceError(w, r, "get schedule", err)
		return
	}

	writeJSON(w, r, http.StatusOK, toScheduleResponse(trip.ID, sched, only))
}

func (h *ScheduleHandler) Export(w http.ResponseWriter, r *http.Request) {
	exporter, err := export.ForFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	trip, _, sched, err := h.Itinerary.TripSchedule(r.Context(), r.PathValue("tripID"))
	if err != nil {
		writeServiceError(w, r, "export schedule", err)
		return
	}

	// Render fully before writing headers so failures can still be reported.
	var buf bytes.Buffer
	if err := exporter.Export(&buf, trip, sched); err != nil {
		writeServiceError(w, r, "export schedule", err)
		return
	}

	w.Header().Set("Content-Type", exporter.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "itinerary-"+trip.ID+"."+exporter.FileExtension()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("export write failed: trip=%s err=%v", trip.ID, err)
	}
}

// Events streams trip changes as Server-Sent Events.
func (h *ScheduleHandler) Events(w http.ResponseWriter, r *http.Request) {
	if h.Subscriber == nil {
		writeError(w, r, http.StatusNotImplemented, "live updates are not configured")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	tripID := r.PathValue("tripID")
	if _, err := h.Itinerary.Repo.GetTrip(r.Context(), tripID); err != nil {
		writeServiceError(w, r, "subscribe", err)
		return
	}

	changes, closeSub, err := h.Subscriber.Subscribe(r.Context(), tripID)
	if err != nil {
		writeServiceError(w, r, "subscribe", err)
		return
	}
	defer closeSub()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	keepAlive := h.KeepAlive
	if keepAlive <= 0 {
		keepAlive = 25 * time.Second
	}
	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case c, ok := <-changes:
			if !ok {
				return
			}
			payload, err := json.Marshal(c)
			if err != nil {
				log.Printf("encode change failed: trip=%s err=%v", tripID, err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", c.Kind, payload)
			flusher.Flush()
		}
	}
}
