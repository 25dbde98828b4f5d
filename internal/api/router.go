package api

import (
	"net/http"
	"time"

	"itinerary-service/internal/api/handlers"
	"itinerary-service/internal/ports"
	"itinerary-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
// subscriber may be nil when live updates are not configured; keepAlive is the
// SSE comment interval.
func NewRouter(it *services.Itinerary, subscriber ports.ChangeSubscriber, keepAlive time.Duration) http.Handler {
	mux := http.NewServeMux()

	tripHandler := &handlers.TripHandler{Itinerary: it}
	stopHandler := &handlers.StopHandler{Itinerary: it}
	scheduleHandler := &handlers.ScheduleHandler{Itinerary: it, Subscriber: subscriber, KeepAlive: keepAlive}

	mux.HandleFunc("GET /health", handlers.Health)

	mux.HandleFunc("GET /trips", tripHandler.List)
	mux.HandleFunc("POST /trips", tripHandler.Create)
	mux.HandleFunc("GET /trips/{tripID}", tripHandler.Get)
	mux.HandleFunc("PUT /trips/{tripID}/cost", tripHandler.UpdateCost)

	mux.HandleFunc("POST /trips/{tripID}/stops", stopHandler.Create)
	mux.HandleFunc("PUT /trips/{tripID}/stops/{stopID}", stopHandler.Update)
	mux.HandleFunc("DELETE /trips/{tripID}/stops/{stopID}", stopHandler.Delete)

	mux.HandleFunc("GET /trips/{tripID}/schedule", scheduleHandler.Get)
	mux.HandleFunc("GET /trips/{tripID}/export", scheduleHandler.Export)
	mux.HandleFunc("GET /trips/{tripID}/events", scheduleHandler.Events)

	return requestIDMiddleware(loggingMiddleware(mux))
}
