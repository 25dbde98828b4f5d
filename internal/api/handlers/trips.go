package handlers

import (
	"net/http"

	"itinerary-service/internal/api/dto"
	"itinerary-service/internal/domain"
	"itinerary-service/internal/services"
)

// TripHandler exposes trip creation and retrieval.
type TripHandler struct {
	Itinerary *services.Itinerary
}

func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTripRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	trip, err := h.Itinerary.CreateTrip(r.Context(), domain.Trip{
		ID:           req.TripID,
		Title:        req.Title,
		StartDate:    req.StartDate,
		StartTime:    req.StartTime,
		DurationDays: req.DurationDays,
	})
	if err != nil {
		writeServiceError(w, r, "create trip", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toTripResponse(trip))
}

func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	trips, err := h.Itinerary.Repo.ListTrips(r.Context())
	if err != nil {
		writeServiceError(w, r, "list trips", err)
		return
	}

	res := dto.ListTripsResponse{Trips: make([]dto.TripResponse, 0, len(trips))}
	for _, t := range trips {
		res.Trips = append(res.Trips, toTripResponse(t))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	tripID := r.PathValue("tripID")

	trip, err := h.Itinerary.Repo.GetTrip(r.Context(), tripID)
	if err != nil {
		writeServiceError(w, r, "get trip", err)
		return
	}
	stops, err := h.Itinerary.Repo.ListStops(r.Context(), tripID)
	if err != nil {
		writeServiceError(w, r, "get trip", err)
		return
	}

	res := dto.TripDetailResponse{
		Trip:  toTripResponse(trip),
		Stops: make([]dto.StopResponse, 0, len(stops)),
	}
	for _, s := range stops {
		res.Stops = append(res.Stops, toStopResponse(s))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// UpdateCost stores the running total maintained by the expense side.
func (h *TripHandler) UpdateCost(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateCostRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.TotalCost == nil {
		writeError(w, r, http.StatusBadRequest, "total_cost is required")
		return
	}

	if err := h.Itinerary.UpdateTotalCost(r.Context(), r.PathValue("tripID"), *req.TotalCost); err != nil {
		writeServiceError(w, r, "update total cost", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
