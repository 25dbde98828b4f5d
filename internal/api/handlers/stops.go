package handlers

import (
	"net/http"
	"strconv"

	"itinerary-service/internal/api/dto"
	"itinerary-service/internal/domain"
	"itinerary-service/internal/services"
)

// StopHandler creates, edits and deletes stops. Every write responds with
// the freshly computed schedule.
type StopHandler struct {
	Itinerary *services.Itinerary
}

// Create adds a stop at the end of the trip. view_day is the day the user
// is looking at; omitted or 0 means all days.
func (h *StopHandler) Create(w http.ResponseWriter, r *http.Request) {
	viewDay := 0
	if v := r.URL.Query().Get("view_day"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, r, http.StatusBadRequest, "view_day must be a non-negative integer")
			return
		}
		viewDay = n
	}

	h.save(w, r, services.SaveStopRequest{IsNew: true, ViewDay: viewDay}, http.StatusCreated)
}

func (h *StopHandler) Update(w http.ResponseWriter, r *http.Request) {
	req := services.SaveStopRequest{}
	req.Stop.ID = r.PathValue("stopID")
	h.save(w, r, req, http.StatusOK)
}

func (h *StopHandler) save(w http.ResponseWriter, r *http.Request, svcReq services.SaveStopRequest, status int) {
	var req dto.StopRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	mode, err := domain.ParseTransportMode(req.TransportMode)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	stopID := svcReq.Stop.ID
	svcReq.TripID = r.PathValue("tripID")
	svcReq.Stop = fromStopRequest(req, mode)
	svcReq.Stop.ID = stopID

	res, err := h.Itinerary.SaveStop(r.Context(), svcReq)
	if err != nil {
		writeServiceError(w, r, "save stop", err)
		return
	}

	writeJSON(w, r, status, dto.SaveStopResponse{
		Stop:           toStopResponse(res.Stop),
		Promoted:       res.Promoted,
		Reconciliation: res.Reconciliation.Outcome.String(),
		Warning:        res.Warning,
		Schedule:       toScheduleResponse(svcReq.TripID, res.Schedule, 0),
	})
}

func (h *StopHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tripID := r.PathValue("tripID")

	sched, err := h.Itinerary.DeleteStop(r.Context(), tripID, r.PathValue("stopID"))
	if err != nil {
		writeServiceError(w, r, "delete stop", err)
		return
	}

	writeJSON(w, r, http.StatusOK, toScheduleResponse(tripID, sched, 0))
}
