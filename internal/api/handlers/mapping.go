package handlers

import (
	"itinerary-service/internal/api/dto"
	"itinerary-service/internal/domain"
)

func toTripResponse(t domain.Trip) dto.TripResponse {
	return dto.TripResponse{
		TripID:       t.ID,
		Title:        t.Title,
		StartDate:    t.StartDate,
		StartTime:    t.StartClock(domain.DefaultStartTime),
		DurationDays: t.DurationDays,
		TotalCost:    t.TotalCost,
	}
}

func toStopResponse(s domain.Stop) dto.StopResponse {
	return dto.StopResponse{
		StopID:        s.ID,
		Name:          s.Name,
		Order:         s.Order,
		StayHours:     s.StayHours,
		Notes:         s.Notes,
		IsFixedTime:   s.IsFixedTime,
		FixedDate:     s.FixedDate,
		FixedTime:     s.FixedTime,
		TravelMinutes: s.TravelMinutes,
		TransportMode: string(s.TransportMode),
	}
}

func toScheduleResponse(tripID string, sched *domain.Schedule, only int) dto.ScheduleResponse {
	res := dto.ScheduleResponse{TripID: tripID, Days: []dto.DayResponse{}}

	for _, d := range sched.DayNumbers() {
		if only > 0 && d != only {
			continue
		}
		b, _ := sched.Day(d)

		day := dto.DayResponse{
			Day:         b.Day,
			Date:        b.DateKey,
			DisplayDate: b.DisplayDate,
			Stops:       make([]dto.ScheduledStopResponse, 0, len(b.Stops)),
		}
		for _, st := range b.Stops {
			stay := int(domain.HoursToDuration(st.StayHours).Minutes())
			day.Stops = append(day.Stops, dto.ScheduledStopResponse{
				StopResponse:  toStopResponse(st.Stop),
				Day:           st.Day,
				Arrival:       st.Arrival,
				Departure:     st.Departure,
				ArrivalTime:   domain.FormatClock(st.Arrival),
				DepartureTime: domain.FormatClock(st.Departure),
				StayHoursPart: stay / 60,
				StayMinutes:   stay % 60,
			})
		}
		res.Days = append(res.Days, day)
	}

	return res
}

func fromStopRequest(req dto.StopRequest, mode domain.TransportMode) domain.Stop {
	return domain.Stop{
		Name:          req.Name,
		StayHours:     req.StayHours,
		Notes:         req.Notes,
		IsFixedTime:   req.IsFixedTime,
		FixedDate:     req.FixedDate,
		FixedTime:     req.FixedTime,
		TravelMinutes: req.TravelMinutes,
		TransportMode: mode,
	}
}
