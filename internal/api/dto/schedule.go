package dto

import "time"

type ScheduledStopResponse struct {
	StopResponse
	Day           int       `json:"day"`
	Arrival       time.Time `json:"arrival"`
	Departure     time.Time `json:"departure"`
	ArrivalTime   string    `json:"arrival_time"`
	DepartureTime string    `json:"departure_time"`
	StayHoursPart int       `json:"stay_hours_part"`
	StayMinutes   int       `json:"stay_minutes_part"`
}

type DayResponse struct {
	Day         int                     `json:"day"`
	Date        string                  `json:"date"`
	DisplayDate string                  `json:"display_date"`
	Stops       []ScheduledStopResponse `json:"stops"`
}

type ScheduleResponse struct {
	TripID string        `json:"trip_id"`
	Days   []DayResponse `json:"days"`
}
