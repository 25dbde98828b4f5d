package dto

type StopRequest struct {
	Name          string  `json:"name"`
	StayHours     float64 `json:"stay_hours"`
	Notes         string  `json:"notes"`
	IsFixedTime   bool    `json:"is_fixed_time"`
	FixedDate     string  `json:"fixed_date"`
	FixedTime     string  `json:"fixed_time"`
	TravelMinutes *int    `json:"travel_minutes"`
	TransportMode string  `json:"transport_mode"`
}

type StopResponse struct {
	StopID        string  `json:"stop_id"`
	Name          string  `json:"name"`
	Order         int     `json:"order"`
	StayHours     float64 `json:"stay_hours"`
	Notes         string  `json:"notes,omitempty"`
	IsFixedTime   bool    `json:"is_fixed_time"`
	FixedDate     string  `json:"fixed_date,omitempty"`
	FixedTime     string  `json:"fixed_time,omitempty"`
	TravelMinutes *int    `json:"travel_minutes,omitempty"`
	TransportMode string  `json:"transport_mode"`
}

type SaveStopResponse struct {
	Stop           StopResponse     `json:"stop"`
	Promoted       bool             `json:"promoted_to_anchor"`
	Reconciliation string           `json:"reconciliation"`
	Warning        string           `json:"warning,omitempty"`
	Schedule       ScheduleResponse `json:"schedule"`
}
