package dto

type CreateTripRequest struct {
	TripID       string `json:"trip_id"`
	Title        string `json:"title"`
	StartDate    string `json:"start_date"`
	StartTime    string `json:"start_time"`
	DurationDays int    `json:"duration_days"`
}

type TripResponse struct {
	TripID       string  `json:"trip_id"`
	Title        string  `json:"title"`
	StartDate    string  `json:"start_date"`
	StartTime    string  `json:"start_time"`
	DurationDays int     `json:"duration_days"`
	TotalCost    float64 `json:"total_cost"`
}

type TripDetailResponse struct {
	Trip  TripResponse   `json:"trip"`
	Stops []StopResponse `json:"stops"`
}

type ListTripsResponse struct {
	Trips []TripResponse `json:"trips"`
}

type UpdateCostRequest struct {
	TotalCost *float64 `json:"total_cost"`
}
