package domain

import "time"

type ChangeKind string

const (
	ChangeStopSaved   ChangeKind = "stop_saved"
	ChangeStopDeleted ChangeKind = "stop_deleted"
	ChangeStopPatched ChangeKind = "stop_patched"
	ChangeTripUpdated ChangeKind = "trip_updated"
)

// TripChange is broadcast after any write so other sessions can re-read.
type TripChange struct {
	TripID string     `json:"trip_id"`
	StopID string     `json:"stop_id,omitempty"`
	Kind   ChangeKind `json:"kind"`
	At     time.Time  `json:"at"`
}
