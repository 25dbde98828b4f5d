package notify

import (
	"context"

	"itinerary-service/internal/domain"
)

// Nop discards changes. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, domain.TripChange) error { return nil }
