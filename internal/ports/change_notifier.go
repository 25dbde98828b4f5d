package ports

import (
	"context"

	"itinerary-service/internal/domain"
)

// Contract for broadcasting trip changes to other sessions.
type ChangeNotifier interface {
	Publish(ctx context.Context, change domain.TripChange) error
}

// Optional extension of ChangeNotifier for live subscriptions.
type ChangeSubscriber interface {
	ChangeNotifier
	// Subscribe streams changes for one trip until ctx is done or the
	// returned close func is called.
	Subscribe(ctx context.Context, tripID string) (<-chan domain.TripChange, func() error, error)
}
