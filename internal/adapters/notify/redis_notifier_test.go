package notify

import (
	"context"
	"testing"
	"time"

	"itinerary-service/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestNotifier(t *testing.T) *RedisNotifier {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisNotifier(client)
}

func TestRedisNotifierPublishSubscribe(t *testing.T) {
	n := newTestNotifier(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changes, closeSub, err := n.Subscribe(ctx, "trip-1")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer closeSub()

	want := domain.TripChange{
		TripID: "trip-1",
		StopID: "stop-a",
		Kind:   domain.ChangeStopPatched,
		At:     time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
	}
	if err := n.Publish(ctx, want); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case got := <-changes:
		if got.TripID != want.TripID || got.StopID != want.StopID || got.Kind != want.Kind || !got.At.Equal(want.At) {
			t.Errorf("change = %+v, want %+v", got, want)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for change")
	}
}

func TestRedisNotifierChannelsArePerTrip(t *testing.T) {
	n := newTestNotifier(t)

	if got := n.Channel("abc"); got != "itinerary:trip:abc" {
		t.Errorf("channel = %q", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	changes, closeSub, err := n.Subscribe(ctx, "trip-1")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer closeSub()

	if err := n.Publish(ctx, domain.TripChange{TripID: "trip-2", Kind: domain.ChangeStopSaved}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case got, ok := <-changes:
		if ok {
			t.Errorf("unexpected change for other trip: %+v", got)
		}
	case <-ctx.Done():
	}
}

func TestRedisNotifierRejectsEmptyTrip(t *testing.T) {
	n := newTestNotifier(t)

	if err := n.Publish(context.Background(), domain.TripChange{Kind: domain.ChangeStopSaved}); err == nil {
		t.Fatal("expected error for empty trip id")
	}
}
