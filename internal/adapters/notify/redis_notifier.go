package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"itinerary-service/internal/domain"
	"itinerary-service/internal/platform/obs"
	"itinerary-service/internal/ports"

	"github.com/redis/go-redis/v9"
)

const defaultChannelPrefix = "itinerary:trip:"

// RedisNotifier fans trip changes out over redis pub/sub, one channel per
// trip.
type RedisNotifier struct {
	Client *redis.Client
	Prefix string
}

var _ ports.ChangeSubscriber = (*RedisNotifier)(nil)

func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{Client: client, Prefix: defaultChannelPrefix}
}

// NewRedisNotifierFromURL parses a redis:// URL and verifies the server is
// reachable.
func NewRedisNotifierFromURL(ctx context.Context, url string) (*RedisNotifier, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis notifier: parse url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis notifier: ping: %w", err)
	}

	return NewRedisNotifier(client), nil
}

func (n *RedisNotifier) Channel(tripID string) string {
	prefix := n.Prefix
	if prefix == "" {
		prefix = defaultChannelPrefix
	}
	return prefix + tripID
}

func (n *RedisNotifier) Publish(ctx context.Context, change domain.TripChange) (err error) {
	defer obs.Time(ctx, "notify.Publish")(&err)

	if n.Client == nil {
		return errors.New("redis notifier: client is nil")
	}
	if change.TripID == "" {
		return errors.New("redis notifier: trip id must not be empty")
	}

	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("redis notifier: encode change: %w", err)
	}

	if err := n.Client.Publish(ctx, n.Channel(change.TripID), payload).Err(); err != nil {
		return fmt.Errorf("redis notifier: publish trip=%s: %w", change.TripID, err)
	}

	return nil
}

// Subscribe relays changes for tripID until ctx ends or close is called.
// Malformed payloads are logged and dropped.
func (n *RedisNotifier) Subscribe(ctx context.Context, tripID string) (<-chan domain.TripChange, func() error, error) {
	if n.Client == nil {
		return nil, nil, errors.New("redis notifier: client is nil")
	}

	sub := n.Client.Subscribe(ctx, n.Channel(tripID))
	// Wait for the subscription confirmation so no publish is missed.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("redis notifier: subscribe trip=%s: %w", tripID, err)
	}

	out := make(chan domain.TripChange, 16)
	go func() {
		defer close(out)
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var change domain.TripChange
				if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
					log.Printf("redis notifier: drop malformed change channel=%s err=%v", msg.Channel, err)
					continue
				}
				select {
				case out <- change:
				case <-ctx.Done():
					_ = sub.Close()
					return
				}
			}
		}
	}()

	return out, sub.Close, nil
}

func (n *RedisNotifier) Close() error {
	if n.Client == nil {
		return nil
	}
	return n.Client.Close()
}
