package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client caches per-event availability. Availability is a display read, not
// a gate for reservations, so a short TTL plus event-driven invalidation is
// enough.
type Client struct {
	client *redis.Client
	ttl    time.Duration
}

type Config struct {
	Addr     string
	Password string
	TTL      time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to cache: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 2 * time.Second
	}

	return &Client{client: rdb, ttl: ttl}, nil
}

func availabilityKey(eventID string) string {
	return "availability:" + eventID
}

// GetAvailabilityRaw returns the cached availability JSON for an event.
// Raw JSON is stored to avoid an unmarshal/marshal round trip on hits.
func (c *Client) GetAvailabilityRaw(ctx context.Context, eventID string) ([]byte, error) {
	data, err := c.client.Get(ctx, availabilityKey(eventID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("availability not cached")
		}
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}
	return data, nil
}

func (c *Client) SetAvailability(ctx context.Context, eventID string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal availability: %w", err)
	}
	return c.client.Set(ctx, availabilityKey(eventID), payload, c.ttl).Err()
}

// InvalidateAvailability drops the cached entry for an event. Called by the
// sweeper consumers whenever a lifecycle event changes that event's counts.
func (c *Client) InvalidateAvailability(ctx context.Context, eventID string) error {
	return c.client.Del(ctx, availabilityKey(eventID)).Err()
}

func (c *Client) Close() error {
	return c.client.Close()
}
