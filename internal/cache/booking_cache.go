package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const bookingKeyPrefix = "flytaxi:booking:"

// BookingCache keeps JSON snapshots of recently read or written bookings.
type BookingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBookingCache creates a BookingCache whose entries expire after ttl.
func NewBookingCache(client *redis.Client, ttl time.Duration) *BookingCache {
	return &BookingCache{client: client, ttl: ttl}
}

func bookingKey(id uuid.UUID) string {
	return bookingKeyPrefix + id.String()
}

// Get decodes the cached snapshot into dst. It reports false on a miss.
func (c *BookingCache) Get(ctx context.Context, id uuid.UUID, dst interface{}) (bool, error) {
	data, err := c.client.Get(ctx, bookingKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read booking cache: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("failed to decode cached booking: %w", err)
	}
	return true, nil
}

// Set stores a snapshot of v.
func (c *BookingCache) Set(ctx context.Context, id uuid.UUID, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode booking for cache: %w", err)
	}
	if err := c.client.Set(ctx, bookingKey(id), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write booking cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached snapshot.
func (c *BookingCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Del(ctx, bookingKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate booking cache: %w", err)
	}
	return nil
}
