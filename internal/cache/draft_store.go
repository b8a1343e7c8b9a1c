package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/flytaxi/service-booking/internal/domain"
	bookingDomain "github.com/flytaxi/service-booking/internal/domain/booking"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	draftKeyPrefix    = "flytaxi:draft:"
	maxUpdateAttempts = 50
)

// RouteDraftStore is the Redis implementation of booking.DraftRepository.
// Drafts expire after the configured TTL of inactivity.
type RouteDraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRouteDraftStore creates a RouteDraftStore.
func NewRouteDraftStore(client *redis.Client, ttl time.Duration) *RouteDraftStore {
	return &RouteDraftStore{client: client, ttl: ttl}
}

func draftKey(id uuid.UUID) string {
	return draftKeyPrefix + id.String()
}

// Create stores a new draft, failing if the ID is already taken.
func (s *RouteDraftStore) Create(ctx context.Context, draft *bookingDomain.RouteDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	ok, err := s.client.SetNX(ctx, draftKey(draft.ID), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to create draft: %w", err)
	}
	if !ok {
		return domain.NewConflictError("draft already exists: " + draft.ID.String())
	}
	return nil
}

// Get loads a draft.
func (s *RouteDraftStore) Get(ctx context.Context, id uuid.UUID) (*bookingDomain.RouteDraft, error) {
	data, err := s.client.Get(ctx, draftKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.NewNotFoundError("RouteDraft", id.String())
		}
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	var draft bookingDomain.RouteDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return &draft, nil
}

// Update runs fn against the current draft inside a WATCH/MULTI transaction,
// retrying when another writer changes the draft first.
func (s *RouteDraftStore) Update(ctx context.Context, id uuid.UUID, fn func(*bookingDomain.RouteDraft) error) (*bookingDomain.RouteDraft, error) {
	key := draftKey(id)
	var updated *bookingDomain.RouteDraft

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return domain.NewNotFoundError("RouteDraft", id.String())
			}
			return fmt.Errorf("failed to load draft: %w", err)
		}

		var draft bookingDomain.RouteDraft
		if err := json.Unmarshal(data, &draft); err != nil {
			return fmt.Errorf("failed to decode draft: %w", err)
		}
		if err := fn(&draft); err != nil {
			return err
		}

		encoded, err := json.Marshal(&draft)
		if err != nil {
			return fmt.Errorf("failed to encode draft: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SetXX(ctx, key, encoded, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		updated = &draft
		return nil
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return nil, err
		}
	}
	return nil, domain.NewConflictError("draft is being modified concurrently: " + id.String())
}

// Delete removes a draft. Deleting a missing draft is not an error.
func (s *RouteDraftStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.client.Del(ctx, draftKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}
