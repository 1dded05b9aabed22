package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Fras28/dynnamo-cart/internal/storage"
	apperrors "github.com/Fras28/dynnamo-cart/pkg/errors"
)

// Slot name mirrors the storefront's localStorage key.
const keyPrefix = "cart-storage:"

// Slot is a Redis-backed persistence slot for one session's cart.
type Slot struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewSlot creates a slot keyed by session ID with the given TTL.
func NewSlot(client *redis.Client, sessionID string, ttl time.Duration) *Slot {
	return &Slot{
		client: client,
		key:    keyPrefix + sessionID,
		ttl:    ttl,
	}
}

// NewFactory returns a storage.SlotFactory producing Redis slots.
func NewFactory(client *redis.Client, ttl time.Duration) storage.SlotFactory {
	return func(sessionID string) storage.Slot {
		return NewSlot(client, sessionID, ttl)
	}
}

// Load reads the slot contents.
func (s *Slot) Load(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return data, nil
}

// Save overwrites the slot contents and refreshes the TTL.
func (s *Slot) Save(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

// Delete removes the slot.
func (s *Slot) Delete(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", s.key, err)
	}
	return nil
}
