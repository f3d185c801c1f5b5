package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/neurozen/neurozen/internal/domain/model"
)

// DefaultFlashTTL bounds how long undelivered flashes linger. A visitor who
// never loads another page should not leave queues behind forever.
const DefaultFlashTTL = 30 * time.Minute

// FlashStore queues one-shot flash messages per visitor in a Redis list.
// The owner key is an opaque visitor id from a cookie, not a session id, so
// anonymous visitors on the login and signup pages get flashes too.
type FlashStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewFlashStore creates a new Redis-based flash store.
func NewFlashStore(client redis.UniversalClient) *FlashStore {
	return &FlashStore{
		client: client,
		prefix: "flash:",
		ttl:    DefaultFlashTTL,
	}
}

// NewFlashStoreWithTTL creates a flash store with a custom retention window.
func NewFlashStoreWithTTL(client redis.UniversalClient, ttl time.Duration) *FlashStore {
	return &FlashStore{
		client: client,
		prefix: "flash:",
		ttl:    ttl,
	}
}

// Push appends a flash to the owner's queue and refreshes its TTL.
func (s *FlashStore) Push(ctx context.Context, owner string, flash model.Flash) error {
	if owner == "" {
		return errors.New("flash owner cannot be empty")
	}
	if !flash.Category.Valid() {
		return fmt.Errorf("invalid flash category %q", flash.Category)
	}

	data, err := json.Marshal(flash)
	if err != nil {
		return fmt.Errorf("marshal flash: %w", err)
	}

	key := s.prefix + owner
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push flash: %w", err)
	}
	return nil
}

// PopAll returns and removes all queued flashes for the owner, oldest first.
// An empty queue yields a nil slice and no error.
func (s *FlashStore) PopAll(ctx context.Context, owner string) ([]model.Flash, error) {
	if owner == "" {
		return nil, nil
	}

	key := s.prefix + owner
	pipe := s.client.TxPipeline()
	rangeCmd := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("pop flashes: %w", err)
	}

	raw := rangeCmd.Val()
	if len(raw) == 0 {
		return nil, nil
	}

	flashes := make([]model.Flash, 0, len(raw))
	for _, item := range raw {
		var f model.Flash
		if err := json.Unmarshal([]byte(item), &f); err != nil {
			// Skip entries that fail to decode rather than losing the rest.
			continue
		}
		flashes = append(flashes, f)
	}
	return flashes, nil
}
