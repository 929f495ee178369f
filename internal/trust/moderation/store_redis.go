package moderation

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/flightdeck-aero/flightdeck/internal/platform/constants"
)

// IdempotencyStore maps a client-supplied Idempotency-Key to the id of the
// moderation action it already produced. A ledger append is not naturally
// idempotent, so transport-level retries must be deduplicated here before
// they reach the ledger.
type IdempotencyStore interface {
	// Lookup returns the action id remembered for the key, or "" when the
	// key has not been seen (or has expired).
	Lookup(ctx context.Context, key string) (string, error)

	// Remember associates the key with the action id for the configured TTL.
	Remember(ctx context.Context, key, actionID string) error
}

// RedisIdempotencyStore implements [IdempotencyStore] on the shared Redis
// client. Keys live under a dedicated prefix and expire after
// [constants.IdempotencyKeyTTL], which bounds how long a retry window stays open.
type RedisIdempotencyStore struct {
	client *redis.Client
}

// NewRedisIdempotencyStore constructs a [RedisIdempotencyStore].
func NewRedisIdempotencyStore(client *redis.Client) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{client: client}
}

func (store *RedisIdempotencyStore) Lookup(ctx context.Context, key string) (string, error) {
	actionID, err := store.client.Get(ctx, constants.RedisPrefixIdempotency+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("idempotency_lookup_failed: %w", err)
	}

	return actionID, nil
}

func (store *RedisIdempotencyStore) Remember(ctx context.Context, key, actionID string) error {
	err := store.client.Set(ctx, constants.RedisPrefixIdempotency+key, actionID, constants.IdempotencyKeyTTL).Err()
	if err != nil {
		return fmt.Errorf("idempotency_remember_failed: %w", err)
	}

	return nil
}
