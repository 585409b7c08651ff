package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

type IdempotencyStore struct {
	client goredis.UniversalClient
}

func NewIdempotencyStore(client goredis.UniversalClient) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

func (s *IdempotencyStore) Claim(ctx context.Context, key string) (bool, string, error) {
	k := fmt.Sprintf(keyIdemOrderCreate, key)
	ok, err := s.client.SetNX(ctx, k, inProgress, ttlInProgress).Result()
	if err != nil {
		return false, "", err
	}
	if ok {
		return true, "", nil
	}

	existing, err := s.client.Get(ctx, k).Result()
	switch {
	case errors.Is(err, goredis.Nil):
		// expired between SETNX and GET; claim again
		return s.Claim(ctx, key)
	case err != nil:
		return false, "", err
	case existing == inProgress:
		return false, "", nil
	default:
		return false, existing, nil
	}
}

func (s *IdempotencyStore) Complete(ctx context.Context, key, orderID string) error {
	return s.client.Set(ctx, fmt.Sprintf(keyIdemOrderCreate, key), orderID, TTLIdempotency).Err()
}

// Abandon frees a key whose request failed, so the client may retry with it.
func (s *IdempotencyStore) Abandon(ctx context.Context, key string) error {
	return s.client.Del(ctx, fmt.Sprintf(keyIdemOrderCreate, key)).Err()
}
