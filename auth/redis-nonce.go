package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisNoncePrefix = "gapeval:nonce:"

// RedisNonceStore shares nonces between instances. Expiry is left to Redis.
type RedisNonceStore struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ NonceStore = (*RedisNonceStore)(nil)

func NewRedisNonceStore(rdb *redis.Client, ttl time.Duration) *RedisNonceStore {
	return &RedisNonceStore{rdb: rdb, ttl: ttl}
}

func (s *RedisNonceStore) Issue(ctx context.Context) (string, error) {
	nonce := newNonce()
	ok, err := s.rdb.SetNX(ctx, redisNoncePrefix+nonce, 1, s.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("store nonce: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("nonce %s already stored", nonce)
	}
	return nonce, nil
}

// Consume relies on DEL being atomic: of two concurrent logins with the
// same nonce only one sees a deleted key.
func (s *RedisNonceStore) Consume(ctx context.Context, nonce string) error {
	if nonce == "" {
		return ErrNonceInvalid
	}
	n, err := s.rdb.Del(ctx, redisNoncePrefix+nonce).Result()
	if err != nil {
		return fmt.Errorf("consume nonce: %w", err)
	}
	if n != 1 {
		return ErrNonceInvalid
	}
	return nil
}

func (s *RedisNonceStore) Evict(ctx context.Context) error {
	return nil
}
