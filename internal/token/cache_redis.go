package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key prefix for cached credentials.
const credentialKeyPrefix = "icb:cred:"

// RedisCache shares cached credentials across bridge instances. Expiry is
// delegated to Redis TTLs.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache constructs a Redis-backed credential cache. The client
// lifecycle is managed externally.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, clientID string) (*Credential, bool, error) {
	data, err := c.client.Get(ctx, credentialKeyPrefix+clientID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached credential: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, false, fmt.Errorf("decode cached credential: %w", err)
	}
	return &cred, true, nil
}

func (c *RedisCache) Set(ctx context.Context, clientID string, cred *Credential, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("encode credential: %w", err)
	}
	if err := c.client.Set(ctx, credentialKeyPrefix+clientID, data, ttl).Err(); err != nil {
		return fmt.Errorf("set cached credential: %w", err)
	}
	return nil
}
