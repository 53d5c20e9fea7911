package cache

import (
	"context"
	"delivery-booking-service/internal/domain"
	"delivery-booking-service/internal/platform/obs"
	"delivery-booking-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const suggestionKeyPrefix = "booking:suggest:"

// RedisSuggestionCache keeps forward geocode results in Redis with a TTL.
type RedisSuggestionCache struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ ports.SuggestionCache = (*RedisSuggestionCache)(nil)

func NewRedisSuggestionCache(rdb *redis.Client, ttl time.Duration) *RedisSuggestionCache {
	return &RedisSuggestionCache{rdb: rdb, ttl: ttl}
}

func suggestionKey(key string) string {
	return suggestionKeyPrefix + key
}

func (c *RedisSuggestionCache) Get(ctx context.Context, key string) (_ []domain.Address, ok bool, err error) {
	defer obs.Time(ctx, "suggestion.redis.Get")(&err)

	raw, err := c.rdb.Get(ctx, suggestionKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get suggestion cache: %w", err)
	}

	var entries []addressEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false, fmt.Errorf("get suggestion cache: decode: %w", err)
	}
	return fromEntries(entries), true, nil
}

func (c *RedisSuggestionCache) Put(ctx context.Context, key string, addresses []domain.Address) (err error) {
	defer obs.Time(ctx, "suggestion.redis.Put")(&err)

	raw, err := json.Marshal(toEntries(addresses))
	if err != nil {
		return fmt.Errorf("put suggestion cache: encode: %w", err)
	}
	if err := c.rdb.Set(ctx, suggestionKey(key), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("put suggestion cache: %w", err)
	}
	return nil
}
