package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Wahyudi120505/SnapMart---FullStack-sub000/internal/domain"
)

func NewRedisPageCache(client *redis.Client) *RedisPageCache {
	return &RedisPageCache{
		client:  client,
		baseTTL: 30 * time.Second,
	}
}

// RedisPageCache keeps catalog pages for a short TTL. Stock figures in a
// cached page can lag; the backend re-validates stock at submission anyway.
type RedisPageCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r RedisPageCache) Get(ctx context.Context, key string) (*domain.Page, error) {
	data, err := r.client.Get(ctx, cacheKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var page domain.Page
	if err2 := json.Unmarshal(data, &page); err2 != nil {
		return nil, fmt.Errorf("unmarshal page failed: %w", err2)
	}
	return &page, nil
}

func (r RedisPageCache) Set(ctx context.Context, key string, page *domain.Page) error {
	jsonPage, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("marshal page failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(10)) * time.Second
	ttl := r.baseTTL + jitter
	if err := r.client.Set(ctx, cacheKey(key), string(jsonPage), ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func cacheKey(key string) string {
	return fmt.Sprintf("catalog:%s", key)
}
