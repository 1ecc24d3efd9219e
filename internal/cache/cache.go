package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bytedocker/site/internal/content/domain"
	"github.com/bytedocker/site/internal/logging"
	"github.com/bytedocker/site/internal/metrics"
)

const (
	entryKeyPrefix = "content:entry:" // JSON payload: content:entry:{kind}:{key}
	indexKeyPrefix = "content:index:" // Set of entry keys per kind: content:index:{kind}
)

// ContentCache is a read-through cache for public content. A nil
// *ContentCache, or one without a client, is a valid disabled cache.
type ContentCache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *ContentCache {
	return &ContentCache{client: client, ttl: ttl}
}

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func (c *ContentCache) enabled() bool {
	return c != nil && c.client != nil
}

func entryKey(kind domain.Kind, key string) string {
	return entryKeyPrefix + string(kind) + ":" + key
}

func indexKey(kind domain.Kind) string {
	return indexKeyPrefix + string(kind)
}

// Get decodes the cached value into dst. found is false on a miss.
func (c *ContentCache) Get(ctx context.Context, kind domain.Kind, key string, dst interface{}) (bool, error) {
	if !c.enabled() {
		return false, nil
	}
	data, err := c.client.Get(ctx, entryKey(kind, key)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("cache decode: %w", err)
	}
	return true, nil
}

func (c *ContentCache) Set(ctx context.Context, kind domain.Kind, key string, v interface{}) error {
	if !c.enabled() {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}

	ek := entryKey(kind, key)
	ik := indexKey(kind)

	pipe := c.client.Pipeline()
	pipe.Set(ctx, ek, data, c.ttl)
	pipe.SAdd(ctx, ik, ek)
	pipe.Expire(ctx, ik, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate drops every cached entry of the given kinds.
func (c *ContentCache) Invalidate(ctx context.Context, kinds ...domain.Kind) error {
	if !c.enabled() {
		return nil
	}
	for _, kind := range kinds {
		ik := indexKey(kind)
		keys, err := c.client.SMembers(ctx, ik).Result()
		if err != nil {
			return fmt.Errorf("cache index %s: %w", kind, err)
		}
		pipe := c.client.Pipeline()
		if len(keys) > 0 {
			pipe.Del(ctx, keys...)
		}
		pipe.Del(ctx, ik)
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("cache invalidate %s: %w", kind, err)
		}
	}
	return nil
}

func (c *ContentCache) Ping(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Load is cache-aside around fetch. Cache failures are logged and fall
// through to fetch so a Redis outage never takes the public site down.
func Load[T any](ctx context.Context, c *ContentCache, kind domain.Kind, key string, fetch func(context.Context) (T, error)) (T, error) {
	log := logging.Op(ctx, "cache.load")

	var cached T
	found, err := c.Get(ctx, kind, key, &cached)
	if err != nil {
		log.Warn("cache read failed", zap.String("kind", string(kind)), zap.Error(err))
	}
	if c.enabled() {
		metrics.RecordCacheLookup(found)
	}
	if found {
		return cached, nil
	}

	v, err := fetch(ctx)
	if err != nil {
		return v, err
	}
	if err := c.Set(ctx, kind, key, v); err != nil {
		log.Warn("cache write failed", zap.String("kind", string(kind)), zap.Error(err))
	}
	return v, nil
}
