package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/serenatasalon/booking-api/pkg/logging"
)

const (
	categoriesKey     = "catalog:categories"
	categoryKeyPrefix = "catalog:category:"
)

// Cache is a read-through catalog cache with a fixed TTL and explicit
// invalidation. It is an object owned by its caller, not a process-wide
// singleton; the change feed handler calls Invalidate when catalog rows
// mutate, so a stale entry never outlives its TTL or a change notification.
type Cache struct {
	source Repository
	redis  *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewCache wraps a catalog repository with a Redis cache. A nil Redis client
// degrades to pass-through reads.
func NewCache(source Repository, redisClient *redis.Client, ttl time.Duration, logger *logging.Logger) *Cache {
	if source == nil {
		panic("catalog: source repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Cache{source: source, redis: redisClient, ttl: ttl, logger: logger}
}

// ListCategories returns active categories, cached.
func (c *Cache) ListCategories(ctx context.Context) ([]Category, error) {
	if c.redis != nil {
		data, err := c.redis.Get(ctx, categoriesKey).Bytes()
		if err == nil {
			var out []Category
			if err := json.Unmarshal(data, &out); err == nil {
				return out, nil
			}
			// corrupt entry, fall through to source
		} else if !errors.Is(err, redis.Nil) {
			c.logger.Warn("catalog cache read failed", "error", err, "key", categoriesKey)
		}
	}

	out, err := c.source.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, categoriesKey, out)
	return out, nil
}

// GetCategoryDetail returns a category with its price list, cached per slug.
func (c *Cache) GetCategoryDetail(ctx context.Context, slug string) (*CategoryDetail, error) {
	key := categoryKeyPrefix + slug
	if c.redis != nil {
		data, err := c.redis.Get(ctx, key).Bytes()
		if err == nil {
			var out CategoryDetail
			if err := json.Unmarshal(data, &out); err == nil {
				return &out, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			c.logger.Warn("catalog cache read failed", "error", err, "key", key)
		}
	}

	out, err := c.source.GetCategoryDetail(ctx, slug)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, out)
	return out, nil
}

// Invalidate drops the cached entry for one category and the category list.
func (c *Cache) Invalidate(ctx context.Context, slug string) error {
	if c.redis == nil {
		return nil
	}
	if err := c.redis.Del(ctx, categoriesKey, categoryKeyPrefix+slug).Err(); err != nil {
		return fmt.Errorf("catalog: invalidate %s: %w", slug, err)
	}
	return nil
}

// InvalidateAll drops every cached catalog entry. Called from the change
// feed when a catalog row mutates without a known slug.
func (c *Cache) InvalidateAll(ctx context.Context) error {
	if c.redis == nil {
		return nil
	}
	iter := c.redis.Scan(ctx, 0, categoryKeyPrefix+"*", 0).Iterator()
	keys := []string{categoriesKey}
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("catalog: scan cache keys: %w", err)
	}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("catalog: invalidate all: %w", err)
	}
	return nil
}

func (c *Cache) store(ctx context.Context, key string, value any) {
	if c.redis == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("catalog cache marshal failed", "error", err, "key", key)
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("catalog cache write failed", "error", err, "key", key)
	}
}
