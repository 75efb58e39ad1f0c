package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/template"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/ports"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "fz:template:"

var _ ports.TemplateCache = (*RedisTemplateCache)(nil)

// RedisTemplateCache is a template cache shared by every instance through redis.
type RedisTemplateCache struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisTemplateCache creates a RedisTemplateCache. A non-positive ttl falls
// back to DefaultTTL.
func NewRedisTemplateCache(rdb redis.Cmdable, ttl time.Duration, logger *zap.Logger) *RedisTemplateCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisTemplateCache{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger.With(zap.String("component", "redis_template_cache")),
	}
}

func (c *RedisTemplateCache) Get(ctx context.Context, key string) (template.Resolved, bool) {
	raw, err := c.rdb.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return template.Resolved{}, false
	}
	if err != nil {
		c.logger.Warn("template cache read failed", zap.String("key", key), zap.Error(err))
		return template.Resolved{}, false
	}

	var value template.Resolved
	if err = json.Unmarshal(raw, &value); err != nil {
		c.logger.Warn("dropping undecodable template cache entry", zap.String("key", key), zap.Error(err))
		c.rdb.Del(ctx, keyPrefix+key)
		return template.Resolved{}, false
	}
	return value, true
}

func (c *RedisTemplateCache) Put(ctx context.Context, key string, value template.Resolved) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("template cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err = c.rdb.Set(ctx, keyPrefix+key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("template cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *RedisTemplateCache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	prefixed := make([]string, 0, len(keys))
	for _, key := range keys {
		prefixed = append(prefixed, keyPrefix+key)
	}
	if err := c.rdb.Del(ctx, prefixed...).Err(); err != nil {
		c.logger.Warn("template cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
