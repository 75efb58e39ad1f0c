package cache

import (
	"context"
	"time"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/template"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/ports"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultTTL  = 10 * time.Minute
	DefaultSize = 1000
)

var _ ports.TemplateCache = (*MemoryTemplateCache)(nil)

// MemoryTemplateCache is an in-process template cache.
type MemoryTemplateCache struct {
	lru *expirable.LRU[string, template.Resolved]
}

// NewMemoryTemplateCache creates a cache holding at most size entries for ttl.
// Non-positive arguments fall back to DefaultSize and DefaultTTL.
func NewMemoryTemplateCache(size int, ttl time.Duration) *MemoryTemplateCache {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryTemplateCache{
		lru: expirable.NewLRU[string, template.Resolved](size, nil, ttl),
	}
}

func (c *MemoryTemplateCache) Get(_ context.Context, key string) (template.Resolved, bool) {
	return c.lru.Get(key)
}

func (c *MemoryTemplateCache) Put(_ context.Context, key string, value template.Resolved) {
	c.lru.Add(key, value)
}

func (c *MemoryTemplateCache) Invalidate(_ context.Context, keys ...string) {
	for _, key := range keys {
		c.lru.Remove(key)
	}
}

// Len returns the number of live entries.
func (c *MemoryTemplateCache) Len() int {
	return c.lru.Len()
}
