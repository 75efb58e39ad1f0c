package portsfake

import (
	"context"
	"sync"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/template"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/ports"
)

// Cache is a map-backed ports.TemplateCache that counts hits.
type Cache struct {
	mu      sync.Mutex
	entries map[string]template.Resolved
	Hits    int
}

var _ ports.TemplateCache = (*Cache)(nil)

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: map[string]template.Resolved{}}
}

func (c *Cache) Get(_ context.Context, key string) (template.Resolved, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	if ok {
		c.Hits++
	}
	return v, ok
}

func (c *Cache) Put(_ context.Context, key string, value template.Resolved) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

func (c *Cache) Invalidate(_ context.Context, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
}

// Has reports whether key is cached.
func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}
