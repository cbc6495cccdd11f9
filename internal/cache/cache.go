// Package cache wraps an in-process TTL cache behind a small interface so
// components receive it as an explicit collaborator rather than reaching for
// a shared global.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	Delete(key string)
}

type memoryCache struct {
	c *gocache.Cache
}

// NewMemory returns a process-local cache. Entries older than their TTL are
// evicted on the cleanup interval.
func NewMemory(defaultTTL, cleanupInterval time.Duration) Cache {
	return &memoryCache{c: gocache.New(defaultTTL, cleanupInterval)}
}

func (m *memoryCache) Get(key string) (any, bool) {
	return m.c.Get(key)
}

func (m *memoryCache) Set(key string, value any, ttl time.Duration) {
	m.c.Set(key, value, ttl)
}

func (m *memoryCache) Delete(key string) {
	m.c.Delete(key)
}
