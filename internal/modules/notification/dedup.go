package notification

import (
	"sync"
	"time"
)

// DedupCache suppresses repeat sends of the same notification within a
// bounded window. Keys are composite (family:record:kind) strings built
// by callers. The cache is safe for concurrent use and bounded by the
// TTL sweep that runs on insert.
type DedupCache struct {
	mu      sync.Mutex
	seen    map[string]time.Time
	ttl     time.Duration
	nowFunc func() time.Time
}

func NewDedupCache(ttl time.Duration) *DedupCache {
	return &DedupCache{
		seen:    make(map[string]time.Time),
		ttl:     ttl,
		nowFunc: time.Now,
	}
}

// Seen records the key and reports whether it was already present within
// the TTL window.
func (c *DedupCache) Seen(key string) bool {
	if key == "" {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.nowFunc()
	for k, at := range c.seen {
		if now.Sub(at) > c.ttl {
			delete(c.seen, k)
		}
	}

	if at, ok := c.seen[key]; ok && now.Sub(at) <= c.ttl {
		return true
	}
	c.seen[key] = now
	return false
}

// Len reports the number of live entries, for tests and diagnostics.
func (c *DedupCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	now := c.nowFunc()
	for _, at := range c.seen {
		if now.Sub(at) <= c.ttl {
			n++
		}
	}
	return n
}
