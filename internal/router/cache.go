package router

import (
	"sync"
	"sync/atomic"
)

// resolvedCache is a size-capped, insert-only cache of dynamic match results
// keyed by "METHOD path". Once full it stops accepting new entries; entries
// live until the owning Matcher is replaced.
type resolvedCache struct {
	capacity int64
	size     atomic.Int64
	entries  sync.Map
}

// newResolvedCache returns nil when capacity disables caching.
func newResolvedCache(capacity int) *resolvedCache {
	if capacity <= 0 {
		return nil
	}
	return &resolvedCache{capacity: int64(capacity)}
}

func cacheKey(method, path string) string {
	return method + " " + path
}

func (c *resolvedCache) get(key string) (*Result, bool) {
	v, ok := c.entries.Load(key)
	if !ok {
		return nil, false
	}
	return v.(*Result), true
}

// put stores res unless the cache is full. A concurrent insert of the same
// key keeps whichever result landed first; both are equivalent.
func (c *resolvedCache) put(key string, res *Result) bool {
	for {
		n := c.size.Load()
		if n >= c.capacity {
			return false
		}
		if c.size.CompareAndSwap(n, n+1) {
			break
		}
	}

	if _, loaded := c.entries.LoadOrStore(key, res); loaded {
		c.size.Add(-1)
		return false
	}
	return true
}

func (c *resolvedCache) len() int {
	return int(c.size.Load())
}
