package perft

import (
	"sync"
	"sync/atomic"
)

type cacheKey struct {
	hash  uint64
	depth int
}

// Cache memoises subtree counts by position hash and remaining depth.
// It is safe for concurrent use.
type Cache struct {
	entries map[cacheKey]uint64
	mu      sync.RWMutex
	maxSize int
	hits    atomic.Uint64
	misses  atomic.Uint64
}

// NewCache creates a cache holding at most maxSize entries.
func NewCache(maxSize int) *Cache {
	if maxSize < 2 {
		maxSize = 2
	}
	return &Cache{
		entries: make(map[cacheKey]uint64),
		maxSize: maxSize,
	}
}

// Get returns the stored count for the position hash at depth.
func (c *Cache) Get(hash uint64, depth int) (uint64, bool) {
	key := cacheKey{hash, depth}

	c.mu.RLock()
	n, ok := c.entries[key]
	c.mu.RUnlock()

	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return n, ok
}

// Put stores a count.
func (c *Cache) Put(hash uint64, depth int, nodes uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxSize {
		// Simple eviction: clear half the cache
		i := 0
		for k := range c.entries {
			if i >= c.maxSize/2 {
				break
			}
			delete(c.entries, k)
			i++
		}
	}
	c.entries[cacheKey{hash, depth}] = nodes
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses uint64, size int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits.Load(), c.misses.Load(), len(c.entries)
}

// Clear empties the cache and resets its statistics.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]uint64)
	c.hits.Store(0)
	c.misses.Store(0)
}
