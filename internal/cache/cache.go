// Package cache provides a keyed memoizer with a time-to-live and a
// capacity bound. It knows nothing about HTTP, JSON, or weather types.
package cache

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry[V any] struct {
	value     V
	createdAt time.Time
}

// Cache deduplicates expensive calls per key. Concurrent GetOrCompute
// calls for the same key share a single in-flight producer invocation
// (singleflight), so a burst of identical requests costs one upstream
// call. Expired entries are purged lazily when their key is touched;
// when capacity is exceeded the least-recently-inserted entry is evicted.
type Cache[V any] struct {
	mu       sync.Mutex
	entries  map[string]entry[V]
	order    []string // insertion order, oldest first
	ttl      time.Duration
	capacity int
	group    singleflight.Group

	hitCount  int
	missCount int
}

func New[V any](ttl time.Duration, capacity int) *Cache[V] {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache[V]{
		entries:  make(map[string]entry[V]),
		ttl:      ttl,
		capacity: capacity,
	}
}

// GetOrCompute returns the cached value for key, or invokes producer to
// compute it. Only successful results are stored; a failing producer
// leaves the key absent so the next call tries again.
func (c *Cache[V]) GetOrCompute(key string, producer func() (V, error)) (V, error) {
	if v, ok := c.lookup(key, true); ok {
		return v, nil
	}

	result, err, _ := c.group.Do(key, func() (interface{}, error) {
		// A waiter queued behind the first caller may find the value
		// already stored by the time it gets here.
		if v, ok := c.lookup(key, false); ok {
			return v, nil
		}
		v, err := producer()
		if err != nil {
			return nil, err
		}
		c.store(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return result.(V), nil
}

// Len reports the current entry count.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats reports cache hits and misses since construction.
func (c *Cache[V]) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hitCount, c.missCount
}

func (c *Cache[V]) lookup(key string, count bool) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if ok && time.Since(e.createdAt) >= c.ttl {
		c.remove(key)
		ok = false
	}
	if count {
		if ok {
			c.hitCount++
		} else {
			c.missCount++
		}
	}
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *Cache[V]) store(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Refresh is eviction plus re-insertion, never in place.
	if _, ok := c.entries[key]; ok {
		c.remove(key)
	}
	for len(c.entries) >= c.capacity {
		c.remove(c.order[0])
	}
	c.entries[key] = entry[V]{value: value, createdAt: time.Now()}
	c.order = append(c.order, key)
}

// remove deletes an entry and its insertion-order slot. Caller holds mu.
func (c *Cache[V]) remove(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
