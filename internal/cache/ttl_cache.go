// Package cache provides a thread-safe keyed cache with per-entry expiry
// and load-through semantics.
package cache

import (
	"sync"
	"time"
)

// now is replaced in tests.
var now = time.Now

type entry[V any] struct {
	value  V
	stored time.Time
}

// TTLCache is a thread-safe cache whose entries expire ttl after they were
// stored. A ttl of zero or less keeps entries until Invalidate.
type TTLCache[K comparable, V any] struct {
	mu   sync.RWMutex
	data map[K]entry[V]
	ttl  time.Duration

	// loadMu serializes GetOrLoad so concurrent misses load once.
	loadMu sync.Mutex
}

// New creates an empty TTLCache.
func New[K comparable, V any](ttl time.Duration) *TTLCache[K, V] {
	return &TTLCache[K, V]{
		data: make(map[K]entry[V]),
		ttl:  ttl,
	}
}

// TTL returns the configured expiry.
func (c *TTLCache[K, V]) TTL() time.Duration {
	return c.ttl
}

// Get returns the value for key if present and not expired.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.data[key]
	if !ok || c.expiredLocked(e) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key and restarts its expiry.
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = entry[V]{value: value, stored: now()}
}

// GetOrLoad returns the cached value for key, calling load on a miss or
// after expiry. A failed load leaves any previous entry in place and
// returns the error.
func (c *TTLCache[K, V]) GetOrLoad(key K, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	// Another caller may have loaded while we waited.
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err := load()
	if err != nil {
		var zero V
		return zero, err
	}
	c.Set(key, v)
	return v, nil
}

// Stale returns the value for key even if it has expired.
func (c *TTLCache[K, V]) Stale(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.data[key]
	return e.value, ok
}

// Expired reports whether key is missing or past its ttl.
func (c *TTLCache[K, V]) Expired(key K) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.data[key]
	return !ok || c.expiredLocked(e)
}

// expiredLocked must be called with at least a read lock held.
func (c *TTLCache[K, V]) expiredLocked(e entry[V]) bool {
	return c.ttl > 0 && now().Sub(e.stored) >= c.ttl
}

// Invalidate removes key, or every entry when called without keys.
func (c *TTLCache[K, V]) Invalidate(keys ...K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(keys) == 0 {
		c.data = make(map[K]entry[V])
		return
	}
	for _, k := range keys {
		delete(c.data, k)
	}
}

// Len returns the number of stored entries, expired or not.
func (c *TTLCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
