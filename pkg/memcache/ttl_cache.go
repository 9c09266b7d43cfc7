package mem

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is a bounded map whose entries expire after a fixed ttl. Values
// are shared between callers and must not be mutated.
type TTLCache[K comparable, V any] struct {
	mu         sync.RWMutex
	data       map[K]entry[V]
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

func NewTTLCache[K comparable, V any](ttl time.Duration, maxEntries int) *TTLCache[K, V] {
	return &TTLCache[K, V]{
		data:       make(map[K]entry[V]),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns the live value for key.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.data[key]
	if !ok || c.now().After(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key. When the cache is full, expired entries are
// swept first; if none expired the value is not stored.
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.data[key]; !exists && c.maxEntries > 0 && len(c.data) >= c.maxEntries {
		for k, e := range c.data {
			if now.After(e.expiresAt) {
				delete(c.data, k) // cleanup expired
			}
		}
		if len(c.data) >= c.maxEntries {
			return
		}
	}
	c.data[key] = entry[V]{value: value, expiresAt: now.Add(c.ttl)}
}

func (c *TTLCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
