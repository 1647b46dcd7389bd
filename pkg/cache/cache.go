package cache

import (
	"errors"
	"sync"
	"time"
)

var ErrNotFound = errors.New("not found in cache")

type item[V any] struct {
	value      V
	expiration time.Time
}

// Cache is an in-process map whose entries expire after a TTL.
type Cache[V any] struct {
	items map[string]item[V]
	mu    sync.Mutex
	now   func() time.Time
}

func New[V any]() *Cache[V] {
	return &Cache[V]{
		items: make(map[string]item[V]),
		now:   time.Now,
	}
}

func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getLocked(key)
}

func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = item[V]{
		value:      value,
		expiration: c.now().Add(ttl),
	}
}

// Update applies fn to the live entry for key under the cache lock and
// stores the result with a fresh TTL. It returns ErrNotFound when the key is
// missing or expired; an error from fn leaves the entry untouched.
func (c *Cache[V]) Update(key string, ttl time.Duration, fn func(V) (V, error)) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.getLocked(key)
	if !ok {
		var zero V
		return zero, ErrNotFound
	}

	next, err := fn(current)
	if err != nil {
		return current, err
	}
	c.items[key] = item[V]{value: next, expiration: c.now().Add(ttl)}
	return next, nil
}

func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Sweep drops every expired entry and reports how many were removed.
func (c *Cache[V]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, it := range c.items {
		if now.After(it.expiration) {
			delete(c.items, key)
			removed++
		}
	}
	return removed
}

func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cache[V]) getLocked(key string) (V, bool) {
	it, exists := c.items[key]
	if !exists {
		var zero V
		return zero, false
	}
	if c.now().After(it.expiration) {
		delete(c.items, key)
		var zero V
		return zero, false
	}
	return it.value, true
}
