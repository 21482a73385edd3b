// Package cache is a process-local key/value store whose entries go stale a
// fixed duration after they were written.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	insertedAt time.Time
	value      V
}

// Cache keeps the latest value written for each key. Staleness is only checked
// on read; nothing is swept in the background and the map is unbounded.
type Cache[K comparable, V any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[K]entry[V]
}

type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now as the source of insertion and read times.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func New[K comparable, V any](ttl time.Duration, opts ...Option) *Cache[K, V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	return &Cache[K, V]{
		ttl:     ttl,
		now:     o.now,
		entries: make(map[K]entry[V]),
	}
}

// Get returns the value stored under key if it is younger than the TTL.
// A stale entry is reported as absent but left in place until the next Set.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	v, fresh, _ := c.Lookup(key)
	return v, fresh
}

// Lookup is Get that also tells a stale entry apart from a missing one.
func (c *Cache[K, V]) Lookup(key K) (value V, fresh, present bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return value, false, false
	}
	if c.now().Sub(e.insertedAt) >= c.ttl {
		return value, false, true
	}
	return e.value, true, true
}

// Set stores value under key stamped with the current time, replacing any
// previous entry wholesale.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{insertedAt: c.now(), value: value}
}

// Len counts stored entries, stale ones included.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache[K, V]) TTL() time.Duration {
	return c.ttl
}
