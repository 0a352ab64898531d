package cache

import (
	"sync"
	"time"
)

const DefaultTTL = 120 * time.Second

type entry[V any] struct {
	value      V
	recordedAt time.Time
}

// TTL is an in-memory key/value store whose entries stop being served once
// they are older than the configured TTL. Expiry is checked on read only;
// stale entries stay in the map until overwritten or cleared.
type TTL[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	ttl     time.Duration
	now     func() time.Time
}

type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func New[V any](ttl time.Duration, opts ...Option) *TTL[V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TTL[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		now:     o.now,
	}
}

// Get returns the value stored under key if it is still fresh. With
// allowCache false the lookup always misses and the entry is left as is.
func (c *TTL[V]) Get(key string, allowCache bool) (V, bool) {
	var zero V
	if !allowCache {
		return zero, false
	}

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}

	if c.now().Sub(e.recordedAt) >= c.ttl {
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, replacing whatever was there.
func (c *TTL[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, recordedAt: c.now()}
}

func (c *TTL[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[V])
}

// Len counts stored entries, including expired ones not yet overwritten.
func (c *TTL[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *TTL[V]) TTL() time.Duration {
	return c.ttl
}
