// Package ttlcache is the in-memory stale-while-revalidate cache behind API
// key lookups and registered tool lists.
package ttlcache

import (
	"sync"
	"sync/atomic"
	"time"
)

// Cache maps string keys to values with a TTL. An expired entry is still
// served while one caller refreshes it, up to maxStale past expiry; after
// that the entry is dropped and callers see a miss.
type Cache[V any] struct {
	store    sync.Map // map[string]*entry[V]
	ttl      time.Duration
	maxStale time.Duration
	now      func() time.Time
}

type entry[V any] struct {
	value      V
	expiresAt  time.Time
	refreshing atomic.Bool
}

// Result holds the outcome of a lookup.
type Result[V any] struct {
	Value        V
	Hit          bool // a fresh or servable stale value was found
	NeedsRefresh bool // stale, and this caller owns the refresh
}

// New creates a cache. A maxStale of zero or less serves stale entries until
// they are replaced or deleted.
func New[V any](ttl, maxStale time.Duration) *Cache[V] {
	return &Cache[V]{ttl: ttl, maxStale: maxStale, now: time.Now}
}

// Get performs a non-blocking lookup. The caller that receives
// NeedsRefresh must finish with Set, Delete or Release.
func (c *Cache[V]) Get(key string) Result[V] {
	val, ok := c.store.Load(key)
	if !ok {
		return Result[V]{}
	}

	e := val.(*entry[V])
	now := c.now()
	if now.Before(e.expiresAt) {
		return Result[V]{Value: e.value, Hit: true}
	}
	if c.maxStale > 0 && !now.Before(e.expiresAt.Add(c.maxStale)) {
		c.store.CompareAndDelete(key, e)
		return Result[V]{}
	}

	return Result[V]{
		Value:        e.value,
		Hit:          true,
		NeedsRefresh: e.refreshing.CompareAndSwap(false, true),
	}
}

// Set stores a value with a fresh TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.store.Store(key, &entry[V]{
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	})
}

// Release hands a failed refresh back so the next stale reader retries it.
func (c *Cache[V]) Release(key string) {
	if val, ok := c.store.Load(key); ok {
		val.(*entry[V]).refreshing.Store(false)
	}
}

// Delete removes an entry.
func (c *Cache[V]) Delete(key string) {
	c.store.Delete(key)
}
