// Package cache memoizes entry metadata keyed by stable identifier.
//
// The cache never decides whether a resource exists; it only remembers what
// the lookup function the caller supplies said last time. Entries are
// trusted until invalidated.
package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mesh-intelligence/cyclehud/pkg/types"
)

// ComputeFunc looks up an entry's metadata from the host. It returns false
// when the resource is unavailable.
type ComputeFunc func(id string) (types.Entry, bool)

// EntryCache is a bounded, thread-safe LRU cache of entry metadata.
type EntryCache struct {
	entries *lru.Cache[string, types.Entry]
	hits    atomic.Uint64
	misses  atomic.Uint64
}

// New creates a cache holding at most size entries.
func New(size int) (*EntryCache, error) {
	c, err := lru.New[string, types.Entry](size)
	if err != nil {
		return nil, err
	}
	return &EntryCache{entries: c}, nil
}

// GetOrCompute returns the cached entry for id, or calls compute and caches
// its result. Failed lookups are not cached. Extra data is never cached.
func (c *EntryCache) GetOrCompute(id string, compute ComputeFunc) (types.Entry, bool) {
	if e, ok := c.entries.Get(id); ok {
		c.hits.Add(1)
		return e, true
	}
	c.misses.Add(1)
	e, ok := compute(id)
	if !ok {
		return types.Entry{}, false
	}
	e.Extra = types.ExtraData{}
	c.entries.Add(id, e)
	return e, true
}

// Get returns the cached entry without computing it.
func (c *EntryCache) Get(id string) (types.Entry, bool) {
	return c.entries.Peek(id)
}

// Put stores metadata the caller already has in hand.
func (c *EntryCache) Put(e types.Entry) {
	if e.ID == "" {
		return
	}
	e.Extra = types.ExtraData{}
	c.entries.Add(e.ID, e)
}

// Invalidate drops the cached entry for id.
func (c *EntryCache) Invalidate(id string) {
	c.entries.Remove(id)
}

// Clear drops every cached entry.
func (c *EntryCache) Clear() {
	c.entries.Purge()
}

// Len returns the number of cached entries.
func (c *EntryCache) Len() int {
	return c.entries.Len()
}

// Resize changes the capacity, evicting the oldest entries if needed.
func (c *EntryCache) Resize(size int) {
	if size > 0 {
		c.entries.Resize(size)
	}
}

// Stats returns the hit and miss counts since creation.
func (c *EntryCache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}
