// Package cache provides an in-process hot cache for generated chat
// responses. It sits in front of the durable response_cache table and
// absorbs repeated identical queries without a database round trip.
package cache

import (
	"container/list"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/workbenchhq/workbench/store"
)

// ResponseCache is an LRU cache with TTL for cached responses, keyed by
// (tenant, query hash, context hash).
type ResponseCache struct {
	capacity   int
	defaultTTL time.Duration
	mu         sync.Mutex

	entries map[string]*entry
	order   *list.List
}

type entry struct {
	key       string
	response  *store.CachedResponse
	expiresAt time.Time
	element   *list.Element
}

// NewResponseCache creates a new response cache.
func NewResponseCache(capacity int, defaultTTL time.Duration) *ResponseCache {
	if capacity <= 0 {
		capacity = 1000
	}
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}

	return &ResponseCache{
		capacity:   capacity,
		defaultTTL: defaultTTL,
		entries:    make(map[string]*entry),
		order:      list.New(),
	}
}

// Key builds the cache key for the tenant/query/context triple.
func Key(tenantID, queryHash, contextHash string) string {
	return fmt.Sprintf("%s:%s:%s", tenantID, queryHash, contextHash)
}

// Get retrieves a cached response. Expired entries are evicted and
// reported as misses.
func (c *ResponseCache) Get(tenantID, queryHash, contextHash string) (*store.CachedResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[Key(tenantID, queryHash, contextHash)]
	if !ok {
		return nil, false
	}

	if time.Now().After(e.expiresAt) {
		c.removeEntry(e)
		return nil, false
	}

	c.order.MoveToFront(e.element)
	return e.response, true
}

// Set stores a cached response. The in-process entry never outlives the
// durable row: the effective TTL is the smaller of the default TTL and the
// time remaining until the response's own expiry.
func (c *ResponseCache) Set(response *store.CachedResponse) {
	ttl := c.defaultTTL
	if remaining := time.Until(time.Unix(response.ExpiresAt, 0)); remaining < ttl {
		ttl = remaining
	}
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := Key(response.TenantID, response.QueryHash, response.ContextHash)
	if e, ok := c.entries[key]; ok {
		e.response = response
		e.expiresAt = time.Now().Add(ttl)
		c.order.MoveToFront(e.element)
		return
	}

	for len(c.entries) >= c.capacity {
		c.evictOldest()
	}

	e := &entry{
		key:       key,
		response:  response,
		expiresAt: time.Now().Add(ttl),
	}
	e.element = c.order.PushFront(e)
	c.entries[key] = e
}

// InvalidateTenant removes every entry belonging to the tenant. Called when
// tenant content changes out of band and fingerprints can no longer be
// trusted to have caught it.
func (c *ResponseCache) InvalidateTenant(tenantID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := tenantID + ":"
	count := 0
	for key, e := range c.entries {
		if strings.HasPrefix(key, prefix) {
			c.removeEntry(e)
			count++
		}
	}
	return count
}

// Size returns the number of entries in the cache.
func (c *ResponseCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictOldest removes the least recently used entry.
// Must be called with lock held.
func (c *ResponseCache) evictOldest() {
	oldest := c.order.Back()
	if oldest == nil {
		return
	}
	c.removeEntry(oldest.Value.(*entry))
}

// removeEntry removes an entry. Must be called with lock held.
func (c *ResponseCache) removeEntry(e *entry) {
	c.order.Remove(e.element)
	delete(c.entries, e.key)
}
