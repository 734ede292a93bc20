// Package signals collects community-demand evidence for products: Hacker
// News discussion, non-official X mentions, and GitHub star traction. Every
// collector degrades to a status field instead of failing the batch.
package signals

import (
	"strings"
	"sync"
	"time"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/canonical"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/types"
)

// DefaultCacheTTL bounds how long a collected payload stays valid within a
// run. Runs are short; the TTL mostly guards long interactive sessions.
const DefaultCacheTTL = 30 * time.Minute

// CacheKey derives the cache identity for a product: normalized name and
// normalized domain, joined so that either alone still keys consistently.
func CacheKey(name, website string) string {
	domain := ""
	if key, ok := canonical.KeyFromWebsite(website); ok {
		// Keep only the host part of the canonical key.
		domain = key
		if i := strings.Index(key, "/"); i >= 0 {
			domain = key[:i]
		}
	}
	return canonical.NormalizeName(name) + "|" + domain
}

type cacheEntry struct {
	payload  *types.DemandPayload
	storedAt time.Time
}

// Cache is a read-through, exclusive-write cache for demand payloads so a
// product appearing in several views is fetched once per run. There is no
// cross-process coherency; each run owns its cache.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]*cacheEntry

	// now is overridable for TTL tests.
	now func() time.Time
}

// NewCache builds a cache with the given TTL. Non-positive TTLs fall back
// to the default.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]*cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached payload for a key, if present and fresh.
func (c *Cache) Get(key string) (*types.DemandPayload, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) > c.ttl {
		return nil, false
	}
	return entry.payload, true
}

// Put stores a payload under a key, overwriting any previous entry.
func (c *Cache) Put(key string, payload *types.DemandPayload) {
	c.mu.Lock()
	c.entries[key] = &cacheEntry{payload: payload, storedAt: c.now()}
	c.mu.Unlock()
}

// Invalidate drops every cached entry.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]*cacheEntry)
	c.mu.Unlock()
}

// Len reports the number of cached entries, fresh or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
