package geocode

import (
	"fmt"
	"sync"
	"time"
)

// Result is a resolved place lookup. Empty strings mean the field could not
// be derived from the upstream response.
type Result struct {
	City     string
	District string
}

// Empty reports whether the lookup produced no usable place names.
func (r Result) Empty() bool {
	return r.City == "" && r.District == ""
}

// Cache is an in-memory TTL cache of geocoding results keyed by coordinates
// rounded to a fixed precision. Entries are never evicted except by expiry;
// real-world coordinate diversity bounds its size.
type Cache struct {
	mu        sync.Mutex
	entries   map[string]cacheEntry
	precision int
	ttl       time.Duration
	now       func() time.Time
}

type cacheEntry struct {
	result    Result
	expiresAt time.Time
}

// NewCache creates a cache whose keys use the given coordinate precision and
// whose entries expire ttl after insertion.
func NewCache(precision int, ttl time.Duration) *Cache {
	return &Cache{
		entries:   make(map[string]cacheEntry),
		precision: precision,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Key formats a coordinate pair to the cache precision. The precision is
// deliberately coarser than the stored coordinate precision so nearby points
// collapse onto one entry and the hit rate stays high under Nominatim's
// rate constraints.
func (c *Cache) Key(lat, lng float64) string {
	return fmt.Sprintf("%.*f|%.*f", c.precision, lat, c.precision, lng)
}

// Get returns the cached result for key, if present and not expired.
func (c *Cache) Get(key string) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return Result{}, false
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.entries, key)
		return Result{}, false
	}
	return entry.result, true
}

// Set stores a result under key, replacing any existing entry.
func (c *Cache) Set(key string, result Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{result: result, expiresAt: c.now().Add(c.ttl)}
}
