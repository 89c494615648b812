package llm

import (
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/eco-ledger/internal/footprint"
)

// cacheEntry represents a cached extraction.
type cacheEntry struct {
	expiry     time.Time
	extraction footprint.Extraction
}

// extractionCache provides thread-safe caching of extractions keyed by the
// normalized input text, so repeated descriptions do not cost another call.
type extractionCache struct {
	entries map[string]cacheEntry
	now     func() time.Time
	ttl     time.Duration
	mu      sync.RWMutex
}

// newExtractionCache creates a new cache with the specified TTL.
func newExtractionCache(ttl time.Duration) *extractionCache {
	if ttl == 0 {
		ttl = 15 * time.Minute // Default TTL
	}

	return &extractionCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
		ttl:     ttl,
	}
}

func cacheKey(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

// get retrieves an extraction if it exists and hasn't expired.
func (c *extractionCache) get(text string) (footprint.Extraction, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[cacheKey(text)]
	if !exists || c.now().After(entry.expiry) {
		return footprint.Extraction{}, false
	}

	return copyExtraction(entry.extraction), true
}

// set stores an extraction in the cache, dropping entries that have expired.
func (c *extractionCache) set(text string, extraction footprint.Extraction) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evictExpiredLocked()
	c.entries[cacheKey(text)] = cacheEntry{
		extraction: copyExtraction(extraction),
		expiry:     c.now().Add(c.ttl),
	}
}

func (c *extractionCache) evictExpiredLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiry) {
			delete(c.entries, key)
		}
	}
}

// size returns the number of entries in the cache.
func (c *extractionCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func copyExtraction(e footprint.Extraction) footprint.Extraction {
	if e.Quantity != nil {
		q := *e.Quantity
		e.Quantity = &q
	}
	if e.Missing != nil {
		e.Missing = append([]string(nil), e.Missing...)
	}
	return e
}
