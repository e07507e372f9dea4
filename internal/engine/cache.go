// cache.go keeps rendered output in memory. Entries are keyed by template
// ID and version, so saving a template (which bumps its version) produces
// a cache miss without explicit invalidation.
package engine

import (
	"log/slog"
	"sync"
)

// cacheKey identifies one rendering of one template version.
type cacheKey struct {
	id      string
	version int
	format  string // "html" or "pdf"
}

// renderCache is a concurrency-safe in-memory cache of rendered templates.
type renderCache struct {
	mu      sync.RWMutex
	entries map[cacheKey][]byte
}

func newRenderCache() *renderCache {
	return &renderCache{entries: make(map[cacheKey][]byte)}
}

// get returns a cached rendering, or nil on miss.
func (c *renderCache) get(k cacheKey) []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[k]
}

func (c *renderCache) put(k cacheKey, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[k] = data
	slog.Debug("rendering cached", "id", k.id, "version", k.version, "format", k.format, "size", len(c.entries))
}

// invalidate removes every cached rendering of a template.
func (c *renderCache) invalidate(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.id == id {
			delete(c.entries, k)
		}
	}
	slog.Debug("render cache invalidated", "id", id)
}

// invalidateAll clears the cache. Used when the field catalog changes,
// since every rendering shows catalog labels.
func (c *renderCache) invalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey][]byte)
	slog.Debug("render cache fully cleared")
}
