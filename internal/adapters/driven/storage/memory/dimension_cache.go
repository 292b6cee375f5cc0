package memory

import (
	"sync"

	"github.com/custodia-labs/dbgm/internal/core/domain"
	"github.com/custodia-labs/dbgm/internal/core/ports/driven"
)

// Ensure DimensionCache implements the interface.
var _ driven.DimensionCache = (*DimensionCache)(nil)

// DimensionCache is an in-memory implementation of driven.DimensionCache.
// It is used when no cache directory is configured.
type DimensionCache struct {
	mu    sync.RWMutex
	sizes map[string]domain.Size
}

// NewDimensionCache creates a new in-memory dimension cache.
func NewDimensionCache() *DimensionCache {
	return &DimensionCache{
		sizes: make(map[string]domain.Size),
	}
}

// Get returns the cached size for a fingerprint.
func (c *DimensionCache) Get(fingerprint string) (domain.Size, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	size, ok := c.sizes[fingerprint]
	return size, ok
}

// Put stores the size for a fingerprint.
func (c *DimensionCache) Put(fingerprint string, size domain.Size) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sizes[fingerprint] = size
	return nil
}

// Forget removes a fingerprint.
func (c *DimensionCache) Forget(fingerprint string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sizes, fingerprint)
	return nil
}

// Len returns the number of cached sizes.
func (c *DimensionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sizes)
}
