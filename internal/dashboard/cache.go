package dashboard

import (
	"sync"
	"time"
)

// ListCache holds the last successful list result for one entity kind. The
// whole result is replaced in one step under the lock; readers never see a
// partially applied refresh.
type ListCache struct {
	mu          sync.RWMutex
	items       interface{}
	total       int
	refreshedAt time.Time
}

func NewListCache() *ListCache {
	return &ListCache{}
}

func (c *ListCache) Replace(items interface{}, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
	c.total = total
	c.refreshedAt = time.Now()
}

// Get returns the cached result and whether a refresh has ever completed.
func (c *ListCache) Get() (interface{}, int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items, c.total, !c.refreshedAt.IsZero()
}

func (c *ListCache) RefreshedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshedAt
}
