// Package cache provides the inventory snapshot cache and its invalidation
// via PostgreSQL LISTEN/NOTIFY.
package cache

import (
	"context"
	"sync"

	"aquaops/internal/domain/ledger"
	"aquaops/internal/domain/registers/inventory"
)

// InventoryCache is a read-through cache of the TotalBottles snapshot.
// It is cleared by the applier after every commit that touched the row.
type InventoryCache struct {
	reader inventory.Reader

	mu     sync.RWMutex
	cached *inventory.TotalBottles
}

var (
	_ inventory.Reader   = (*InventoryCache)(nil)
	_ ledger.Invalidator = (*InventoryCache)(nil)
)

// NewInventoryCache wraps reader.
func NewInventoryCache(reader inventory.Reader) *InventoryCache {
	return &InventoryCache{reader: reader}
}

// Get returns the cached snapshot, loading it on a miss.
func (c *InventoryCache) Get(ctx context.Context) (*inventory.TotalBottles, error) {
	c.mu.RLock()
	cached := c.cached
	c.mu.RUnlock()
	if cached != nil {
		cp := *cached
		return &cp, nil
	}

	tb, err := c.reader.Get(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	cp := *tb
	c.cached = &cp
	c.mu.Unlock()
	return tb, nil
}

// Invalidate drops the snapshot if TotalBottles is among changes.
func (c *InventoryCache) Invalidate(_ context.Context, changes []ledger.Change) error {
	for _, ch := range changes {
		if ch.Entity == ledger.EntityTotalBottles {
			c.Clear()
			return nil
		}
	}
	return nil
}

// Clear drops the snapshot unconditionally.
func (c *InventoryCache) Clear() {
	c.mu.Lock()
	c.cached = nil
	c.mu.Unlock()
}
