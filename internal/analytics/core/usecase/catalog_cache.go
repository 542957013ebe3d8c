package usecase

import (
	"context"
	"sync"

	"activity-report-service/internal/analytics/core/domain"
	"activity-report-service/internal/analytics/core/ports"
)

// CatalogCache is a read-through cache for the reference catalog, keyed by
// exact name. Loaded once, then shared read-only across concurrent requests.
type CatalogCache struct {
	mu     sync.RWMutex
	byName map[string]domain.CatalogEntry
}

func NewCatalogCache() *CatalogCache {
	return &CatalogCache{}
}

func (c *CatalogCache) ByName(ctx context.Context, store ports.EventStorePort) (map[string]domain.CatalogEntry, error) {
	c.mu.RLock()
	cached := c.byName
	c.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	entries, err := store.QueryCatalog(ctx)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]domain.CatalogEntry, len(entries))
	for _, e := range entries {
		byName[e.Name] = e
	}

	c.mu.Lock()
	// Concurrent loaders may race here; last write wins and both maps hold
	// the same catalog snapshot.
	c.byName = byName
	c.mu.Unlock()

	return byName, nil
}

// Invalidate drops the cached snapshot so the next read reloads it.
func (c *CatalogCache) Invalidate() {
	c.mu.Lock()
	c.byName = nil
	c.mu.Unlock()
}
