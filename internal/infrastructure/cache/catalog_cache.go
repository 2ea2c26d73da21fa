package cache

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/invoicedesk/client/internal/domain/catalog"
	"github.com/invoicedesk/client/internal/domain/shared"
)

// CatalogCache holds the product list fetched once from the external API
// and answers name queries from memory. Search never triggers a fetch;
// the composer loads once per session and may call Load again as a manual
// retry after a failure.
type CatalogCache struct {
	lister catalog.Lister
	logger *zap.Logger

	mu       sync.RWMutex
	products []catalog.Product
	loaded   bool
}

// CatalogCacheOption is a functional option for configuring the cache
type CatalogCacheOption func(*CatalogCache)

// WithLogger sets the logger for the cache
func WithLogger(logger *zap.Logger) CatalogCacheOption {
	return func(c *CatalogCache) {
		c.logger = logger
	}
}

// NewCatalogCache creates a catalog cache backed by the given lister
func NewCatalogCache(lister catalog.Lister, opts ...CatalogCacheOption) *CatalogCache {
	cache := &CatalogCache{
		lister: lister,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cache)
	}
	return cache
}

// Load fetches the product list and replaces the cached set. A failure
// leaves any previously cached products intact so search keeps degrading
// gracefully instead of going dark.
func (c *CatalogCache) Load(ctx context.Context) error {
	products, err := c.lister.ListProducts(ctx)
	if err != nil {
		c.logger.Warn("catalog load failed", zap.Error(err))
		return fmt.Errorf("%w: %v", shared.ErrCatalogLoad, err)
	}

	c.mu.Lock()
	c.products = products
	c.loaded = true
	c.mu.Unlock()

	c.logger.Debug("catalog loaded", zap.Int("products", len(products)))
	return nil
}

// Loaded reports whether a product list has been fetched successfully
func (c *CatalogCache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Search returns the cached products whose name contains the query,
// case-insensitively, in catalog order. Before a successful Load it
// returns an empty result rather than an error.
func (c *CatalogCache) Search(query string) []catalog.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var matches []catalog.Product
	for _, p := range c.products {
		if p.NameMatches(query) {
			matches = append(matches, p)
		}
	}
	return matches
}

// ProductByID returns the cached product with the given ID
func (c *CatalogCache) ProductByID(id int64) (catalog.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return catalog.Product{}, false
}

// Len returns the number of cached products
func (c *CatalogCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.products)
}
