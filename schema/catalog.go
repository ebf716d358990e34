package schema

import (
	"context"

	lru "github.com/hashicorp/golang-lru"

	"github.com/satishbabariya/sqldol/engine"
	"github.com/satishbabariya/sqldol/internal/debug"
)

// DefaultCatalogSize is used when NewCatalog is given a non-positive size.
const DefaultCatalogSize = 1024

type catalogKey struct {
	eng  *engine.Engine
	name string
}

// Catalog caches reflected tables per (engine, table name) so several views
// over the same table share one reflection. It is safe for concurrent use.
type Catalog struct {
	cache *lru.Cache
}

// NewCatalog returns a catalog holding at most size tables.
func NewCatalog(size int) (*Catalog, error) {
	if size <= 0 {
		size = DefaultCatalogSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Catalog{cache: cache}, nil
}

// Table returns the cached descriptor, reflecting it on a miss.
// Failed reflections are not cached.
func (c *Catalog) Table(ctx context.Context, eng *engine.Engine, name string) (*Table, error) {
	key := catalogKey{eng: eng, name: name}
	if v, ok := c.cache.Get(key); ok {
		return v.(*Table), nil
	}

	t, err := ReflectTable(ctx, eng, name)
	if err != nil {
		return nil, err
	}
	if c.cache.Add(key, t) {
		debug.Debug("catalog evicted table")
	}
	return t, nil
}

// Invalidate drops one table so the next lookup reflects it again.
func (c *Catalog) Invalidate(eng *engine.Engine, name string) {
	c.cache.Remove(catalogKey{eng: eng, name: name})
}

// Purge drops every cached table.
func (c *Catalog) Purge() {
	c.cache.Purge()
}

// Len returns the number of cached tables.
func (c *Catalog) Len() int {
	return c.cache.Len()
}
