package insights

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"dbperf-analytics/internal/models"
)

// bundleCache memoizes bundles by filter key. Cached bundles are shared between
// callers, so nothing may mutate a bundle after it is built.
type bundleCache struct {
	lru *lru.Cache
}

func newBundleCache(size int) (*bundleCache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create bundle cache: %w", err)
	}
	return &bundleCache{lru: c}, nil
}

func (c *bundleCache) get(key string) (*models.SeriesBundle, bool) {
	v, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	return v.(*models.SeriesBundle), true
}

func (c *bundleCache) add(key string, bundle *models.SeriesBundle) {
	c.lru.Add(key, bundle)
}
