package client

import (
	"time"

	"tax-moguls/api/internal/estimate"
)

// cacheTTL matches the server tier but is configured independently.
const cacheTTL = 60 * time.Second

type cachedResult struct {
	Result  estimate.Result `json:"result"`
	Expires int64           `json:"exp"`
}

// ResultCache is the device-side result cache, persisted as one JSON map.
// Expiry is absolute, set once at insertion.
type ResultCache struct {
	store *Storage
	ttl   time.Duration
	now   func() time.Time
}

func NewResultCache(store *Storage) *ResultCache {
	return &ResultCache{store: store, ttl: cacheTTL, now: time.Now}
}

func (c *ResultCache) Get(key string) (estimate.Result, bool) {
	entries := map[string]cachedResult{}
	c.store.Load(resultCacheFile, &entries)
	e, ok := entries[key]
	if !ok || c.now().UnixMilli() > e.Expires {
		return estimate.Result{}, false
	}
	return e.Result, true
}

func (c *ResultCache) Put(key string, res estimate.Result) {
	entries := map[string]cachedResult{}
	c.store.Load(resultCacheFile, &entries)
	entries[key] = cachedResult{Result: res, Expires: c.now().Add(c.ttl).UnixMilli()}
	c.store.Save(resultCacheFile, entries)
}
