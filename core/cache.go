package core

import (
	"fmt"

	"github.com/dgraph-io/ristretto"
	"xray/fingerprint"
)

// FingerprintCache memoizes fingerprints by column key. Every entry costs
// 1, so the cache holds at most maxEntries fingerprints.
type FingerprintCache struct {
	cache *ristretto.Cache
}

func NewFingerprintCache(maxEntries int64) (*FingerprintCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxEntries,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("fingerprint cache: %w", err)
	}
	return &FingerprintCache{cache: cache}, nil
}

func (c *FingerprintCache) Get(key string) (fingerprint.Fingerprint, bool) {
	v, found := c.cache.Get(key)
	if !found {
		return nil, false
	}
	fp, ok := v.(fingerprint.Fingerprint)
	return fp, ok
}

// Put reports whether the cache admitted fp. Admitted entries are visible
// to Get once Put returns.
func (c *FingerprintCache) Put(key string, fp fingerprint.Fingerprint) bool {
	if !c.cache.Set(key, fp, 1) {
		return false
	}
	c.cache.Wait()
	return true
}

func (c *FingerprintCache) Delete(key string) {
	c.cache.Del(key)
}

func (c *FingerprintCache) Close() {
	c.cache.Close()
}
