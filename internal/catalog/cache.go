package catalog

import (
	"encoding/json"

	"github.com/coocood/freecache"
)

// detailTTLSeconds bounds how long a warmed catalog record is served without
// a refetch.
const detailTTLSeconds = 3600

// Cache is the shared read cache for catalog detail, keyed by catalog id.
// It is safe for concurrent readers and the background prefetcher.
type Cache struct {
	store *freecache.Cache
}

// NewCache creates a cache with the given capacity in megabytes.
func NewCache(sizeMB int) *Cache {
	return &Cache{store: freecache.NewCache(sizeMB * 1024 * 1024)}
}

// Get returns the cached detail for a catalog id, if present.
func (c *Cache) Get(id string) (*ExerciseDetail, bool) {
	data, err := c.store.Get([]byte(id))
	if err != nil {
		return nil, false
	}
	var detail ExerciseDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		return nil, false
	}
	return &detail, true
}

// Set stores a catalog detail. Serialization failures drop the entry; the
// cache is an optimization, never a source of truth.
func (c *Cache) Set(id string, detail *ExerciseDetail) {
	data, err := json.Marshal(detail)
	if err != nil {
		return
	}
	c.store.Set([]byte(id), data, detailTTLSeconds) //nolint:errcheck
}
