package engine

import (
	"sync"

	"github.com/handiism/exif-batch/internal/model"
	"github.com/zeebo/blake3"
)

// Fingerprint is the cache key for one file path: a BLAKE3-256 digest
// of the path string. It is content-independent; mutating a file does
// not change its fingerprint.
type Fingerprint [32]byte

// FingerprintPath computes the fingerprint for a path.
func FingerprintPath(path string) Fingerprint {
	return blake3.Sum256([]byte(path))
}

// cacheEntry is one memoized extraction result. noMetadata marks the
// "file has no metadata block" outcome, which is cached under the same
// key space as successful extractions.
type cacheEntry struct {
	tags       model.MetadataMap
	noMetadata bool
}

// Cache memoizes extraction results for the duration of one engine
// run.
//
// The cache is a single structure shared by every worker in the run,
// guarded by an RWMutex, so concurrent extracts of the same path
// deduplicate across workers. It is owned by an Engine value and dies
// with it; it is never a process-wide singleton.
type Cache struct {
	mu      sync.RWMutex
	entries map[Fingerprint]cacheEntry
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[Fingerprint]cacheEntry)}
}

// Get returns the memoized result for a fingerprint. ok reports a hit;
// noMetadata distinguishes the cached "no metadata" outcome from a
// cached tag map.
func (c *Cache) Get(fp Fingerprint) (tags model.MetadataMap, noMetadata, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[fp]
	return e.tags, e.noMetadata, ok
}

// Put memoizes an extraction result.
func (c *Cache) Put(fp Fingerprint, tags model.MetadataMap, noMetadata bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[fp] = cacheEntry{tags: tags, noMetadata: noMetadata}
}

// Invalidate drops a fingerprint's entry. Modify and delete call this
// for their own path so a later extract in the same run sees the new
// state.
func (c *Cache) Invalidate(fp Fingerprint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, fp)
}

// Len returns the number of memoized entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
