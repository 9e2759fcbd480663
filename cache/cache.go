// Package cache implements a name->mapped-bytes content cache with
// revalidation by stat: at most one concurrent build per filename is
// enforced by holding the cache mutex across the build. The external
// contract is race-freedom of the map, not necessarily high fan-out
// throughput — sharding is left as a future refinement.
package cache

import (
	"fmt"
	"os"
	"sync"

	"github.com/joinframework/join-sub004/config"
	"github.com/joinframework/join-sub004/errkind"
	"github.com/joinframework/join-sub004/logging"
)

// entry is one cached file's bookkeeping: the stat fields used for
// revalidation and the mapped bytes themselves.
type entry struct {
	size    int64
	modTime int64 // UnixNano, avoids importing time into comparisons hot path
	data    mappedFile
}

// Cache maps file names to memory-mapped contents, revalidating entries
// against a fresh stat on every Get.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]*entry
	order      []string        // insertion order, for FIFO eviction
	tracked    map[string]bool // fileName present in order
	maxEntries int             // 0 means unbounded
}

// New constructs an empty, unbounded Cache.
func New() *Cache {
	return &Cache{entries: make(map[string]*entry)}
}

// NewFromConfig constructs a Cache capped at cfg.MaxEntries distinct
// file names (0 means unbounded, matching New).
func NewFromConfig(cfg config.CacheConfig) *Cache {
	c := New()
	c.maxEntries = cfg.MaxEntries
	if c.maxEntries > 0 {
		c.tracked = make(map[string]bool)
	}
	return c
}

// Get looks up fileName; if the cached entry's size and mtime still
// match a fresh stat, returns the cached bytes. Otherwise it opens the
// file, memory-maps it, replaces the entry, and returns the new bytes.
// On stat/open/mmap failure it sets errkind.Last and returns nil, false.
func (c *Cache) Get(fileName string) ([]byte, bool) {
	log := logging.Named("cache")

	info, err := os.Stat(fileName)
	if err != nil {
		errkind.Set(errkind.NotFound, err)
		log.Debug().Str("file", fileName).Err(err).Msg("stat failed")
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[fileName]; ok {
		if e.size == info.Size() && e.modTime == info.ModTime().UnixNano() {
			return e.data.bytes(), true
		}
		// Stale: unmap the old bytes before rebuilding.
		_ = e.data.close()
		delete(c.entries, fileName)
	}

	mapped, err := mapFile(fileName)
	if err != nil {
		errkind.Set(errkind.OperationFailed, fmt.Errorf("cache: mapping %q: %w", fileName, err))
		log.Debug().Str("file", fileName).Err(err).Msg("mmap failed")
		return nil, false
	}

	if c.maxEntries > 0 && !c.tracked[fileName] {
		for len(c.entries) >= c.maxEntries {
			if !c.evictOldest() {
				break
			}
		}
		c.order = append(c.order, fileName)
		c.tracked[fileName] = true
	}

	c.entries[fileName] = &entry{
		size:    info.Size(),
		modTime: info.ModTime().UnixNano(),
		data:    mapped,
	}
	return mapped.bytes(), true
}

// evictOldest drops the oldest still-live tracked entry. Returns false
// if nothing was left to evict (order only holds names already removed
// by an explicit Remove/Clear).
func (c *Cache) evictOldest() bool {
	for len(c.order) > 0 {
		name := c.order[0]
		c.order = c.order[1:]
		delete(c.tracked, name)
		if e, ok := c.entries[name]; ok {
			_ = e.data.close()
			delete(c.entries, name)
			return true
		}
	}
	return false
}

// Remove drops fileName's entry, unmapping its bytes. A no-op if absent.
func (c *Cache) Remove(fileName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[fileName]; ok {
		_ = e.data.close()
		delete(c.entries, fileName)
	}
	if c.maxEntries > 0 && c.tracked[fileName] {
		delete(c.tracked, fileName)
		for i, n := range c.order {
			if n == fileName {
				c.order = append(c.order[:i], c.order[i+1:]...)
				break
			}
		}
	}
}

// Clear drops every entry, unmapping all bytes.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for name, e := range c.entries {
		_ = e.data.close()
		delete(c.entries, name)
	}
	c.order = nil
	if c.tracked != nil {
		c.tracked = make(map[string]bool)
	}
}

// Size returns the number of entries currently cached.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
