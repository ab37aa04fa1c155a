// Package cache implements a bounded, thread-safe LRU cache keyed by an
// xxhash digest of a query's terms, stage list, flavortext, max size and
// fuzzy-flavortext flag, sitting in front of
// Pipeline.Run so repeated identical queries skip re-walking the indexes.
//
// Grounded on the teacher's internal/semantic/lru_cache.go (container/list
// LRU with a map index), with the key itself hashed via xxhash the way the
// teacher's internal/cache package hashes cache keys for its metrics cache.
package cache

import (
	"container/list"
	"strconv"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/michaelx11/associative-search/internal/pipeline"
	"github.com/michaelx11/associative-search/internal/types"
)

// Cache is a fixed-capacity LRU cache of pipeline results, keyed by a
// 64-bit hash of the query shape. It is safe for concurrent use.
type Cache struct {
	maxSize int
	mu      sync.Mutex
	items   map[uint64]*list.Element
	order   *list.List

	hits, misses uint64
}

type entry struct {
	key    uint64
	result pipeline.Result
}

// New creates a cache holding at most maxSize entries. maxSize <= 0 falls
// back to a default of 256, the same defensive floor the teacher's LRU
// cache applies.
func New(maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = 256
	}
	return &Cache{
		maxSize: maxSize,
		items:   make(map[uint64]*list.Element),
		order:   list.New(),
	}
}

// Key derives the cache key for a query. Two queries with the same terms,
// stages, max size and flavortext in the same order hash identically;
// FuzzyFlavortext also participates since it changes scoring.
func Key(q pipeline.Query) uint64 {
	var b strings.Builder
	for _, t := range q.Terms {
		b.WriteString(t)
		b.WriteByte('\x1f')
	}
	b.WriteByte('\x1e')
	for _, s := range q.Stages {
		b.WriteString(string(s))
		b.WriteByte('\x1f')
	}
	b.WriteByte('\x1e')
	b.WriteString(q.Flavortext)
	b.WriteByte('\x1e')
	b.WriteString(strconv.Itoa(q.MaxSize))
	b.WriteByte('\x1e')
	if q.FuzzyFlavortext {
		b.WriteByte('1')
	}
	return xxhash.Sum64String(b.String())
}

// Get returns the cached result for key, if present, marking it
// most-recently-used.
func (c *Cache) Get(key uint64) (pipeline.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.order.MoveToFront(elem)
	c.hits++
	return elem.Value.(*entry).result, true
}

// Put stores result under key, evicting the least-recently-used entry if
// the cache is at capacity.
func (c *Cache) Put(key uint64, result pipeline.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*entry).result = result
		return
	}

	elem := c.order.PushFront(&entry{key: key, result: result})
	c.items[key] = elem

	if c.order.Len() > c.maxSize {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*entry).key)
		}
	}
}

// Clear empties the cache and resets its hit/miss counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[uint64]*list.Element)
	c.order = list.New()
	c.hits, c.misses = 0, 0
}

// Stats reports cumulative hit/miss counts and the MaxChains ceiling every
// cached Result is already known to respect.
func (c *Cache) Stats() (hits, misses uint64, maxChains int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses, types.MaxChains
}
