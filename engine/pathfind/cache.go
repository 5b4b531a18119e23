package pathfind

import (
	"container/list"

	"github.com/1siamBot/td-engine/engine/maplib"
)

// cacheKey identifies a query against one occupancy snapshot
type cacheKey struct {
	start, end maplib.Cell
	version    uint64
}

type cacheEntry struct {
	key    cacheKey
	result Result
}

// Cache is a fixed-capacity LRU of path results. Entries from older
// occupancy versions are never returned and age out naturally.
type Cache struct {
	capacity int
	order    *list.List // front = most recently used
	entries  map[cacheKey]*list.Element

	Hits, Misses uint64
}

// NewCache creates a cache holding up to capacity results
func NewCache(capacity int) *Cache {
	return &Cache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[cacheKey]*list.Element, capacity),
	}
}

// Get returns a cached result for (start, end) at the given version
func (c *Cache) Get(start, end maplib.Cell, version uint64) (Result, bool) {
	el, ok := c.entries[cacheKey{start, end, version}]
	if !ok {
		c.Misses++
		return Result{}, false
	}
	c.Hits++
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).result, true
}

// Put stores a result, evicting the least recently used entry when full
func (c *Cache) Put(start, end maplib.Cell, version uint64, r Result) {
	if c.capacity <= 0 {
		return
	}
	k := cacheKey{start, end, version}
	if el, ok := c.entries[k]; ok {
		el.Value.(*cacheEntry).result = r
		c.order.MoveToFront(el)
		return
	}
	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
	c.entries[k] = c.order.PushFront(&cacheEntry{key: k, result: r})
}

// Len returns the number of cached results
func (c *Cache) Len() int { return c.order.Len() }
