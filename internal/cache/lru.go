package cache

import (
	"container/list"
	"sync"
	"sync/atomic"
)

// LRU is a thread-safe least-recently-used cache holding at most capacity
// entries.
type LRU[K comparable, V any] struct {
	mu        sync.Mutex
	capacity  int
	items     map[K]*list.Element
	evictList *list.List
	onEvict   func(K, V)

	hits   atomic.Int64
	misses atomic.Int64
}

type entry[K comparable, V any] struct {
	key   K
	value V
}

// NewLRU creates a cache holding at most capacity entries. onEvict, if
// non-nil, is called for every entry that leaves the cache through eviction,
// Remove or Purge.
func NewLRU[K comparable, V any](capacity int, onEvict func(K, V)) *LRU[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &LRU[K, V]{
		capacity:  capacity,
		items:     make(map[K]*list.Element),
		evictList: list.New(),
		onEvict:   onEvict,
	}
}

// Get returns the cached value and marks it as recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.hits.Add(1)
		c.evictList.MoveToFront(ent)
		return ent.Value.(*entry[K, V]).value, true
	}
	c.misses.Add(1)
	var zero V
	return zero, false
}

// Add caches value under key, replacing any previous value. The replaced
// value and any entries pushed out by capacity are passed to onEvict.
func (c *LRU[K, V]) Add(key K, value V) {
	var evicted []*entry[K, V]

	c.mu.Lock()
	if ent, ok := c.items[key]; ok {
		c.evictList.MoveToFront(ent)
		e := ent.Value.(*entry[K, V])
		evicted = append(evicted, &entry[K, V]{key: key, value: e.value})
		e.value = value
	} else {
		c.items[key] = c.evictList.PushFront(&entry[K, V]{key: key, value: value})
		for c.evictList.Len() > c.capacity {
			evicted = append(evicted, c.removeElement(c.evictList.Back()))
		}
	}
	c.mu.Unlock()

	c.notify(evicted)
}

// Remove drops key from the cache.
func (c *LRU[K, V]) Remove(key K) bool {
	c.mu.Lock()
	ent, ok := c.items[key]
	var evicted []*entry[K, V]
	if ok {
		evicted = append(evicted, c.removeElement(ent))
	}
	c.mu.Unlock()

	c.notify(evicted)
	return ok
}

// Purge drops every entry.
func (c *LRU[K, V]) Purge() {
	c.mu.Lock()
	evicted := make([]*entry[K, V], 0, c.evictList.Len())
	for c.evictList.Len() > 0 {
		evicted = append(evicted, c.removeElement(c.evictList.Back()))
	}
	c.mu.Unlock()

	c.notify(evicted)
}

// Keys returns the cached keys from most to least recently used.
func (c *LRU[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]K, 0, c.evictList.Len())
	for e := c.evictList.Front(); e != nil; e = e.Next() {
		keys = append(keys, e.Value.(*entry[K, V]).key)
	}
	return keys
}

// Len returns the number of cached entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}

// Stats returns the hit and miss counts.
func (c *LRU[K, V]) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *LRU[K, V]) removeElement(e *list.Element) *entry[K, V] {
	c.evictList.Remove(e)
	kv := e.Value.(*entry[K, V])
	delete(c.items, kv.key)
	return kv
}

func (c *LRU[K, V]) notify(evicted []*entry[K, V]) {
	if c.onEvict == nil {
		return
	}
	for _, e := range evicted {
		c.onEvict(e.key, e.value)
	}
}
