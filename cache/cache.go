// Package cache implements the geometry cache: a bounded map keyed by
// a fingerprint of (feature kind, profile dimensions, params), evicted by
// LRU plus a byte budget plus a TTL sweep.
//
// The eviction order is a container/list doubly linked list whose
// elements point at the entries (each entry keeps its own element for
// O(1) moves and removals), the same LRU shape
// gioui.org/text.layoutCache/pathCache use for their glyph-shaping
// caches, rather than a third-party cache library: the accounting invariants
// (current_bytes == sum of entry sizes at every observation, strict
// LRU-order eviction, at-most-once factory invocation per fingerprint
// under concurrent callers) are stronger guarantees than approximate
// admission-policy caches such as ristretto provide.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Key is a fingerprint identifying a cacheable cut solid: a 32-bit
// rolling hash of (feature kind, profile dimensions, params) computed by
// Fingerprint.
type Key uint32

// Mesh is the minimal surface the cache needs from a stored value: it
// must be cloneable, since callers receive clones and never a shared
// reference to the stored value, and it must report its
// own footprint for the cache's byte accounting.
type Mesh interface {
	Clone() Mesh
	ByteSize() int64
}

// Config configures a Cache's bounds.
type Config struct {
	MaxBytes        int64
	MaxEntries      int
	TTL             time.Duration
	CleanupInterval time.Duration
}

// DefaultConfig returns the defaults: 100 MiB, 1000 entries, a
// 300000ms TTL, and a 60000ms cleanup interval.
func DefaultConfig() Config {
	return Config{
		MaxBytes:        100 * 1024 * 1024,
		MaxEntries:      1000,
		TTL:             300 * time.Second,
		CleanupInterval: 60 * time.Second,
	}
}

// entry is one cache slot, threaded into the LRU list via elem.
type entry struct {
	key          Key
	mesh         Mesh
	byteSize     int64
	lastAccessed time.Time
	accessCount  int64
	elem         *list.Element // element in Cache.order, Value == this *entry
}

// Stats is an immutable point-in-time snapshot of the cache's counters.
// Returning a value type rather than exposing live
// counters lets callers print or compare a snapshot without racing the
// cache's own mutations.
type Stats struct {
	Entries   int
	Bytes     int64
	Hits      int64
	Misses    int64
	Evictions int64
}

// HitRate returns Hits / (Hits + Misses), or 0 if there have been no
// lookups at all.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Cache is a bounded, thread-safe fingerprint -> Mesh map.
type Cache struct {
	cfg Config

	mu        sync.Mutex
	entries   map[Key]*entry
	order     *list.List // front = most recently used, back = least
	curBytes  int64
	hits      int64
	misses    int64
	evictions int64

	inflight map[Key]*singleflightCall
}

type singleflightCall struct {
	done chan struct{}
	mesh Mesh
	err  error
}

// New returns a Cache configured with cfg.
func New(cfg Config) *Cache {
	return &Cache{
		cfg:      cfg,
		entries:  make(map[Key]*entry),
		order:    list.New(),
		inflight: make(map[Key]*singleflightCall),
	}
}

// Get returns a clone of the mesh stored under key, and true, or (nil,
// false) on a miss. A hit updates the entry's LRU position and access
// statistics.
func (c *Cache) Get(key Key) (Mesh, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getLocked(key)
}

func (c *Cache) getLocked(key Key) (Mesh, bool) {
	e, ok := c.entries[key]
	if !ok || c.expiredLocked(e) {
		c.misses++
		return nil, false
	}
	c.hits++
	e.lastAccessed = time.Now()
	e.accessCount++
	c.order.MoveToFront(e.elem)
	return e.mesh.Clone(), true
}

func (c *Cache) expiredLocked(e *entry) bool {
	if c.cfg.TTL <= 0 {
		return false
	}
	return time.Since(e.lastAccessed) > c.cfg.TTL
}

// Set inserts mesh under key, cloning it so the cache owns its own copy.
// If mesh's byte size alone exceeds MaxBytes the entry is
// silently not cached (CacheOverflow); this is not an error.
func (c *Cache) Set(key Key, mesh Mesh) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(key, mesh)
}

func (c *Cache) setLocked(key Key, mesh Mesh) {
	size := mesh.ByteSize()
	if c.cfg.MaxBytes > 0 && size > c.cfg.MaxBytes {
		return // CacheOverflow: silently not cached.
	}
	if old, ok := c.entries[key]; ok {
		c.order.Remove(old.elem)
		c.curBytes -= old.byteSize
		delete(c.entries, key)
	}
	c.evictLocked(size)

	clone := mesh.Clone()
	e := &entry{key: key, mesh: clone, byteSize: size, lastAccessed: time.Now(), accessCount: 1}
	e.elem = c.order.PushFront(e)
	c.entries[key] = e
	c.curBytes += size
}

// evictLocked evicts least-recently-used entries, strictly in
// last-accessed order, until inserting an
// incoming entry of the given size would satisfy both bounds.
func (c *Cache) evictLocked(incoming int64) {
	for (c.curBytes+incoming > c.cfg.MaxBytes && c.cfg.MaxBytes > 0) ||
		(c.cfg.MaxEntries > 0 && len(c.entries) >= c.cfg.MaxEntries) {
		back := c.order.Back()
		if back == nil {
			return
		}
		c.evictElementLocked(back)
	}
}

func (c *Cache) evictElementLocked(elem *list.Element) {
	e := elem.Value.(*entry)
	c.order.Remove(elem)
	delete(c.entries, e.key)
	c.curBytes -= e.byteSize
	c.evictions++
}

// Remove deletes key from the cache, if present.
func (c *Cache) Remove(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		c.evictElementLocked(e.elem)
		c.evictions-- // explicit removal is not an eviction
	}
}

// Clear empties the cache and resets its byte accounting, but preserves
// its hit/miss/eviction counters (which are monotone).
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]*entry)
	c.order = list.New()
	c.curBytes = 0
}

// Stats returns a snapshot of the cache's current accounting and
// cumulative hit/miss/eviction counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Entries:   len(c.entries),
		Bytes:     c.curBytes,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

// Optimize purges entries whose access_count is below 25% of the mean
// access count across all entries.
func (c *Cache) Optimize() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) == 0 {
		return
	}
	var total int64
	for _, e := range c.entries {
		total += e.accessCount
	}
	mean := float64(total) / float64(len(c.entries))
	threshold := mean * 0.25

	var toEvict []*list.Element
	for _, e := range c.entries {
		if float64(e.accessCount) < threshold {
			toEvict = append(toEvict, e.elem)
		}
	}
	for _, elem := range toEvict {
		c.evictElementLocked(elem)
	}
}

// SweepExpired evicts every entry older than the configured TTL. A
// caller may invoke this periodically (e.g. on CleanupInterval) to
// implement the periodic TTL sweep; the cache does not spawn its own
// goroutine, keeping its lifecycle entirely caller-controlled.
func (c *Cache) SweepExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cfg.TTL <= 0 {
		return 0
	}
	n := 0
	for elem := c.order.Back(); elem != nil; {
		prev := elem.Prev()
		e := elem.Value.(*entry)
		if c.expiredLocked(e) {
			c.evictElementLocked(elem)
			n++
		}
		elem = prev
	}
	return n
}
