// Package cache provides an in-memory LRU for decoded voice-bank clips.
// Re-reading and re-decoding the same phoneme recording dominates render
// cost for repeated text, so decoded PCM is kept keyed by file path with a
// byte-size cap and LRU eviction.
package cache

import (
	"container/list"
	"sync"
)

// Clip is a decoded recording: raw PCM plus its source format.
type Clip struct {
	PCM      []byte
	Channels int
	Width    int
	Rate     int
}

// ClipCache is a thread-safe LRU cache of decoded clips.
type ClipCache struct {
	capacity int64 // maximum size in bytes
	size     int64 // current size in bytes

	items    map[string]*list.Element
	eviction *list.List

	mu sync.Mutex

	stats Stats
}

// Stats holds cache performance counters.
type Stats struct {
	Capacity  int64
	Size      int64
	Hits      int64
	Misses    int64
	Evictions int64
}

type entry struct {
	key  string
	clip Clip
	size int64
}

// New creates a clip cache capped at capacity bytes. A capacity of zero or
// less returns nil; a nil *ClipCache is safe to use and caches nothing.
func New(capacity int64) *ClipCache {
	if capacity <= 0 {
		return nil
	}
	return &ClipCache{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		eviction: list.New(),
		stats:    Stats{Capacity: capacity},
	}
}

// Get retrieves a decoded clip by path.
func (c *ClipCache) Get(key string) (Clip, bool) {
	if c == nil {
		return Clip{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return Clip{}, false
	}
	c.eviction.MoveToFront(elem)
	c.stats.Hits++
	return elem.Value.(*entry).clip, true
}

// Put stores a decoded clip. Clips larger than the whole cache are
// silently not stored.
func (c *ClipCache) Put(key string, clip Clip) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	clipSize := int64(len(clip.PCM))
	if clipSize > c.capacity {
		return
	}

	if elem, ok := c.items[key]; ok {
		c.eviction.MoveToFront(elem)
		e := elem.Value.(*entry)
		c.size += clipSize - e.size
		e.clip = clip
		e.size = clipSize
		c.stats.Size = c.size
		return
	}

	for c.size+clipSize > c.capacity && c.eviction.Len() > 0 {
		c.evictOldest()
	}

	elem := c.eviction.PushFront(&entry{key: key, clip: clip, size: clipSize})
	c.items[key] = elem
	c.size += clipSize
	c.stats.Size = c.size
}

// Len returns the number of cached clips.
func (c *ClipCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eviction.Len()
}

// Stats returns a snapshot of the cache counters.
func (c *ClipCache) Stats() Stats {
	if c == nil {
		return Stats{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Clear removes all entries.
func (c *ClipCache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.eviction.Init()
	c.size = 0
	c.stats.Size = 0
}

func (c *ClipCache) evictOldest() {
	elem := c.eviction.Back()
	if elem == nil {
		return
	}
	e := elem.Value.(*entry)
	c.eviction.Remove(elem)
	delete(c.items, e.key)
	c.size -= e.size
	c.stats.Size = c.size
	c.stats.Evictions++
}
