package waveform

import (
	"container/list"
	"sync"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/wavbox/internal/domain/track"
)

// DefaultCacheSize is the number of thumbnails kept when none is configured.
const DefaultCacheSize = 5

type cacheKey struct {
	path       string
	modTime    int64
	frames     int
	sampleRate int
}

type cacheEntry struct {
	key   cacheKey
	thumb *Thumbnail
}

// Cache keeps the most recently used thumbnails.
// It is safe for concurrent use; thumbnails are built outside the UI loop.
type Cache struct {
	mu         sync.Mutex
	capacity   int
	resolution int
	order      *list.List // Front is most recent
	entries    map[cacheKey]*list.Element
}

// NewCache creates a cache holding up to capacity thumbnails of the given resolution.
func NewCache(capacity, resolution int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	return &Cache{
		capacity:   capacity,
		resolution: resolution,
		order:      list.New(),
		entries:    make(map[cacheKey]*list.Element),
	}
}

// Get returns the thumbnail for t, building it on a miss. A file rewritten
// in place is told apart by its modification time.
func (c *Cache) Get(t *track.Track) *Thumbnail {
	key := cacheKey{
		path:       t.Path,
		modTime:    t.ModTime.UnixNano(),
		frames:     t.Frames(),
		sampleRate: t.SampleRate,
	}

	c.mu.Lock()
	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		c.mu.Unlock()
		return el.Value.(*cacheEntry).thumb
	}
	c.mu.Unlock()

	// Scanning a long track takes a while; do it without holding the lock.
	thumb := NewThumbnail(t, c.resolution)
	zlog.Debug().Msgf("waveform: built thumbnail for %s: buckets=%d", t.Name, thumb.NumBuckets())

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		return el.Value.(*cacheEntry).thumb
	}
	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, thumb: thumb})

	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}

	return thumb
}

// Len returns the number of cached thumbnails.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
