package render

import (
	"fmt"
	"image"

	"github.com/dgraph-io/ristretto"
)

// DefaultCacheBytes bounds the resized-frame cache (256 MB of pixels).
const DefaultCacheBytes = 256 << 20

// Cache keeps resized frames keyed by source content and target size, so
// repeated relayouts (watch mode, the HTTP session) only resize what
// changed. Safe for concurrent use.
type Cache struct {
	c *ristretto.Cache
}

// NewCache creates a frame cache holding up to maxBytes of pixel data.
func NewCache(maxBytes int64) (*Cache, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultCacheBytes
	}
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("frame cache: %w", err)
	}
	return &Cache{c: c}, nil
}

func frameKey(sourceKey string, w, h int) string {
	return fmt.Sprintf("%s@%dx%d", sourceKey, w, h)
}

func (c *Cache) get(key string) (*image.NRGBA, bool) {
	v, ok := c.c.Get(key)
	if !ok {
		return nil, false
	}
	img, ok := v.(*image.NRGBA)
	return img, ok
}

func (c *Cache) put(key string, img *image.NRGBA) {
	c.c.Set(key, img, int64(len(img.Pix)))
	c.c.Wait()
}

// Clear drops every cached frame.
func (c *Cache) Clear() { c.c.Clear() }

// Close stops the cache's background goroutines.
func (c *Cache) Close() { c.c.Close() }
