package extract

import (
	"fmt"
	"os"

	"github.com/dgraph-io/ristretto/v2"
)

// Cache wraps an Extractor with an in-process cache of raw extracted text.
// Entries are keyed by path, size and mtime, so an edited file misses.
// Only raw text is cached here; processed documents are built fresh on
// every call.
type Cache struct {
	inner Extractor
	cache *ristretto.Cache[string, string]
}

// NewCache creates a caching wrapper around inner holding up to maxBytes
// of extracted text.
func NewCache(inner Extractor, maxBytes int64) (*Cache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, string]{
		NumCounters: 1e4,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{inner: inner, cache: cache}, nil
}

// Extract returns cached text when the file is unchanged, otherwise
// delegates to the inner extractor. Errors are never cached.
func (c *Cache) Extract(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		// Let the inner extractor produce the error; unsupported
		// extensions must still fail before any read.
		return c.inner.Extract(path)
	}

	key := fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano())
	if text, ok := c.cache.Get(key); ok {
		return text, nil
	}

	text, err := c.inner.Extract(path)
	if err != nil {
		return "", err
	}
	c.cache.Set(key, text, int64(len(text)))
	return text, nil
}

// Close releases the cache's resources.
func (c *Cache) Close() {
	c.cache.Close()
}
