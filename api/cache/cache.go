// Package cache provides a generic file-backed cache for API responses.
//
// The portal country directory and per-country repository listings are pure
// functions of their input for the lifetime of a session, so they are cached
// on disk with a short TTL. Reports and search results are never cached.
package cache

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	// DefaultTTL is the default time-to-live for cached entries.
	// Directory and repository listings are session-scoped; an hour keeps
	// repeated invocations cheap without serving stale data for long.
	DefaultTTL = 1 * time.Hour

	// DefaultDir is the default cache directory
	DefaultDir string
)

// Entry represents a cached item
type Entry[T any] struct {
	Value     T
	CreatedAt time.Time
}

// Cache provides a generic caching mechanism namespaced by kind
type Cache[T any] struct {
	dir string
	ttl time.Duration
}

func init() {
	cacheHome, err := os.UserCacheDir()
	if err != nil {
		DefaultDir = filepath.Join(os.TempDir(), "ehri-explorer")
	} else {
		DefaultDir = filepath.Join(cacheHome, "ehri-explorer")
	}

	if ttl := os.Getenv("EHRI_CACHE_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil && d > 0 {
			DefaultTTL = d
		}
	}
}

// New creates a cache for values of type T under the given namespace
func New[T any](namespace string) *Cache[T] {
	return &Cache[T]{
		dir: filepath.Join(DefaultDir, namespace),
		ttl: DefaultTTL,
	}
}

// normalizeKey converts a cache key into a filesystem-safe format
func normalizeKey(key string) string {
	normalized := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') ||
			r == '-' || r == '_' || r == '.' {
			return r
		}
		return '_'
	}, key)

	for strings.Contains(normalized, "..") {
		normalized = strings.ReplaceAll(normalized, "..", ".")
	}

	return normalized
}

// GetOrSet retrieves a value from cache or stores it if it doesn't exist.
// The forceUpdate parameter can be used to ignore the cache and fetch fresh data.
func (c *Cache[T]) GetOrSet(key string, fn func() (T, error), forceUpdate bool) (T, error) {
	path := filepath.Join(c.dir, normalizeKey(key)+".gob")

	if !forceUpdate {
		if entry, err := c.loadEntry(path); err == nil {
			if time.Since(entry.CreatedAt) < c.ttl {
				return entry.Value, nil
			}
		}
	}

	value, err := fn()
	if err != nil {
		var zero T
		return zero, err
	}

	entry := Entry[T]{
		Value:     value,
		CreatedAt: time.Now(),
	}

	if err := c.saveEntry(path, entry); err != nil {
		// A cache write failure is not a reason to fail the fetch
		return value, nil
	}

	return value, nil
}

func (c *Cache[T]) loadEntry(path string) (*Entry[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entry Entry[T]
	if err := gob.NewDecoder(f).Decode(&entry); err != nil {
		return nil, err
	}

	return &entry, nil
}

func (c *Cache[T]) saveEntry(path string, entry Entry[T]) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return gob.NewEncoder(f).Encode(entry)
}

// Clear removes all cached entries in this namespace
func (c *Cache[T]) Clear() error {
	return os.RemoveAll(c.dir)
}

// SetTTL updates the cache TTL
func (c *Cache[T]) SetTTL(d time.Duration) {
	c.ttl = d
}

// SetDir updates the cache directory
func (c *Cache[T]) SetDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	c.dir = dir
	return nil
}
