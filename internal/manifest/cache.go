package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ErrCacheExpired is returned by Cache.Get when the stored manifest is older than the TTL
var ErrCacheExpired = errors.New("cached manifest expired")

// DefaultTTL is how long a downloaded manifest is reused
const DefaultTTL = 24 * time.Hour

// Cache keeps raw manifest documents on disk
type Cache struct {
	dir string
	ttl time.Duration
	mu  sync.RWMutex
}

// NewCache creates a cache rooted at dir. A non-positive ttl means DefaultTTL.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		cacheRoot, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("getting cache directory: %w", err)
		}
		dir = filepath.Join(cacheRoot, "jdkfetch")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	return &Cache{dir: dir, ttl: ttl}, nil
}

// Get returns the cached manifest called name
func (c *Cache) Get(name string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	path := c.Path(name)
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	if time.Since(info.ModTime()) > c.ttl {
		return nil, ErrCacheExpired
	}

	data, err := os.ReadFile(path) // #nosec G304 - path is built from the cache dir
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return data, nil
}

// Set stores a manifest called name
func (c *Cache) Set(name string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	path := c.Path(name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// Clean removes every cached manifest
func (c *Cache) Clean() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("listing cache: %w", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".json" {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil {
			return fmt.Errorf("removing %s: %w", e.Name(), err)
		}
	}
	return nil
}

// CacheKey names the cached copy of manifest name downloaded from urls.
// Each distinct URL list gets its own key.
func CacheKey(name string, urls []string) string {
	sum := sha256.Sum256([]byte(strings.Join(urls, "\n")))
	return name + "-" + hex.EncodeToString(sum[:])[:12]
}

// Path returns the file backing the manifest called name
func (c *Cache) Path(name string) string {
	return filepath.Join(c.dir, name+".json")
}
