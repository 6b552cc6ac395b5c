// ABOUTME: Cover art cache for embedded album images
// ABOUTME: Writes cover bytes to a temp directory so the GUI and MPRIS can reference them by path
package artwork

import (
	"crypto/sha256"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

// Cache stores embedded cover images as files in a temp directory,
// keyed by content hash. Tracks reference covers by raw bytes; the
// media session and window icon need a file path.
type Cache struct {
	dir         string
	currentPath string
}

// NewCache creates the cache directory.
func NewCache() (*Cache, error) {
	dir := filepath.Join(os.TempDir(), "platter-artwork")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create artwork cache directory: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Store writes cover bytes to the cache and returns the file path.
// Identical covers share one file. Empty input returns an empty path
// with no error.
func (c *Cache) Store(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}

	hash := sha256.Sum256(data)
	filename := fmt.Sprintf("%x%s", hash[:8], extensionFor(data))
	path := filepath.Join(c.dir, filename)

	if _, err := os.Stat(path); err == nil {
		c.currentPath = path
		return path, nil
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write cover to cache: %w", err)
	}

	c.currentPath = path
	return path, nil
}

// CurrentPath returns the most recently stored cover path.
func (c *Cache) CurrentPath() string {
	return c.currentPath
}

// Cleanup removes the cache directory.
func (c *Cache) Cleanup() error {
	c.currentPath = ""
	return os.RemoveAll(c.dir)
}

// extensionFor sniffs the image type from the cover bytes.
func extensionFor(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}
