// Package cache keeps downloaded images on disk so repeated exports do not
// fetch them again while the origin's cache headers allow reuse.
package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Entry is a cached download.
type Entry struct {
	Body        []byte    `json:"-"`
	ContentType string    `json:"content_type,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// DiskCache stores response bodies on disk, keyed by URL. Each entry is a
// .bin body file next to a .json metadata file.
type DiskCache struct {
	dir string
	now func() time.Time
}

// New creates a new DiskCache writing to the given directory.
// Returns nil if dir is empty.
func New(dir string) (*DiskCache, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	return &DiskCache{dir: dir, now: time.Now}, nil
}

func keyFor(rawURL string) string {
	h := sha256.Sum256([]byte(rawURL))
	return fmt.Sprintf("%x", h)
}

func (c *DiskCache) paths(rawURL string) (body, meta string) {
	key := keyFor(rawURL)
	return filepath.Join(c.dir, key+".bin"), filepath.Join(c.dir, key+".json")
}

// Get returns the cached entry for rawURL if one exists and hasn't expired.
// Expired entries are removed.
func (c *DiskCache) Get(rawURL string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	bodyPath, metaPath := c.paths(rawURL)

	metaBytes, err := os.ReadFile(metaPath)
	if err != nil {
		return Entry{}, false
	}
	var e Entry
	if err := json.Unmarshal(metaBytes, &e); err != nil || c.now().After(e.ExpiresAt) {
		os.Remove(metaPath)
		os.Remove(bodyPath)
		return Entry{}, false
	}

	e.Body, err = os.ReadFile(bodyPath)
	if err != nil {
		return Entry{}, false
	}
	return e, true
}

// Put stores body for rawURL until ttl elapses.
func (c *DiskCache) Put(rawURL string, body []byte, contentType string, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	bodyPath, metaPath := c.paths(rawURL)

	meta, err := json.Marshal(Entry{ContentType: contentType, ExpiresAt: c.now().Add(ttl)})
	if err != nil {
		return fmt.Errorf("encoding cache meta: %w", err)
	}
	if err := os.WriteFile(bodyPath, body, 0o644); err != nil {
		return fmt.Errorf("writing cache body: %w", err)
	}
	if err := os.WriteFile(metaPath, meta, 0o644); err != nil {
		return fmt.Errorf("writing cache meta: %w", err)
	}
	return nil
}
