package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rickcrawford/wpmarkdown/internal/cache"
)

// Options configures a Fetcher.
type Options struct {
	Concurrency int
	Timeout     time.Duration
	Cache       *cache.DiskCache
	// Client overrides the HTTP client. Used by tests.
	Client *http.Client
}

// Fetcher downloads images with bounded concurrency. It remembers which URL
// each destination path was saved from, so a second image that would land
// on the same path is reported instead of silently reusing the first.
type Fetcher struct {
	client      *http.Client
	cache       *cache.DiskCache
	concurrency int

	mu      sync.Mutex
	claimed map[string]string
}

// NewFetcher creates a Fetcher from opts.
func NewFetcher(opts Options) *Fetcher {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Fetcher{
		client:      client,
		cache:       opts.Cache,
		concurrency: concurrency,
		claimed:     make(map[string]string),
	}
}

// claim records url as the source of dest. It reports false when dest
// already belongs to another URL, or was claimed by this URL before.
func (f *Fetcher) claim(dest, rawURL string) (ok bool, owner string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if prev, taken := f.claimed[dest]; taken {
		return false, prev
	}
	f.claimed[dest] = rawURL
	return true, ""
}

// Save downloads imgs into dir. Files already on disk from an earlier run
// are left alone. An image whose destination was already claimed by a
// different URL is not written and is reported as an error. A failed image
// does not stop the others; all failures are joined into the returned
// error. It returns the number of files written.
func (f *Fetcher) Save(ctx context.Context, imgs []Image, dir string) (int, error) {
	if f == nil || len(imgs) == 0 {
		return 0, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("creating image dir: %w", err)
	}

	saved := make([]bool, len(imgs))
	errs := make([]error, len(imgs))
	var g errgroup.Group
	g.SetLimit(f.concurrency)

	for i, img := range imgs {
		dest := filepath.Join(dir, img.Name)
		if ok, owner := f.claim(dest, img.URL); !ok {
			if owner != img.URL {
				errs[i] = fmt.Errorf("image %s: %s already saved from %s", img.URL, dest, owner)
			}
			continue
		}

		g.Go(func() error {
			if _, err := os.Stat(dest); err == nil {
				return nil
			}
			body, err := f.get(ctx, img.URL)
			if err != nil {
				errs[i] = err
				return nil
			}
			if err := os.WriteFile(dest, body, 0o644); err != nil {
				errs[i] = fmt.Errorf("writing %s: %w", dest, err)
				return nil
			}
			saved[i] = true
			return nil
		})
	}
	g.Wait()

	n := 0
	for _, ok := range saved {
		if ok {
			n++
		}
	}
	return n, errors.Join(errs...)
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	if e, ok := f.cache.Get(rawURL); ok {
		return e.Body, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() {
		return nil, fmt.Errorf("image %s: not an absolute URL", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("image %s: %w", rawURL, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("image %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("image %s: reading body: %w", rawURL, err)
	}

	if f.cache != nil && cache.IsCacheable(resp) {
		if err := f.cache.Put(rawURL, body, resp.Header.Get("Content-Type"), cache.TTL(resp)); err != nil {
			log.Printf("cache put error: %v", err)
		}
	}
	return body, nil
}
