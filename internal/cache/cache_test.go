package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNew_EmptyDir(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != nil {
		t.Error("expected nil cache for empty dir")
	}
}

func TestNew_CreatesDir(t *testing.T) {
	subdir := filepath.Join(t.TempDir(), "sub", "cache")

	c, err := New(subdir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c == nil {
		t.Fatal("expected non-nil cache")
	}

	info, err := os.Stat(subdir)
	if err != nil {
		t.Fatalf("cache dir not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("expected directory")
	}
}

func TestDiskCache_PutGet(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	url := "https://blog.example.com/wp-content/uploads/cat.jpg"
	body := []byte("\xff\xd8\xff jpeg bytes")

	if err := c.Put(url, body, "image/jpeg", time.Hour); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	got, ok := c.Get(url)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(got.Body) != string(body) {
		t.Errorf("body = %q, want %q", got.Body, body)
	}
	if got.ContentType != "image/jpeg" {
		t.Errorf("content type = %q, want image/jpeg", got.ContentType)
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	url := "https://blog.example.com/expired.png"
	if err := c.Put(url, []byte("png"), "image/png", time.Minute); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	c.now = func() time.Time { return time.Now().Add(time.Hour) }

	if _, ok := c.Get(url); ok {
		t.Error("expected cache miss for expired entry")
	}

	bodyPath, metaPath := c.paths(url)
	for _, p := range []string{bodyPath, metaPath} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("expected %s to be removed", filepath.Base(p))
		}
	}
}

func TestDiskCache_CorruptMeta(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	url := "https://blog.example.com/corrupt.gif"
	bodyPath, metaPath := c.paths(url)
	os.WriteFile(bodyPath, []byte("gif"), 0o644)
	os.WriteFile(metaPath, []byte("not json"), 0o644)

	if _, ok := c.Get(url); ok {
		t.Error("expected cache miss for corrupt metadata")
	}
}

func TestDiskCache_Miss(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := c.Get("https://blog.example.com/nonexistent.png"); ok {
		t.Error("expected cache miss")
	}
}

func TestDiskCache_NilSafe(t *testing.T) {
	var c *DiskCache
	if _, ok := c.Get("https://blog.example.com/a.png"); ok {
		t.Error("expected false from nil cache")
	}
	if err := c.Put("https://blog.example.com/a.png", []byte("data"), "", time.Hour); err != nil {
		t.Errorf("expected nil error from nil cache Put, got %v", err)
	}
}

func BenchmarkDiskCache_PutGet(b *testing.B) {
	c, _ := New(b.TempDir())
	body := make([]byte, 64<<10)

	for b.Loop() {
		c.Put("https://blog.example.com/bench.jpg", body, "image/jpeg", time.Hour)
		c.Get("https://blog.example.com/bench.jpg")
	}
}
