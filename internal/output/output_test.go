package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/adrg/frontmatter"
)

func TestNew_EmptyDir(t *testing.T) {
	w, err := New("", Layout{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w != nil {
		t.Error("expected nil writer for empty dir")
	}
}

func TestNew_CreatesDir(t *testing.T) {
	subdir := filepath.Join(t.TempDir(), "sub", "output")

	w, err := New(subdir, Layout{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w == nil {
		t.Fatal("expected non-nil writer")
	}
	if info, err := os.Stat(subdir); err != nil || !info.IsDir() {
		t.Fatalf("output dir not created: %v", err)
	}
}

func TestWriter_Path(t *testing.T) {
	date := time.Date(2020, 1, 15, 10, 30, 0, 0, time.UTC)
	target := Target{Type: "post", Slug: "hello-world", Date: date}

	tests := []struct {
		name   string
		layout Layout
		target Target
		want   string
	}{
		{
			name:   "post folders",
			layout: Layout{PostFolders: true},
			target: target,
			want:   "out/posts/hello-world/index.md",
		},
		{
			name:   "flat files",
			layout: Layout{},
			target: target,
			want:   "out/posts/hello-world.md",
		},
		{
			name:   "date prefix",
			layout: Layout{PostFolders: true, PrefixDate: true},
			target: target,
			want:   "out/posts/2020-01-15-hello-world/index.md",
		},
		{
			name:   "year and month folders",
			layout: Layout{YearFolders: true, MonthFolders: true},
			target: target,
			want:   "out/posts/2020/01/hello-world.md",
		},
		{
			name:   "undated post skips date parts",
			layout: Layout{PostFolders: true, PrefixDate: true, YearFolders: true},
			target: Target{Type: "page", Slug: "about"},
			want:   "out/pages/about/index.md",
		},
		{
			name:   "unsafe slug",
			layout: Layout{},
			target: Target{Type: "post", Slug: "a/b c"},
			want:   "out/posts/a_b_c.md",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Writer{dir: "out", layout: tt.layout}
			got := filepath.ToSlash(w.Path(tt.target))
			if got != tt.want {
				t.Errorf("Path() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriter_ImageDir(t *testing.T) {
	target := Target{Type: "post", Slug: "hello"}

	w := &Writer{dir: "out", layout: Layout{PostFolders: true}}
	if got := filepath.ToSlash(w.ImageDir(target)); got != "out/posts/hello/images" {
		t.Errorf("ImageDir() = %q", got)
	}

	flat := &Writer{dir: "out"}
	if got := filepath.ToSlash(flat.ImageDir(target)); got != "out/posts/images" {
		t.Errorf("flat ImageDir() = %q", got)
	}
}

func TestWriter_Write(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, Layout{PostFolders: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fm, err := Frontmatter{
		Title:      "Hello: World",
		Date:       "2020-01-15T10:30:00Z",
		Author:     []string{"jane doe"},
		Categories: []string{"News"},
	}.YAML()
	if err != nil {
		t.Fatalf("YAML: %v", err)
	}
	content := "---\n" + fm + "---\n\nBody text\n"

	path, err := w.Write(Target{Type: "post", Slug: "hello-world"}, []byte(content))
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if want := filepath.Join(dir, "posts", "hello-world", "index.md"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening output file: %v", err)
	}
	defer f.Close()

	var got Frontmatter
	rest, err := frontmatter.Parse(f, &got)
	if err != nil {
		t.Fatalf("parsing frontmatter: %v", err)
	}
	if got.Title != "Hello: World" || got.Categories[0] != "News" || got.Author[0] != "jane doe" {
		t.Errorf("unexpected frontmatter: %+v", got)
	}
	if strings.TrimSpace(string(rest)) != "Body text" {
		t.Errorf("body = %q", rest)
	}
}

func TestFrontmatter_OmitsEmpty(t *testing.T) {
	out, err := Frontmatter{Title: "Only title"}.YAML()
	if err != nil {
		t.Fatalf("YAML: %v", err)
	}
	if out != "title: Only title\n" {
		t.Errorf("YAML() = %q", out)
	}
}

func TestWriter_NilSafe(t *testing.T) {
	var w *Writer
	path, err := w.Write(Target{Type: "post", Slug: "x"}, []byte("data"))
	if err != nil || path != "" {
		t.Errorf("expected no-op from nil writer, got %q, %v", path, err)
	}
}

func BenchmarkWriter_Path(b *testing.B) {
	w := &Writer{dir: "out", layout: Layout{PostFolders: true, PrefixDate: true, YearFolders: true}}
	target := Target{Type: "post", Slug: "my-great-post", Date: time.Now()}
	for b.Loop() {
		w.Path(target)
	}
}
