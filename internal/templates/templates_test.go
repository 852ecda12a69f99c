package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleData() Data {
	return Data{
		Frontmatter: "title: Hello\n",
		Body:        "Some <Image filename=\"a.jpg\" /> & more",
		Title:       "Hello",
		Slug:        "hello",
		Type:        "post",
	}
}

func TestNew_EmptyDir(t *testing.T) {
	s, err := New("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := s.Render("post", sampleData())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "---\ntitle: Hello\n---\n\nSome <Image filename=\"a.jpg\" /> & more\n"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestNew_LoadsTemplates(t *testing.T) {
	dir := t.TempDir()

	os.WriteFile(filepath.Join(dir, "page.mustache"), []byte("# {{title}}\n\n{{{body}}}"), 0o644)
	os.WriteFile(filepath.Join(dir, "_default.mustache"), []byte("default: {{slug}}"), 0o644)
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("not a template"), 0o644)

	s, err := New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.templates) != 1 {
		t.Errorf("expected 1 post type template, got %d", len(s.templates))
	}

	page, err := s.Render("page", sampleData())
	if err != nil {
		t.Fatalf("Render page: %v", err)
	}
	if !strings.HasPrefix(page, "# Hello\n\nSome <Image") {
		t.Errorf("unexpected page output %q", page)
	}

	post, err := s.Render("post", sampleData())
	if err != nil {
		t.Fatalf("Render post: %v", err)
	}
	if post != "default: hello" {
		t.Errorf("expected default template for post, got %q", post)
	}
}

func TestNew_InvalidTemplate(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "post.mustache"), []byte("{{#unclosed}}"), 0o644)

	if _, err := New(dir); err == nil {
		t.Fatal("expected error for invalid template")
	}
}

func TestNew_MissingDir(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing template dir")
	}
}

func TestStore_NilRendersDefault(t *testing.T) {
	var s *Store
	got, err := s.Render("post", sampleData())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(got, "---\ntitle: Hello\n---\n\n") {
		t.Errorf("unexpected output %q", got)
	}
}

func BenchmarkStore_Render(b *testing.B) {
	s, _ := New("")
	data := sampleData()
	data.Body = strings.Repeat("Paragraph text.\n\n", 200)
	for b.Loop() {
		s.Render("post", data)
	}
}
