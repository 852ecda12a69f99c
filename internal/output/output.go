// Package output lays out converted posts on disk.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// Layout controls where post files land below the output directory.
type Layout struct {
	PostFolders  bool
	PrefixDate   bool
	YearFolders  bool
	MonthFolders bool
}

// Target identifies a post for path building.
type Target struct {
	Type string
	Slug string
	Date time.Time
}

// Writer writes converted posts to a directory.
type Writer struct {
	dir    string
	layout Layout
}

// New creates a Writer that saves posts below dir.
// Returns nil if dir is empty.
func New(dir string, layout Layout) (*Writer, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}
	return &Writer{dir: dir, layout: layout}, nil
}

// unsafeChars matches characters that are not safe for filenames.
var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SafeName replaces characters that are unsafe in file names.
func SafeName(s string) string {
	return unsafeChars.ReplaceAllString(s, "_")
}

// Path returns the Markdown file path for t:
//
//	<dir>/<type>s/[yyyy/][mm/]<[yyyy-mm-dd-]slug>/index.md   (post folders)
//	<dir>/<type>s/[yyyy/][mm/]<[yyyy-mm-dd-]slug>.md
//
// Date parts are skipped when the post has no date.
func (w *Writer) Path(t Target) string {
	parts := []string{w.dir, SafeName(t.Type) + "s"}
	dated := !t.Date.IsZero()

	if dated && w.layout.YearFolders {
		parts = append(parts, t.Date.Format("2006"))
	}
	if dated && w.layout.MonthFolders {
		parts = append(parts, t.Date.Format("01"))
	}

	name := SafeName(t.Slug)
	if dated && w.layout.PrefixDate {
		name = t.Date.Format("2006-01-02") + "-" + name
	}

	if w.layout.PostFolders {
		parts = append(parts, name, "index.md")
	} else {
		parts = append(parts, name+".md")
	}
	return filepath.Join(parts...)
}

// ImageDir returns the folder images of t are saved to, matching the
// relative images/ references in the post body.
func (w *Writer) ImageDir(t Target) string {
	return filepath.Join(filepath.Dir(w.Path(t)), "images")
}

// Write saves content for t and returns the written path.
func (w *Writer) Write(t Target, content []byte) (string, error) {
	if w == nil {
		return "", nil
	}
	path := w.Path(t)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating post dir: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
