// Package templates renders post files from Mustache templates.
package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cbroglie/mustache"
)

// DefaultTemplate writes YAML frontmatter followed by the Markdown body.
const DefaultTemplate = "---\n{{{frontmatter}}}---\n\n{{{body}}}\n"

// Data is the context passed to post templates.
type Data struct {
	Frontmatter string
	Body        string
	Title       string
	Slug        string
	Date        string
	Type        string
}

func (d Data) context() map[string]any {
	return map[string]any{
		"frontmatter": d.Frontmatter,
		"body":        d.Body,
		"title":       d.Title,
		"slug":        d.Slug,
		"date":        d.Date,
		"type":        d.Type,
	}
}

// Store holds parsed templates keyed by post type. A file named
// _default.mustache replaces the built-in fallback.
type Store struct {
	templates       map[string]*mustache.Template
	defaultTemplate *mustache.Template
}

// New loads every <post type>.mustache file from dir. An empty dir yields a
// store that only knows the built-in template.
func New(dir string) (*Store, error) {
	def, err := mustache.ParseString(DefaultTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing default template: %w", err)
	}
	s := &Store{
		templates:       make(map[string]*mustache.Template),
		defaultTemplate: def,
	}
	if dir == "" {
		return s, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".mustache") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		tpl, err := mustache.ParseString(string(content))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}

		postType := strings.TrimSuffix(name, ".mustache")
		if postType == "_default" {
			s.defaultTemplate = tpl
			continue
		}
		s.templates[postType] = tpl
	}

	return s, nil
}

func (s *Store) match(postType string) *mustache.Template {
	if tpl, ok := s.templates[postType]; ok {
		return tpl
	}
	return s.defaultTemplate
}

// Render renders the template for the post type, falling back to the
// default one.
func (s *Store) Render(postType string, data Data) (string, error) {
	if s == nil {
		return mustache.Render(DefaultTemplate, data.context())
	}
	out, err := s.match(postType).Render(data.context())
	if err != nil {
		return "", fmt.Errorf("rendering %s template: %w", postType, err)
	}
	return out, nil
}
