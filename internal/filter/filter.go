// Package filter selects posts by their permalink.
package filter

import (
	"fmt"
	"regexp"
)

// Filter holds compiled include and exclude patterns for post links.
// With no include patterns every link is included.
type Filter struct {
	include []*regexp.Regexp
	exclude []*regexp.Regexp
}

// New compiles the include and exclude regexes into a Filter.
// Returns an error if any pattern is invalid.
func New(include, exclude []string) (*Filter, error) {
	in, err := compile(include)
	if err != nil {
		return nil, err
	}
	ex, err := compile(exclude)
	if err != nil {
		return nil, err
	}
	return &Filter{include: in, exclude: ex}, nil
}

func compile(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// Allowed reports whether a post with the given link should be exported:
// it must match an include pattern (when any are set) and no exclude
// pattern. A nil Filter allows everything.
func (f *Filter) Allowed(link string) bool {
	if f == nil {
		return true
	}
	for _, p := range f.exclude {
		if p.MatchString(link) {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, p := range f.include {
		if p.MatchString(link) {
			return true
		}
	}
	return false
}
