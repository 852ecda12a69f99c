// Package stats measures converted posts.
package stats

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Stats describes one piece of Markdown.
type Stats struct {
	Words  int `json:"words"`
	Tokens int `json:"tokens,omitempty"`
}

// Counter counts words and, when an encoding is configured, TikToken
// tokens. A nil *Counter counts words only.
type Counter struct {
	enc *tiktoken.Tiktoken
}

// NewCounter creates a counter for the given encoding name (e.g.
// "cl100k_base"). An empty name disables token counting.
func NewCounter(encoding string) (*Counter, error) {
	if encoding == "" {
		return &Counter{}, nil
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("loading tiktoken encoding %q: %w", encoding, err)
	}
	return &Counter{enc: enc}, nil
}

// TokensEnabled reports whether Count fills in Tokens.
func (c *Counter) TokensEnabled() bool {
	return c != nil && c.enc != nil
}

// Count measures text.
func (c *Counter) Count(text string) Stats {
	s := Stats{Words: len(strings.Fields(text))}
	if c.TokensEnabled() {
		s.Tokens = len(c.enc.Encode(text, nil, nil))
	}
	return s
}
