// Package translator turns the HTML body of a WordPress post into Markdown.
//
// Content passes through three stages: Preprocess rewrites the raw HTML
// with regular expressions, the html-to-markdown engine converts it using
// the rule set from DefaultRules, and Postprocess tidies the result.
package translator

import (
	"fmt"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
)

// Options controls a single translation.
type Options struct {
	// SaveScrapedImages rewrites <img> references to the relative images/
	// folder the image fetcher saves into.
	SaveScrapedImages bool
}

// Translator converts post content. It is immutable once built and safe
// for concurrent use.
type Translator struct {
	conv  *converter.Converter
	rules []Rule
}

// New builds a Translator with the default rule set.
func New() *Translator {
	return NewWithRules(DefaultRules())
}

// NewWithRules builds a Translator with the given rules, evaluated in order.
func NewWithRules(rules []Rule) *Translator {
	rules = append([]Rule(nil), rules...)
	return &Translator{
		conv:  newEngine(rules),
		rules: rules,
	}
}

// Rules returns the names of the installed rules in precedence order.
func (t *Translator) Rules() []string {
	names := make([]string, len(t.rules))
	for i, r := range t.rules {
		names[i] = r.Name
	}
	return names
}

// Translate converts one post's HTML content into Markdown.
func (t *Translator) Translate(content string, opts Options) (string, error) {
	content = Preprocess(content, opts)

	// Parsed as body content so a leading <script> is not hoisted into
	// <head>, which the engine never renders.
	md, err := t.conv.ConvertString("<body>" + content)
	if err != nil {
		return "", fmt.Errorf("converting html: %w", err)
	}

	return Postprocess(md), nil
}
