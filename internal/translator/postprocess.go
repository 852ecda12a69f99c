package translator

import "regexp"

var (
	// escapedMore matches the protected more separator however the engine
	// rendered it: plain, backslash-escaped or entity-encoded brackets.
	escapedMore = regexp.MustCompile(`(?:\\?<|&lt;)!\\?-\\?-more((?: [^\n]*?)?)\\?-\\?-(?:\\?>|&gt;)`)

	// listMarkerSpaces matches a list marker at line start followed by more
	// than one space.
	listMarkerSpaces = regexp.MustCompile(`(?m)^([ \t]*)(-|\d+\.) {2,}`)
)

// Postprocess cleans up the Markdown produced by the engine. Running it on
// its own output is a no-op.
func Postprocess(markdown string) string {
	markdown = restoreMoreSeparator(markdown)
	markdown = collapseListMarkerSpaces(markdown)
	return markdown
}

func restoreMoreSeparator(markdown string) string {
	return escapedMore.ReplaceAllString(markdown, "<!--more${1}-->")
}

func collapseListMarkerSpaces(markdown string) string {
	return listMarkerSpaces.ReplaceAllString(markdown, "${1}${2} ")
}
