package wxr

import "strings"

// Authors returns the post's author names. WordPress usernames cannot carry
// unusual characters, so no decoding is done; only the first dot becomes a
// space ("jane.doe" -> "jane doe").
func Authors(p *Post) []string {
	if len(p.Creator) == 0 {
		return []string{}
	}
	out := make([]string, 0, len(p.Creator))
	for _, c := range p.Creator {
		out = append(out, strings.Replace(strings.TrimSpace(c), ".", " ", 1))
	}
	return out
}
