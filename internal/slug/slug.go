// Package slug builds URL and file-system friendly names from titles.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Make lowercases s, strips diacritics and joins the remaining alphanumeric
// runs with dashes: "Crème Brûlée!" -> "creme-brulee".
func Make(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = nonAlnum.ReplaceAllString(strings.ToLower(folded), "-")
	return strings.Trim(folded, "-")
}
