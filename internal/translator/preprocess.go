package translator

import (
	"html"
	"regexp"
	"strings"
)

// LanguageAttr carries the code language recovered from a block comment
// to the "pre" rule.
const LanguageAttr = "data-wetm-language"

var (
	// doubleBreak matches exactly two consecutive line breaks anywhere in the
	// document, including inside <pre>. Inserting an empty block there keeps
	// adjacent paragraphs separated after conversion.
	doubleBreak = regexp.MustCompile(`(\r?\n){2}`)

	// localImage captures the opening of an <img> tag up to src=", the file
	// name at the end of the src path, and the rest of the tag.
	localImage = regexp.MustCompile(`(?i)(<img[^>]*src=").*?([^/"]+\.(?:gif|jpe?g|png|webp))("[^>]*>)`)

	// moreComment matches <!--more--> and <!--more custom label-->.
	moreComment = regexp.MustCompile(`<(!--more( .*)?--)>`)

	// codeLanguage matches a block comment carrying a language followed by
	// the start of a <pre> tag on the next line.
	codeLanguage = regexp.MustCompile(`(<!-- wp:.+? \{"language":"(.+?)"\} -->\r?\n<pre )`)
)

// Preprocess applies the text-level transforms that run before the HTML is
// parsed. Order matters: later patterns expect the earlier ones to have run.
func Preprocess(content string, opts Options) string {
	content = preserveParagraphBreaks(content)
	if opts.SaveScrapedImages {
		content = RewriteImagePaths(content)
	}
	content = protectMoreSeparator(content)
	content = injectCodeLanguage(content)
	return content
}

func preserveParagraphBreaks(content string) string {
	return doubleBreak.ReplaceAllString(content, "\n<div></div>\n")
}

// RewriteImagePaths points every <img> src with an image extension at the
// relative images/ folder, keeping only the file name.
func RewriteImagePaths(content string) string {
	return localImage.ReplaceAllString(content, "${1}images/${2}${3}")
}

// LocalImage is an <img> reference that RewriteImagePaths points at the
// images/ folder.
type LocalImage struct {
	// URL is the original src.
	URL string
	// Name is the file name the rewritten src expects below images/.
	Name string
}

// LocalImages lists, in document order, the images RewriteImagePaths
// rewrites when Preprocess runs with SaveScrapedImages. Saving each URL as
// images/<Name> satisfies every rewritten reference.
func LocalImages(content string) []LocalImage {
	content = preserveParagraphBreaks(content)

	var out []LocalImage
	for _, m := range localImage.FindAllStringSubmatchIndex(content, -1) {
		src := content[m[3]:m[5]]
		// A match can run past the closing quote into a later tag; the
		// rewritten name then belongs to the src after the last quote.
		if i := strings.LastIndexByte(src, '"'); i >= 0 {
			src = src[i+1:]
		}
		out = append(out, LocalImage{
			URL:  html.UnescapeString(src),
			Name: html.UnescapeString(content[m[4]:m[5]]),
		})
	}
	return out
}

// protectMoreSeparator escapes the first more comment so the parser keeps it
// as text. Postprocess turns it back into a literal comment.
func protectMoreSeparator(content string) string {
	loc := moreComment.FindStringSubmatchIndex(content)
	if loc == nil {
		return content
	}
	inner := content[loc[2]:loc[3]]
	return content[:loc[0]] + "&lt;" + inner + "&gt;" + content[loc[1]:]
}

func injectCodeLanguage(content string) string {
	return codeLanguage.ReplaceAllString(content, `${1}`+LanguageAttr+`="${2}" `)
}
