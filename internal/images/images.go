// Package images downloads the images a post references next to the
// converted Markdown.
package images

import (
	"net/url"
	"path"
	"strings"
)

// Image is a download: the remote URL and the file name it is saved as.
type Image struct {
	URL  string
	Name string
}

// FromURL names an image after the last path segment of its URL.
func FromURL(rawURL string) Image {
	return Image{URL: rawURL, Name: FileName(rawURL)}
}

// FileName returns the last path segment of rawURL without its query.
func FileName(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		rawURL = u.Path
	} else if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		rawURL = rawURL[:i]
	}
	return path.Base(strings.TrimRight(rawURL, "/"))
}
