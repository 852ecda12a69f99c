package translator

import (
	"strings"
	"testing"
)

func TestPreprocess_ParagraphBreaks(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "double newline",
			in:   "<p>one</p>\n\n<p>two</p>",
			want: "<p>one</p>\n<div></div>\n<p>two</p>",
		},
		{
			name: "crlf pair",
			in:   "a\r\n\r\nb",
			want: "a\n<div></div>\nb",
		},
		{
			name: "single newline untouched",
			in:   "a\nb",
			want: "a\nb",
		},
		{
			name: "three newlines leave one behind",
			in:   "a\n\n\nb",
			want: "a\n<div></div>\n\nb",
		},
		{
			name: "fires inside pre too",
			in:   "<pre>x\n\ny</pre>",
			want: "<pre>x\n<div></div>\ny</pre>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Preprocess(tt.in, Options{})
			if got != tt.want {
				t.Errorf("Preprocess(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRewriteImagePaths(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bare filename",
			in:   `<img src="photo.png">`,
			want: `<img src="images/photo.png">`,
		},
		{
			name: "absolute url keeps only the file name",
			in:   `<img class="wide" src="https://cdn.example/uploads/2020/01/x.png" alt="x">`,
			want: `<img class="wide" src="images/x.png" alt="x">`,
		},
		{
			name: "case insensitive extension",
			in:   `<IMG SRC="/a/B.JPG">`,
			want: `<IMG SRC="images/B.JPG">`,
		},
		{
			name: "jpeg and webp",
			in:   `<img src="/a/b.jpeg"><img src="/c/d.webp">`,
			want: `<img src="images/b.jpeg"><img src="images/d.webp">`,
		},
		{
			name: "already rewritten is stable",
			in:   `<img src="images/photo.png">`,
			want: `<img src="images/photo.png">`,
		},
		{
			name: "non image extension untouched",
			in:   `<img src="/a/file.svg">`,
			want: `<img src="/a/file.svg">`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RewriteImagePaths(tt.in)
			if got != tt.want {
				t.Errorf("RewriteImagePaths(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPreprocess_ImageRewriteOnlyWhenEnabled(t *testing.T) {
	in := `<img src="https://example.com/a.png">`
	if got := Preprocess(in, Options{}); got != in {
		t.Errorf("expected untouched content, got %q", got)
	}
	if got := Preprocess(in, Options{SaveScrapedImages: true}); got != `<img src="images/a.png">` {
		t.Errorf("expected rewritten src, got %q", got)
	}
}

func TestPreprocess_MoreSeparator(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain",
			in:   "intro<!--more-->rest",
			want: "intro&lt;!--more--&gt;rest",
		},
		{
			name: "custom label",
			in:   "intro<!--more Keep reading-->rest",
			want: "intro&lt;!--more Keep reading--&gt;rest",
		},
		{
			name: "only first",
			in:   "a<!--more-->b<!--more-->c",
			want: "a&lt;!--more--&gt;b<!--more-->c",
		},
		{
			name: "other comments untouched",
			in:   "<!-- wp:paragraph -->",
			want: "<!-- wp:paragraph -->",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Preprocess(tt.in, Options{})
			if got != tt.want {
				t.Errorf("Preprocess(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPreprocess_CodeLanguage(t *testing.T) {
	in := "<!-- wp:code {\"language\":\"go\"} -->\n<pre class=\"wp-block-code\">x</pre>"
	got := Preprocess(in, Options{})
	want := `<pre data-wetm-language="go" class="wp-block-code">`
	if !strings.Contains(got, want) {
		t.Errorf("expected %q in %q", want, got)
	}

	crlf := "<!-- wp:syntaxhighlighter/code {\"language\":\"php\"} -->\r\n<pre>x</pre>"
	if got := Preprocess(crlf, Options{}); strings.Contains(got, LanguageAttr) {
		// the tag has no trailing space after "pre", so nothing is injected
		t.Errorf("expected no injection for <pre> without attributes, got %q", got)
	}

	noPre := "<!-- wp:code {\"language\":\"go\"} -->\n<p>x</p>"
	if got := Preprocess(noPre, Options{}); strings.Contains(got, LanguageAttr) {
		t.Errorf("expected no injection without <pre>, got %q", got)
	}
}

func BenchmarkPreprocess(b *testing.B) {
	content := strings.Repeat("<p>para <img src=\"https://example.com/a.png\"></p>\n\n", 50) + "<!--more-->"
	opts := Options{SaveScrapedImages: true}
	for b.Loop() {
		Preprocess(content, opts)
	}
}
