package translator

import (
	"regexp"
	"strings"
)

// Rule overrides the engine's handling of matching elements. Tags lists the
// element names the rule can match; Filter narrows further and Replacement
// receives the converted children and the node itself.
type Rule struct {
	Name        string
	Tags        []string
	Inline      bool
	Filter      func(n NodeView) bool
	Replacement func(content string, n NodeView) string
}

func (r Rule) handles(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// DefaultRules returns the rule set in precedence order.
func DefaultRules() []Rule {
	return []Rule{
		tweetRule(),
		codepenRule(),
		scriptRule(),
		iframeRule(),
		figureRule(),
		preRule(),
		imageRule(),
	}
}

var attrBreaks = regexp.MustCompile(`(\n+\s*)+`)

// CleanAttribute collapses runs of line breaks (and the whitespace around
// them) into a single newline so values fit in a one-line tag.
func CleanAttribute(value string) string {
	if value == "" {
		return ""
	}
	return attrBreaks.ReplaceAllString(value, "\n")
}

func verbatim(_ string, n NodeView) string {
	return "\n\n" + n.OuterHTML() + "\n\n"
}

func tweetRule() Rule {
	return Rule{
		Name: "tweet",
		Tags: []string{"blockquote"},
		Filter: func(n NodeView) bool {
			return n.AttrOr("class", "") == "twitter-tweet"
		},
		Replacement: verbatim,
	}
}

// codepen embed markup changed over the years; class plus slug hash is the
// common part.
func codepenRule() Rule {
	return Rule{
		Name: "codepen",
		Tags: []string{"p", "div"},
		Filter: func(n NodeView) bool {
			return n.HasAttr("data-slug-hash") && n.AttrOr("class", "") == "codepen"
		},
		Replacement: verbatim,
	}
}

func scriptRule() Rule {
	return Rule{
		Name:   "script",
		Tags:   []string{"script"},
		Filter: func(NodeView) bool { return true },
		Replacement: func(_ string, n NodeView) string {
			before := "\n\n"
			if n.PrevIsElement() {
				// keep embed scripts snug against the element they decorate
				before = "\n"
			}
			out := strings.Replace(n.OuterHTML(), `async=""`, "async", 1)
			return before + out + "\n\n"
		},
	}
}

func iframeRule() Rule {
	return Rule{
		Name:   "iframe",
		Tags:   []string{"iframe"},
		Filter: func(NodeView) bool { return true },
		Replacement: func(_ string, n NodeView) string {
			out := n.OuterHTML()
			out = strings.Replace(out, `allowfullscreen=""`, "allowFullScreen", 1)
			out = strings.Replace(out, `allowpaymentrequest=""`, "allowPaymentRequest", 1)
			out = strings.Replace(out, ` frameborder="0"`, "", 1)
			out = strings.Replace(out, ` scrolling="no"`, "", 1)
			return "\n\n" + out + "\n\n"
		},
	}
}

func figureRule() Rule {
	return Rule{
		Name:   "figure",
		Tags:   []string{"figure"},
		Filter: func(NodeView) bool { return true },
		Replacement: func(_ string, n NodeView) string {
			img := n.Find("img")
			if !img.Exists() {
				return ""
			}
			src := img.AttrOr("src", "")
			if src == "" {
				return ""
			}

			tag := ImageTag{
				Filename: src,
				Alt:      CleanAttribute(img.AttrOr("alt", "")),
				Title:    CleanAttribute(img.AttrOr("title", "")),
			}
			if caption := n.Find("figcaption"); caption.Exists() {
				text := CleanAttribute(caption.Text())
				tag.Caption = &text
			}
			return tag.Compact()
		},
	}
}

func preRule() Rule {
	return Rule{
		Name: "pre",
		Tags: []string{"pre"},
		// <pre><code> already renders as a fenced block
		Filter: func(n NodeView) bool {
			return !n.Find("code").Exists()
		},
		Replacement: func(_ string, n NodeView) string {
			language := n.AttrOr(LanguageAttr, "")
			return "\n\n```" + language + "\n" + n.Text() + "\n```\n\n"
		},
	}
}

func imageRule() Rule {
	return Rule{
		Name:   "image",
		Tags:   []string{"img"},
		Inline: true,
		Filter: func(NodeView) bool { return true },
		Replacement: func(_ string, n NodeView) string {
			src := n.AttrOr("src", "")
			if src == "" {
				return ""
			}
			tag := ImageTag{
				Filename: src,
				Alt:      CleanAttribute(n.AttrOr("alt", "")),
				Title:    CleanAttribute(n.AttrOr("title", "")),
			}
			return tag.Full()
		},
	}
}

// ImageTag is the self-closing <Image /> component emitted for images.
type ImageTag struct {
	Filename string
	Alt      string
	Title    string
	Caption  *string
}

// Full renders every attribute, empty or not. Used for bare images.
func (t ImageTag) Full() string {
	return `<Image filename="` + t.Filename + `" alt="` + t.Alt + `" title="` + t.Title + `" />`
}

// Compact renders alt and title only when set, and caption when present.
// Used for figures.
func (t ImageTag) Compact() string {
	var b strings.Builder
	b.WriteString(`<Image filename="` + t.Filename + `"`)
	if t.Alt != "" {
		b.WriteString(` alt="` + t.Alt + `"`)
	}
	if t.Title != "" {
		b.WriteString(` title="` + t.Title + `"`)
	}
	if t.Caption != nil {
		b.WriteString(` caption="` + *t.Caption + `"`)
	}
	b.WriteString(" />")
	return b.String()
}
