package translator

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// NodeView is a read-only view over a parsed element. Rules only read
// through it; the tree belongs to the conversion engine.
type NodeView struct {
	node *html.Node
	sel  *goquery.Selection
}

// NewNodeView wraps n. A nil node yields an empty view.
func NewNodeView(n *html.Node) NodeView {
	if n == nil {
		return NodeView{sel: &goquery.Selection{}}
	}
	return NodeView{node: n, sel: goquery.NewDocumentFromNode(n).Selection}
}

func viewOf(sel *goquery.Selection) NodeView {
	if sel.Length() == 0 {
		return NodeView{sel: sel}
	}
	return NodeView{node: sel.Get(0), sel: sel}
}

// Exists reports whether the view points at a node.
func (v NodeView) Exists() bool {
	return v.node != nil
}

// Name returns the lowercase element name, or "" for non-elements.
func (v NodeView) Name() string {
	if v.node == nil || v.node.Type != html.ElementNode {
		return ""
	}
	return v.node.Data
}

// Attr returns the value of the named attribute.
func (v NodeView) Attr(key string) (string, bool) {
	return v.sel.Attr(key)
}

// AttrOr returns the named attribute or fallback when it is absent.
func (v NodeView) AttrOr(key, fallback string) string {
	return v.sel.AttrOr(key, fallback)
}

// HasAttr reports whether the named attribute is present, even if empty.
func (v NodeView) HasAttr(key string) bool {
	_, ok := v.sel.Attr(key)
	return ok
}

// Text returns the concatenated text content of the node and its descendants.
func (v NodeView) Text() string {
	return v.sel.Text()
}

// OuterHTML serializes the node including its own tag.
func (v NodeView) OuterHTML() string {
	if v.node == nil {
		return ""
	}
	out, err := goquery.OuterHtml(v.sel)
	if err != nil {
		return ""
	}
	return out
}

// Find returns the first descendant matching the CSS selector.
func (v NodeView) Find(selector string) NodeView {
	return viewOf(v.sel.Find(selector).First())
}

// PrevIsElement reports whether the immediately preceding sibling is
// anything other than a text node.
func (v NodeView) PrevIsElement() bool {
	if v.node == nil || v.node.PrevSibling == nil {
		return false
	}
	return v.node.PrevSibling.Type != html.TextNode
}
