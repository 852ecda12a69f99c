// Package wxr reads WordPress eXtended RSS exports.
package wxr

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	postDateLayout = "2006-01-02 15:04:05"
	zeroPostDate   = "0000-00-00 00:00:00"
)

// Category is a category or tag assigned to a post.
type Category struct {
	Domain   string `xml:"domain,attr"`
	Nicename string `xml:"nicename,attr"`
	Name     string `xml:",chardata"`
}

type encoded struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type postMeta struct {
	Key   string `xml:"meta_key"`
	Value string `xml:"meta_value"`
}

type item struct {
	Title         string     `xml:"title"`
	Link          string     `xml:"link"`
	PubDate       string     `xml:"pubDate"`
	Creator       []string   `xml:"creator"`
	Encoded       []encoded  `xml:"encoded"`
	ID            string     `xml:"post_id"`
	PostDate      string     `xml:"post_date"`
	Slug          string     `xml:"post_name"`
	Status        string     `xml:"status"`
	ParentID      string     `xml:"post_parent"`
	Type          string     `xml:"post_type"`
	AttachmentURL string     `xml:"attachment_url"`
	Categories    []Category `xml:"category"`
	Meta          []postMeta `xml:"postmeta"`
}

type rss struct {
	Channel struct {
		Title string `xml:"title"`
		Link  string `xml:"link"`
		Items []item `xml:"item"`
	} `xml:"channel"`
}

// Post is one item of the export: a post, page, attachment or custom type.
type Post struct {
	ID            string
	Title         string
	Link          string
	Creator       []string
	Content       string
	Excerpt       string
	PostDate      string
	PubDate       string
	Slug          string
	Status        string
	Type          string
	ParentID      string
	AttachmentURL string
	Categories    []Category
	Meta          map[string]string
}

// Date returns the post's publication time. Drafts carry a zeroed
// post_date, in which case pubDate is used. Zero when neither parses.
func (p *Post) Date() time.Time {
	if p.PostDate != "" && p.PostDate != zeroPostDate {
		if t, err := time.Parse(postDateLayout, p.PostDate); err == nil {
			return t
		}
	}
	if p.PubDate != "" {
		if t, err := time.Parse(time.RFC1123Z, p.PubDate); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Draft reports whether the post is not published.
func (p *Post) Draft() bool {
	return p.Status != "publish"
}

// Terms returns the names of the post's terms in the given domain
// ("category" or "post_tag"), skipping WordPress' default "uncategorized".
func (p *Post) Terms(domain string) []string {
	var out []string
	for _, c := range p.Categories {
		if c.Domain != domain || c.Nicename == "uncategorized" {
			continue
		}
		out = append(out, strings.TrimSpace(c.Name))
	}
	return out
}

// Export is a parsed WXR document.
type Export struct {
	Title string
	Link  string
	Posts []*Post

	byID map[string]*Post
}

// Parse decodes a WXR document.
func Parse(r io.Reader) (*Export, error) {
	var doc rss
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding export: %w", err)
	}

	e := &Export{
		Title: doc.Channel.Title,
		Link:  doc.Channel.Link,
		byID:  make(map[string]*Post, len(doc.Channel.Items)),
	}
	for _, it := range doc.Channel.Items {
		p := fromItem(it)
		e.Posts = append(e.Posts, p)
		if p.ID != "" {
			e.byID[p.ID] = p
		}
	}
	return e, nil
}

func fromItem(it item) *Post {
	p := &Post{
		ID:            strings.TrimSpace(it.ID),
		Title:         strings.TrimSpace(it.Title),
		Link:          strings.TrimSpace(it.Link),
		Creator:       it.Creator,
		PostDate:      strings.TrimSpace(it.PostDate),
		PubDate:       strings.TrimSpace(it.PubDate),
		Slug:          strings.TrimSpace(it.Slug),
		Status:        strings.TrimSpace(it.Status),
		Type:          strings.TrimSpace(it.Type),
		ParentID:      strings.TrimSpace(it.ParentID),
		AttachmentURL: strings.TrimSpace(it.AttachmentURL),
		Categories:    it.Categories,
		Meta:          make(map[string]string, len(it.Meta)),
	}
	for _, enc := range it.Encoded {
		switch {
		case strings.Contains(enc.XMLName.Space, "excerpt"):
			p.Excerpt = enc.Value
		default:
			p.Content = enc.Value
		}
	}
	for _, m := range it.Meta {
		p.Meta[m.Key] = m.Value
	}
	return p
}

// Get returns the item with the given post ID.
func (e *Export) Get(id string) (*Post, bool) {
	p, ok := e.byID[id]
	return p, ok
}

// Select returns the posts of the given types in document order. Drafts are
// only included when drafts is set; attachments are never selected.
func (e *Export) Select(types []string, drafts bool) []*Post {
	want := make(map[string]bool, len(types))
	for _, t := range types {
		want[t] = true
	}

	var out []*Post
	for _, p := range e.Posts {
		if p.Type == "attachment" || !want[p.Type] {
			continue
		}
		if p.Draft() && !drafts {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Attachments returns the attachment items whose parent is the given post.
func (e *Export) Attachments(parentID string) []*Post {
	var out []*Post
	for _, p := range e.Posts {
		if p.Type == "attachment" && p.ParentID == parentID && p.AttachmentURL != "" {
			out = append(out, p)
		}
	}
	return out
}

// CoverImage returns the URL of the post's featured image, if any.
func (e *Export) CoverImage(p *Post) string {
	id := p.Meta["_thumbnail_id"]
	if id == "" {
		return ""
	}
	att, ok := e.byID[id]
	if !ok {
		return ""
	}
	return att.AttachmentURL
}
