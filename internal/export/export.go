// Package export converts the posts of a WordPress export into Markdown
// files.
package export

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rickcrawford/wpmarkdown/internal/filter"
	"github.com/rickcrawford/wpmarkdown/internal/images"
	"github.com/rickcrawford/wpmarkdown/internal/output"
	"github.com/rickcrawford/wpmarkdown/internal/slug"
	"github.com/rickcrawford/wpmarkdown/internal/stats"
	"github.com/rickcrawford/wpmarkdown/internal/templates"
	"github.com/rickcrawford/wpmarkdown/internal/translator"
	"github.com/rickcrawford/wpmarkdown/internal/wxr"
)

// Options selects what gets exported.
type Options struct {
	PostTypes          []string
	Drafts             bool
	Concurrency        int
	SaveAttachedImages bool
	SaveScrapedImages  bool
	Debug              bool
}

// Runner holds the collaborators of an export. Writer, Fetcher, Filter,
// Templates and Stats may be nil.
type Runner struct {
	Translator *translator.Translator
	Templates  *templates.Store
	Writer     *output.Writer
	Fetcher    *images.Fetcher
	Filter     *filter.Filter
	Stats      *stats.Counter
	Options    Options
}

// Summary totals a finished export.
type Summary struct {
	Posts   int
	Images  int
	Skipped int
	Words   int
	Tokens  int
}

type result struct {
	path   string
	images int
	stats  stats.Stats
}

// Run converts every selected post of e. The first conversion or write
// error cancels the remaining posts; image download failures are only
// logged.
func (r *Runner) Run(ctx context.Context, e *wxr.Export) (Summary, error) {
	var (
		mu  sync.Mutex
		sum Summary
	)

	posts := e.Select(r.Options.PostTypes, r.Options.Drafts)

	g, ctx := errgroup.WithContext(ctx)
	limit := r.Options.Concurrency
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)

	for _, p := range posts {
		if !r.Filter.Allowed(p.Link) {
			mu.Lock()
			sum.Skipped++
			mu.Unlock()
			continue
		}
		g.Go(func() error {
			res, err := r.exportPost(ctx, e, p)
			if err != nil {
				return fmt.Errorf("post %q: %w", p.Title, err)
			}
			if r.Options.Debug {
				log.Printf("converted %s %q -> %s (%d words, %d tokens, %d images)",
					p.Type, p.Title, res.path, res.stats.Words, res.stats.Tokens, res.images)
			}

			mu.Lock()
			sum.Posts++
			sum.Images += res.images
			sum.Words += res.stats.Words
			sum.Tokens += res.stats.Tokens
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	return sum, err
}

func (r *Runner) exportPost(ctx context.Context, e *wxr.Export, p *wxr.Post) (result, error) {
	if err := ctx.Err(); err != nil {
		return result{}, err
	}

	body, err := r.Translator.Translate(p.Content, translator.Options{
		SaveScrapedImages: r.Options.SaveScrapedImages,
	})
	if err != nil {
		return result{}, err
	}

	target := output.Target{Type: p.Type, Slug: PostSlug(p), Date: p.Date()}

	fm := r.frontmatter(e, p, target.Date)
	fmYAML, err := fm.YAML()
	if err != nil {
		return result{}, err
	}

	var date string
	if !target.Date.IsZero() {
		date = target.Date.Format(time.RFC3339)
	}
	content, err := r.Templates.Render(p.Type, templates.Data{
		Frontmatter: fmYAML,
		Body:        body,
		Title:       p.Title,
		Slug:        target.Slug,
		Date:        date,
		Type:        p.Type,
	})
	if err != nil {
		return result{}, err
	}

	res := result{stats: r.Stats.Count(body)}
	res.path, err = r.Writer.Write(target, []byte(content))
	if err != nil {
		return result{}, err
	}
	if res.path == "" {
		return res, nil
	}

	imgs := r.imagesFor(e, p)
	if len(imgs) > 0 {
		n, err := r.Fetcher.Save(ctx, imgs, r.Writer.ImageDir(target))
		if err != nil {
			log.Printf("post %q: saving images: %v", p.Title, err)
		}
		res.images = n
	}
	return res, nil
}

func (r *Runner) frontmatter(e *wxr.Export, p *wxr.Post, date time.Time) output.Frontmatter {
	fm := output.Frontmatter{
		Title:      p.Title,
		Author:     wxr.Authors(p),
		Categories: p.Terms("category"),
		Tags:       p.Terms("post_tag"),
		Draft:      p.Draft(),
	}
	if !date.IsZero() {
		fm.Date = date.Format(time.RFC3339)
	}
	if cover := e.CoverImage(p); cover != "" {
		if r.Options.SaveAttachedImages {
			cover = "images/" + images.FileName(cover)
		}
		fm.CoverImage = cover
	}
	return fm
}

// imagesFor lists the attached and scraped images to download for p,
// without duplicates. Scraped images are exactly the references the
// translator rewrites to images/, saved under the name it rewrote them to.
func (r *Runner) imagesFor(e *wxr.Export, p *wxr.Post) []images.Image {
	seen := make(map[images.Image]bool)
	var out []images.Image
	add := func(img images.Image) {
		if img.URL != "" && !seen[img] {
			seen[img] = true
			out = append(out, img)
		}
	}
	if r.Options.SaveAttachedImages {
		for _, a := range e.Attachments(p.ID) {
			add(images.FromURL(a.AttachmentURL))
		}
		if cover := e.CoverImage(p); cover != "" {
			add(images.FromURL(cover))
		}
	}
	if r.Options.SaveScrapedImages {
		for _, li := range translator.LocalImages(p.Content) {
			add(images.Image{URL: resolve(p.Link, li.URL), Name: li.Name})
		}
	}
	return out
}

// resolve makes ref absolute against the post's permalink, so relative
// upload paths can still be fetched.
func resolve(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil || !b.IsAbs() {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(u).String()
}

// PostSlug returns the post's slug, derived from its title when WordPress
// left it empty (drafts), and its ID as a last resort.
func PostSlug(p *wxr.Post) string {
	if p.Slug != "" {
		return p.Slug
	}
	if s := slug.Make(p.Title); s != "" {
		return s
	}
	return p.ID
}
