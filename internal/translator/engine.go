package translator

import (
	"bytes"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"golang.org/x/net/html"
)

// rulePlugin installs a rule set ahead of the built-in renderers. Each rule
// gets its own priority slot so the first matching rule wins.
type rulePlugin struct {
	rules []Rule
}

func (p *rulePlugin) Name() string {
	return "wordpress-rules"
}

func (p *rulePlugin) Init(conv *converter.Converter) error {
	for i, rule := range p.rules {
		priority := converter.PriorityEarly + i
		// script and iframe are removed by the base plugin unless another
		// tag type outranks it.
		for _, tag := range rule.Tags {
			if rule.Inline {
				conv.Register.TagType(tag, converter.TagTypeInline, priority)
			} else {
				conv.Register.TagType(tag, converter.TagTypeBlock, priority)
			}
		}
		conv.Register.Renderer(renderRule(rule), priority)
	}

	// Comments other than the protected more separator are dropped.
	conv.Register.Renderer(func(_ converter.Context, _ converter.Writer, n *html.Node) converter.RenderStatus {
		if n.Type == html.CommentNode {
			return converter.RenderSuccess
		}
		return converter.RenderTryNext
	}, converter.PriorityEarly+len(p.rules))
	return nil
}

func renderRule(rule Rule) converter.HandleRenderFunc {
	return func(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
		if n.Type != html.ElementNode || !rule.handles(n.Data) {
			return converter.RenderTryNext
		}
		view := NewNodeView(n)
		if rule.Filter != nil && !rule.Filter(view) {
			return converter.RenderTryNext
		}

		var children bytes.Buffer
		ctx.RenderChildNodes(ctx, &children, n)

		w.WriteString(rule.Replacement(children.String(), view))
		return converter.RenderSuccess
	}
}

func newEngine(rules []Rule) *converter.Converter {
	return converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithHeadingStyle(commonmark.HeadingStyleATX),
				commonmark.WithBulletListMarker("-"),
				commonmark.WithCodeBlockFence("```"),
				commonmark.WithEmDelimiter("_"),
			),
			table.NewTablePlugin(),
			&rulePlugin{rules: rules},
		),
	)
}
