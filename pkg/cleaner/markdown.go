package cleaner

import (
	"fmt"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
)

// MarkdownCleaner converts HTML to Markdown using html-to-markdown.
type MarkdownCleaner struct {
	conv *converter.Converter
}

// tagTypesPlugin overrides how individual tags are treated during
// conversion. Its registrations run at PriorityEarly so they win over the
// base plugin's defaults.
type tagTypesPlugin struct {
	remove []string
	block  []string
}

func (p *tagTypesPlugin) Name() string {
	return "tag-types"
}

func (p *tagTypesPlugin) Init(conv *converter.Converter) error {
	for _, tag := range p.remove {
		conv.Register.TagType(tag, converter.TagTypeRemove, converter.PriorityEarly)
	}
	for _, tag := range p.block {
		conv.Register.TagType(tag, converter.TagTypeBlock, converter.PriorityEarly)
	}
	return nil
}

// converterRemoveList returns the tags dropped at converter level. The
// script/style entries repeat the DOM pass so they also apply when that pass
// was skipped or failed to parse.
func converterRemoveList(opts Options) []string {
	var tags []string
	if opts.StripNoise {
		tags = append(tags, "script", "style")
	}
	if !opts.IncludeImages {
		tags = append(tags, "img", "picture")
	}
	return tags
}

// converterKeepList returns tags the base plugin would drop but whose text
// must survive. With stripping off, noscript fallbacks are page content.
func converterKeepList(opts Options) []string {
	if opts.StripNoise {
		return nil
	}
	return []string{"noscript"}
}

// NewMarkdown creates a Markdown converter configured by opts. List bullets
// are always "-". The base plugin drops script and style bodies regardless
// of opts.
func NewMarkdown(opts Options) *MarkdownCleaner {
	style := commonmark.HeadingStyleATX
	if opts.HeadingStyle == HeadingUnderlined {
		style = commonmark.HeadingStyleSetext
	}

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithHeadingStyle(style),
				commonmark.WithBulletListMarker("-"),
			),
			&tagTypesPlugin{
				remove: converterRemoveList(opts),
				block:  converterKeepList(opts),
			},
		),
	)

	return &MarkdownCleaner{conv: conv}
}

// Clean converts HTML to Markdown.
func (c *MarkdownCleaner) Clean(html string) (string, error) {
	markdown, err := c.conv.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("convert to markdown: %w", err)
	}
	return markdown, nil
}

// Name returns the cleaner type.
func (c *MarkdownCleaner) Name() string {
	return "markdown"
}
