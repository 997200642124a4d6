// Package htmltomarkdown renders the main content region of a page as
// Markdown using JohannesKaufmann/html-to-markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/doctext"
	doctextgoquery "github.com/fwojciec/doctext/goquery"
)

// Ensure ContentExtractor implements doctext.ContentExtractor at compile time.
var _ doctext.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor selects the same content region as the plain-text
// extractor and converts it to Markdown. The result is a single paragraph
// block holding the Markdown.
type ContentExtractor struct {
	parser doctextgoquery.Parser
	conv   *converter.Converter
}

// NewContentExtractor creates a ContentExtractor using parser. A nil parser
// selects the lenient parser.
func NewContentExtractor(parser doctextgoquery.Parser) *ContentExtractor {
	if parser == nil {
		parser = doctextgoquery.NewLenientParser()
	}
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &ContentExtractor{parser: parser, conv: conv}
}

// Extract implements doctext.ContentExtractor.
// The document title is used only when the region has no heading of its
// own; otherwise the Markdown already carries it.
func (e *ContentExtractor) Extract(html string) (*doctext.Text, error) {
	doc, err := e.parser.Parse(html)
	if err != nil {
		return nil, err
	}

	region := doctextgoquery.ContentRegion(doc)

	text := &doctext.Text{}
	if region.Find("h1, h2, h3, h4, h5, h6").Length() == 0 {
		text.Title = doctextgoquery.Title(doc, region)
	}

	inner, err := region.Html()
	if err != nil {
		return nil, doctext.Errorf(doctext.EPARSE, "rendering content region: %v", err)
	}
	if strings.TrimSpace(inner) == "" {
		return text, nil
	}

	md, err := e.conv.ConvertString(inner)
	if err != nil {
		return nil, doctext.Errorf(doctext.EPARSE, "converting to markdown: %v", err)
	}

	if md = strings.TrimSpace(md); md != "" {
		text.Blocks = append(text.Blocks, doctext.Block{Kind: doctext.BlockParagraph, Text: md})
	}
	return text, nil
}
