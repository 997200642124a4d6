package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/doctext"
)

// BoilerplateSelector matches subtrees that never carry page content.
const BoilerplateSelector = "script, style, noscript, template, nav, header, footer, aside, " +
	"[role=navigation], [role=banner], [role=contentinfo], " +
	".sidebar, #sidebar, .navigation, .nav, .toc"

// RegionSelectors are tried in order to find the main content region.
var RegionSelectors = []string{
	"main",
	"article",
	"[role=main]",
	".content",
	"#content",
	".main-content",
}

const (
	headingSelector = "h1, h2, h3, h4, h5, h6"
	blockSelector   = "h1, h2, h3, h4, h5, h6, p, li, pre, code"

	// code inside these elements is rendered as part of its parent.
	codeContainerSelector = "pre, p, li, h1, h2, h3, h4, h5, h6"
)

var _ doctext.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor flattens a page into headings, paragraphs, list items
// and code blocks.
type ContentExtractor struct {
	parser Parser
}

// NewContentExtractor creates a ContentExtractor using parser. A nil parser
// selects the lenient parser.
func NewContentExtractor(parser Parser) *ContentExtractor {
	if parser == nil {
		parser = NewLenientParser()
	}
	return &ContentExtractor{parser: parser}
}

// Extract implements doctext.ContentExtractor.
func (e *ContentExtractor) Extract(html string) (*doctext.Text, error) {
	doc, err := e.parser.Parse(html)
	if err != nil {
		return nil, err
	}

	region := ContentRegion(doc)
	text := &doctext.Text{Title: Title(doc, region)}

	seen := make(map[string]bool)
	if text.Title != "" {
		seen[text.Title] = true
	}

	region.Find(blockSelector).Each(func(_ int, sel *goquery.Selection) {
		tag := goquery.NodeName(sel)
		if tag == "code" && sel.ParentsFiltered(codeContainerSelector).Length() > 0 {
			return
		}

		content := collapse(sel.Text())
		if content == "" {
			return
		}

		switch tag {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			if seen[content] {
				return
			}
			seen[content] = true
			text.Blocks = append(text.Blocks, doctext.Block{
				Kind:  doctext.BlockHeading,
				Level: int(tag[1] - '0'),
				Text:  content,
			})
		case "li":
			text.Blocks = append(text.Blocks, doctext.Block{Kind: doctext.BlockListItem, Text: content})
		case "pre", "code":
			text.Blocks = append(text.Blocks, doctext.Block{Kind: doctext.BlockCode, Text: content})
		default:
			text.Blocks = append(text.Blocks, doctext.Block{Kind: doctext.BlockParagraph, Text: content})
		}
	})

	return text, nil
}

// ContentRegion strips boilerplate from doc and returns the main content
// region: the first RegionSelectors match, else body, else the document.
// The document is modified in place.
func ContentRegion(doc *goquery.Document) *goquery.Selection {
	doc.Find(BoilerplateSelector).Remove()

	for _, selector := range RegionSelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			return sel
		}
	}
	if body := doc.Find("body").First(); body.Length() > 0 {
		return body
	}
	return doc.Selection
}

// Title returns the first heading in region, falling back to the document
// title.
func Title(doc *goquery.Document, region *goquery.Selection) string {
	var result string
	region.Find(headingSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		result = collapse(sel.Text())
		return result == ""
	})
	if result != "" {
		return result
	}
	return collapse(doc.Find("title").First().Text())
}

// collapse trims s and folds runs of whitespace into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
