package mock

import "github.com/fwojciec/doctext"

var (
	_ doctext.ContentExtractor = (*ContentExtractor)(nil)
	_ doctext.LinkExtractor    = (*LinkExtractor)(nil)
)

// ContentExtractor is a mock implementation of doctext.ContentExtractor.
type ContentExtractor struct {
	ExtractFn func(html string) (*doctext.Text, error)
}

func (e *ContentExtractor) Extract(html string) (*doctext.Text, error) {
	return e.ExtractFn(html)
}

// LinkExtractor is a mock implementation of doctext.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, pageURL string) (doctext.Links, error)
}

func (e *LinkExtractor) ExtractLinks(html string, pageURL string) (doctext.Links, error) {
	return e.ExtractLinksFn(html, pageURL)
}
