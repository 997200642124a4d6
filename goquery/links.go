package goquery

import (
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/doctext"
)

var _ doctext.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor collects the in-origin targets of every anchor on a page.
type LinkExtractor struct {
	origin doctext.Origin
	parser Parser
}

// NewLinkExtractor creates a LinkExtractor bounded to origin. A nil parser
// selects the lenient parser.
func NewLinkExtractor(origin doctext.Origin, parser Parser) *LinkExtractor {
	if parser == nil {
		parser = NewLenientParser()
	}
	return &LinkExtractor{origin: origin, parser: parser}
}

// ExtractLinks implements doctext.LinkExtractor.
func (e *LinkExtractor) ExtractLinks(html string, pageURL string) (doctext.Links, error) {
	base, err := url.Parse(pageURL)
	if err != nil || !base.IsAbs() {
		return doctext.Links{}, doctext.Errorf(doctext.EINVALID, "invalid page URL %q", pageURL)
	}

	doc, err := e.parser.Parse(html)
	if err != nil {
		return doctext.Links{}, err
	}

	urls := make(map[string]struct{})
	ignored := make(map[string]struct{})

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		if href == "" {
			return
		}
		if isNonHTTPLink(href) || strings.Contains(href, "#") {
			ignored[href] = struct{}{}
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			ignored[href] = struct{}{}
			return
		}
		resolved := base.ResolveReference(ref)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			ignored[href] = struct{}{}
			return
		}
		if !e.origin.Contains(resolved) {
			ignored[resolved.String()] = struct{}{}
			return
		}

		normalized, err := doctext.NormalizeURL(resolved.String())
		if err != nil {
			ignored[href] = struct{}{}
			return
		}
		urls[normalized] = struct{}{}
	})

	return doctext.Links{
		URLs:    sortedKeys(urls),
		Ignored: sortedKeys(ignored),
	}, nil
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

func sortedKeys(m map[string]struct{}) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
