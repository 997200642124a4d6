package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/doctext"
)

// Ensure SitemapService implements doctext.SitemapService.
var _ doctext.SitemapService = (*SitemapService)(nil)

// SitemapService discovers seed URLs from an origin's sitemap.xml.
type SitemapService struct {
	client    *http.Client
	userAgent string
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client, userAgent: DefaultUserAgent}
}

// DiscoverSeeds returns the in-origin page URLs listed in
// <origin>/sitemap.xml, following sitemap indexes. A missing sitemap
// yields an empty list. URLs are normalized and returned in document
// order without duplicates.
func (s *SitemapService) DiscoverSeeds(ctx context.Context, origin doctext.Origin) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sitemapURL := origin.URL().ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()

	locs, err := s.processSitemap(ctx, origin, sitemapURL, make(map[string]bool))
	if err != nil {
		if doctext.ErrorCode(err) == doctext.ENOTFOUND {
			return []string{}, nil
		}
		return nil, err
	}

	seeds := []string{}
	seen := make(map[string]bool)
	for _, loc := range locs {
		u, err := url.Parse(loc)
		if err != nil || !origin.Contains(u) {
			continue
		}
		normalized, err := doctext.NormalizeURL(loc)
		if err != nil || seen[normalized] {
			continue
		}
		seen[normalized] = true
		seeds = append(seeds, normalized)
	}
	return seeds, nil
}

// processSitemap fetches and parses a sitemap, handling both urlset and
// sitemapindex documents. Nested sitemaps on other origins are skipped.
func (s *SitemapService) processSitemap(ctx context.Context, origin doctext.Origin, sitemapURL string, seen map[string]bool) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Avoid processing the same sitemap twice
	if seen[sitemapURL] {
		return nil, nil
	}
	seen[sitemapURL] = true

	body, err := s.fetchURL(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, doctext.Errorf(doctext.EPARSE, "parsing sitemap XML: %v", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, doctext.Errorf(doctext.EPARSE, "empty sitemap XML")
	}

	if root.Tag == "sitemapindex" {
		return s.processSitemapIndex(ctx, origin, root, seen)
	}
	return parseURLSet(root), nil
}

// processSitemapIndex processes a <sitemapindex> element recursively.
func (s *SitemapService) processSitemapIndex(ctx context.Context, origin doctext.Origin, root *etree.Element, seen map[string]bool) ([]string, error) {
	var allURLs []string

	for _, loc := range locations(root, "sitemap") {
		u, err := url.Parse(loc)
		if err != nil || !origin.Contains(u) {
			continue
		}

		urls, err := s.processSitemap(ctx, origin, loc, seen)
		if err != nil {
			if doctext.ErrorCode(err) == doctext.ENOTFOUND {
				continue
			}
			return nil, err
		}
		allURLs = append(allURLs, urls...)
	}

	return allURLs, nil
}

// parseURLSet extracts URLs from a <urlset> element.
func parseURLSet(root *etree.Element) []string {
	return locations(root, "url")
}

// locations returns the trimmed <loc> text of each child element named tag.
func locations(root *etree.Element, tag string) []string {
	var locs []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			locs = append(locs, u)
		}
	}
	return locs
}

// fetchURL fetches a URL and returns the response body. A 404 returns an
// ENOTFOUND error.
func (s *SitemapService) fetchURL(ctx context.Context, targetURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, doctext.Errorf(doctext.ENETWORK, "fetching %s: %v", targetURL, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, doctext.Errorf(doctext.ENOTFOUND, "no sitemap at %s", targetURL)
	case resp.StatusCode != http.StatusOK:
		resp.Body.Close()
		return nil, doctext.Errorf(doctext.ENETWORK, "HTTP %d for %s", resp.StatusCode, targetURL)
	}

	return resp.Body, nil
}
