package doctext

import "context"

// SitemapService discovers additional seed URLs for an origin.
type SitemapService interface {
	// DiscoverSeeds returns in-origin page URLs listed in the origin's
	// sitemap. A missing sitemap is not an error.
	DiscoverSeeds(ctx context.Context, origin Origin) ([]string, error)
}
