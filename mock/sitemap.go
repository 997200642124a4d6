package mock

import (
	"context"

	"github.com/fwojciec/doctext"
)

var _ doctext.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of doctext.SitemapService.
type SitemapService struct {
	DiscoverSeedsFn func(ctx context.Context, origin doctext.Origin) ([]string, error)
}

func (s *SitemapService) DiscoverSeeds(ctx context.Context, origin doctext.Origin) ([]string, error) {
	return s.DiscoverSeedsFn(ctx, origin)
}
