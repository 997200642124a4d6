package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/doctext"
)

// Ensure LoggingSitemapService implements doctext.SitemapService.
var _ doctext.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with logging.
type LoggingSitemapService struct {
	next   doctext.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next doctext.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverSeeds delegates to the wrapped service and logs the operation.
func (s *LoggingSitemapService) DiscoverSeeds(ctx context.Context, origin doctext.Origin) (seeds []string, err error) {
	defer func(begin time.Time) {
		logCall(ctx, s.logger, "sitemap discovery", err,
			"origin", origin.String(),
			"count", len(seeds),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return s.next.DiscoverSeeds(ctx, origin)
}
