package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/fwojciec/doctext"
	"github.com/fwojciec/doctext/crawl"
	"github.com/fwojciec/doctext/fs"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Origin   doctext.Origin
	Crawler  *crawl.Crawler
	Sitemaps doctext.SitemapService // optional
}

// CrawlCmd runs one crawl and prints a summary.
type CrawlCmd struct {
	Seeds  []string
	Output string
}

// Run executes the crawl command. Only fatal crawl errors are returned;
// per-page failures are reported and counted.
func (c *CrawlCmd) Run(ctx context.Context, deps *Dependencies) error {
	seeds := c.seeds(ctx, deps)

	progress := func(e crawl.ProgressEvent) {
		switch e.Type {
		case crawl.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "[%d] %s -> %s\n", e.Completed, crawl.TruncateURL(e.URL, 60), e.Path)
			if e.Error != nil {
				deps.Logger.Warn("empty extraction", "url", e.URL, "err", e.Error)
			}
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "skip %s: %s\n", e.URL, doctext.ErrorMessage(e.Error))
		case crawl.ProgressSkipped:
			fmt.Fprintf(deps.Stderr, "not saved %s: %s\n", e.URL, doctext.ErrorMessage(e.Error))
		}
	}

	run, err := deps.Crawler.Crawl(ctx, seeds, progress)
	if run == nil {
		return err
	}

	total := 0
	for _, a := range run.Artifacts {
		total += a.Bytes
	}

	fmt.Fprintf(deps.Stdout, "Saved %d pages (%s) to %s\n", run.PageCount(), crawl.FormatBytes(total), c.Output)
	fmt.Fprintf(deps.Stdout, "Failed: %d, ignored links: %d\n", run.Failed, run.Ignored)
	fmt.Fprintf(deps.Stdout, "Index: %s\n", filepath.Join(c.Output, fs.IndexFile))
	if run.Unrecorded > 0 {
		fmt.Fprintf(deps.Stderr, "Ledger: %d pages not recorded\n", run.Unrecorded)
	}

	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(deps.Stderr, "Interrupted; index covers pages saved so far")
	}
	return err
}

// seeds returns the configured seeds plus any sitemap seeds. Sitemap
// failures are logged and ignored.
func (c *CrawlCmd) seeds(ctx context.Context, deps *Dependencies) []string {
	seeds := c.Seeds
	if deps.Sitemaps == nil {
		return seeds
	}

	if len(seeds) == 0 {
		seeds = []string{"/"}
	}

	discovered, err := deps.Sitemaps.DiscoverSeeds(ctx, deps.Origin)
	if err != nil {
		deps.Logger.Warn("sitemap unavailable", "origin", deps.Origin.String(), "err", err)
		return seeds
	}
	return append(append([]string(nil), seeds...), discovered...)
}
