// Package crawl provides documentation crawling orchestration.
// It coordinates admission, fetching, extraction and storage of the
// pages reachable from a set of seeds on one origin.
package crawl

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/doctext"
	"github.com/google/uuid"
)

// DefaultMaxDepth is the depth bound used when none is configured.
const DefaultMaxDepth = 3

// Crawler orchestrates the crawling of a documentation site.
type Crawler struct {
	Origin    doctext.Origin
	Fetcher   doctext.Fetcher
	Content   doctext.ContentExtractor
	Links     doctext.LinkExtractor
	Writer    doctext.ArtifactWriter
	Ledger    doctext.RunLedger // optional
	MaxDepth  int
	MaxPages  int // 0 means unlimited
	// Concurrency is the number of fetch workers. With one worker pages are
	// processed depth-first: each link's subtree completes before its next
	// sibling starts.
	Concurrency int

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type      ProgressType
	URL       string
	Depth     int
	Path      string
	Completed int
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressSkipped
	ProgressFinished
)

// String returns a lowercase name for the event type.
func (t ProgressType) String() string {
	switch t {
	case ProgressStarted:
		return "started"
	case ProgressCompleted:
		return "completed"
	case ProgressFailed:
		return "failed"
	case ProgressSkipped:
		return "skipped"
	case ProgressFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// workItem is a URL waiting for admission at a given depth.
type workItem struct {
	url   string
	depth int
}

// crawlResult holds the outcome of processing a single admitted URL.
type crawlResult struct {
	item       workItem
	status     doctext.PageStatus
	artifact   *doctext.Artifact
	page       doctext.PageResult
	// extractErr is set when extraction fell back to empty output.
	extractErr error
	err        error
}

// Crawl visits every page reachable from seeds within the origin and depth
// bound, writing one artifact per page and an index at the end.
//
// Only a failure to prepare the output root, to start the ledger run, or to
// write the final index aborts the crawl with an error. Per-page failures
// are reported through progress and counted in the returned Run. If ctx is
// canceled, pages already written are kept, the index is written for them
// and ctx.Err() is returned alongside the partial Run.
func (c *Crawler) Crawl(ctx context.Context, seeds []string, progress ProgressFunc) (*doctext.Run, error) {
	if c.MaxDepth < 0 {
		return nil, doctext.Errorf(doctext.EINVALID, "max depth must not be negative")
	}

	resolved, err := c.resolveSeeds(seeds)
	if err != nil {
		return nil, err
	}

	if err := c.Writer.Prepare(ctx); err != nil {
		return nil, fmt.Errorf("prepare output: %w", err)
	}

	run := &doctext.Run{
		ID:        uuid.New().String(),
		Origin:    c.Origin.String(),
		Seeds:     resolved,
		MaxDepth:  c.MaxDepth,
		StartedAt: c.now(),
	}

	if c.Ledger != nil {
		if err := c.Ledger.CreateRun(ctx, run); err != nil {
			return nil, fmt.Errorf("create run: %w", err)
		}
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, URL: run.Origin})
	}

	walkErr := c.walk(ctx, run, progress)

	run.FinishedAt = c.now()

	// The index describes whatever was written, including after cancellation.
	finishCtx := ctx
	if ctx.Err() != nil {
		finishCtx = context.WithoutCancel(ctx)
	}
	if err := c.Writer.Finish(finishCtx, run); err != nil {
		return run, fmt.Errorf("write index: %w", err)
	}
	if c.Ledger != nil {
		if err := c.Ledger.FinishRun(finishCtx, run); err != nil {
			return run, fmt.Errorf("finish run: %w", err)
		}
	}

	if progress != nil {
		progress(ProgressEvent{
			Type:      ProgressFinished,
			Completed: run.Fetched + run.Failed,
		})
	}

	return run, walkErr
}

// resolveSeeds resolves seeds against the origin root. An empty list
// defaults to the root page.
func (c *Crawler) resolveSeeds(seeds []string) ([]string, error) {
	if len(seeds) == 0 {
		seeds = []string{"/"}
	}

	resolved := make([]string, 0, len(seeds))
	for _, seed := range seeds {
		u, err := c.Origin.Resolve(seed)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, u)
	}
	return resolved, nil
}

// processURL fetches, extracts and stores one admitted page.
// It never returns an error for the run; failures are carried in the result.
func (c *Crawler) processURL(ctx context.Context, item workItem) crawlResult {
	result := crawlResult{
		item: item,
		page: doctext.PageResult{URL: item.url, Depth: item.depth},
	}

	html, err := c.Fetcher.Fetch(ctx, item.url)
	if err != nil {
		result.status = doctext.PageFailed
		result.err = err
		return result
	}

	// Markup that cannot be parsed is treated as an empty page.
	text, err := c.Content.Extract(html)
	if err != nil {
		result.extractErr = err
		text = &doctext.Text{}
	}
	result.page.Text = text
	links, err := c.Links.ExtractLinks(html, item.url)
	if err == nil {
		result.page.Links = links
	} else if result.extractErr == nil {
		result.extractErr = err
	}

	content := text.String()
	path, err := c.Writer.Save(ctx, item.url, content)
	if err != nil {
		result.status = doctext.PageSkipped
		result.err = err
		return result
	}

	result.status = doctext.PageSaved
	result.artifact = &doctext.Artifact{
		URL:   item.url,
		Path:  path,
		Depth: item.depth,
		Bytes: len(content),
		Hash:  ComputeHash(content),
	}
	return result
}

func (c *Crawler) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
