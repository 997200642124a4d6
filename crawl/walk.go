package crawl

import (
	"context"
	"fmt"

	"github.com/fwojciec/doctext"
	"golang.org/x/sync/errgroup"
)

// walk drains an explicit LIFO work stack seeded with the run's seeds at
// depth 0. The coordinator (this goroutine) owns the stack, admits items
// through a fresh Frontier and hands them to a bounded pool of workers.
// Discovered links are pushed in reverse so the first link on a page is
// the next item popped.
//
// A new item is only popped while a worker is free. With one worker this
// means a page's links are pushed before anything else is admitted, which
// yields depth-first order.
func (c *Crawler) walk(ctx context.Context, run *doctext.Run, progress ProgressFunc) error {
	frontier := NewFrontier(c.Origin, c.MaxDepth)

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	stack := make([]workItem, 0, len(run.Seeds))
	for i := len(run.Seeds) - 1; i >= 0; i-- {
		stack = append(stack, workItem{url: run.Seeds[i], depth: 0})
	}

	workCh := make(chan workItem)
	resultCh := make(chan crawlResult)

	var g errgroup.Group
	for i := 0; i < concurrency; i++ {
		g.Go(func() error {
			for item := range workCh {
				resultCh <- c.processURL(ctx, item)
			}
			return nil
		})
	}

	// Close result channel when all workers are done
	go func() {
		_ = g.Wait()
		close(resultCh)
	}()

	admitted := 0
	pending := 0
	var next *workItem

	handle := func(res crawlResult, follow bool) {
		c.handleResult(ctx, run, res, progress)
		if !follow || res.item.depth >= c.MaxDepth {
			return
		}
		links := res.page.Links.URLs
		for i := len(links) - 1; i >= 0; i-- {
			if frontier.Seen(links[i]) {
				continue
			}
			stack = append(stack, workItem{url: links[i], depth: res.item.depth + 1})
		}
	}

coordinatorLoop:
	for {
		if next == nil && pending < concurrency && ctx.Err() == nil {
			next = c.popAdmitted(&stack, frontier, &admitted)
		}

		// Check termination conditions
		if next == nil && pending == 0 {
			break coordinatorLoop
		}
		if ctx.Err() != nil {
			break coordinatorLoop
		}

		if next != nil {
			select {
			case <-ctx.Done():
				break coordinatorLoop
			case workCh <- *next:
				pending++
				next = nil
			case res := <-resultCh:
				pending--
				handle(res, true)
			}
		} else {
			select {
			case <-ctx.Done():
				break coordinatorLoop
			case res := <-resultCh:
				pending--
				handle(res, true)
			}
		}
	}

	// Stop workers and record pages that were in flight.
	close(workCh)
	for res := range resultCh {
		handle(res, false)
	}
	if next != nil {
		c.abandon(ctx, run, *next, progress)
	}

	return ctx.Err()
}

// popAdmitted pops items until the frontier admits one. It returns nil when
// the stack is exhausted or the page cap has been reached.
func (c *Crawler) popAdmitted(stack *[]workItem, frontier *Frontier, admitted *int) *workItem {
	for len(*stack) > 0 {
		if c.MaxPages > 0 && *admitted >= c.MaxPages {
			return nil
		}

		s := *stack
		item := s[len(s)-1]
		*stack = s[:len(s)-1]

		if frontier.Admit(item.url, item.depth) {
			*admitted++
			return &item
		}
	}
	return nil
}

// handleResult folds one page outcome into the run, the ledger and progress.
// It runs on the coordinator goroutine only.
func (c *Crawler) handleResult(ctx context.Context, run *doctext.Run, res crawlResult, progress ProgressFunc) {
	run.Ignored += len(res.page.Links.Ignored)

	rec := &doctext.PageRecord{
		RunID:  run.ID,
		URL:    res.item.url,
		Depth:  res.item.depth,
		Status: res.status,
	}

	event := ProgressEvent{
		URL:   res.item.url,
		Depth: res.item.depth,
	}

	switch res.status {
	case doctext.PageSaved:
		run.Fetched++
		run.Artifacts = append(run.Artifacts, res.artifact)
		rec.Path = res.artifact.Path
		rec.Hash = res.artifact.Hash
		rec.Bytes = res.artifact.Bytes
		event.Type = ProgressCompleted
		event.Path = res.artifact.Path
		event.Error = res.extractErr
	case doctext.PageSkipped:
		run.Fetched++
		rec.Error = res.err.Error()
		event.Type = ProgressSkipped
		event.Error = res.err
	default:
		run.Failed++
		rec.Error = res.err.Error()
		event.Type = ProgressFailed
		event.Error = res.err
	}

	c.recordPage(ctx, run, rec)

	if progress != nil {
		event.Completed = run.Fetched + run.Failed
		progress(event)
	}
}

// abandon records an admitted item that was never dispatched because the
// run was canceled. It counts as neither fetched nor failed.
func (c *Crawler) abandon(ctx context.Context, run *doctext.Run, item workItem, progress ProgressFunc) {
	err := fmt.Errorf("not fetched: %w", ctx.Err())

	c.recordPage(ctx, run, &doctext.PageRecord{
		RunID:  run.ID,
		URL:    item.url,
		Depth:  item.depth,
		Status: doctext.PageSkipped,
		Error:  err.Error(),
	})

	if progress != nil {
		progress(ProgressEvent{
			Type:      ProgressSkipped,
			URL:       item.url,
			Depth:     item.depth,
			Completed: run.Fetched + run.Failed,
			Error:     err,
		})
	}
}

// recordPage stores rec in the ledger, if any. A failed write does not stop
// the run; it is counted in run.Unrecorded.
func (c *Crawler) recordPage(ctx context.Context, run *doctext.Run, rec *doctext.PageRecord) {
	if c.Ledger == nil {
		return
	}
	if err := c.Ledger.RecordPage(context.WithoutCancel(ctx), rec); err != nil {
		run.Unrecorded++
	}
}
