package mock

import (
	"context"

	"github.com/fwojciec/doctext"
)

var _ doctext.RunLedger = (*RunLedger)(nil)

// RunLedger is a mock implementation of doctext.RunLedger.
type RunLedger struct {
	CreateRunFn   func(ctx context.Context, run *doctext.Run) error
	RecordPageFn  func(ctx context.Context, rec *doctext.PageRecord) error
	FinishRunFn   func(ctx context.Context, run *doctext.Run) error
	FindRunByIDFn func(ctx context.Context, id string) (*doctext.Run, error)
	FindPagesFn   func(ctx context.Context, filter doctext.PageFilter) ([]*doctext.PageRecord, error)
}

func (l *RunLedger) CreateRun(ctx context.Context, run *doctext.Run) error {
	return l.CreateRunFn(ctx, run)
}

func (l *RunLedger) RecordPage(ctx context.Context, rec *doctext.PageRecord) error {
	return l.RecordPageFn(ctx, rec)
}

func (l *RunLedger) FinishRun(ctx context.Context, run *doctext.Run) error {
	return l.FinishRunFn(ctx, run)
}

func (l *RunLedger) FindRunByID(ctx context.Context, id string) (*doctext.Run, error) {
	return l.FindRunByIDFn(ctx, id)
}

func (l *RunLedger) FindPages(ctx context.Context, filter doctext.PageFilter) ([]*doctext.PageRecord, error) {
	return l.FindPagesFn(ctx, filter)
}
