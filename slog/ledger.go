package slog

import (
	"context"
	"log/slog"

	"github.com/fwojciec/doctext"
)

// Ensure LoggingLedger implements doctext.RunLedger.
var _ doctext.RunLedger = (*LoggingLedger)(nil)

// LoggingLedger wraps a RunLedger with logging. Read methods are not
// logged.
type LoggingLedger struct {
	next   doctext.RunLedger
	logger *slog.Logger
}

// NewLoggingLedger creates a new LoggingLedger.
func NewLoggingLedger(next doctext.RunLedger, logger *slog.Logger) *LoggingLedger {
	return &LoggingLedger{next: next, logger: logger}
}

// CreateRun delegates to the wrapped ledger.
func (l *LoggingLedger) CreateRun(ctx context.Context, run *doctext.Run) (err error) {
	defer func() {
		logCall(ctx, l.logger, "create run", err, "run", run.ID, "origin", run.Origin)
	}()
	return l.next.CreateRun(ctx, run)
}

// RecordPage delegates to the wrapped ledger.
func (l *LoggingLedger) RecordPage(ctx context.Context, rec *doctext.PageRecord) (err error) {
	defer func() {
		logCall(ctx, l.logger, "record page", err, "run", rec.RunID, "url", rec.URL, "status", rec.Status)
	}()
	return l.next.RecordPage(ctx, rec)
}

// FinishRun delegates to the wrapped ledger.
func (l *LoggingLedger) FinishRun(ctx context.Context, run *doctext.Run) (err error) {
	defer func() {
		logCall(ctx, l.logger, "finish run", err,
			"run", run.ID,
			"fetched", run.Fetched,
			"failed", run.Failed,
		)
	}()
	return l.next.FinishRun(ctx, run)
}

// FindRunByID delegates to the wrapped ledger.
func (l *LoggingLedger) FindRunByID(ctx context.Context, id string) (*doctext.Run, error) {
	return l.next.FindRunByID(ctx, id)
}

// FindPages delegates to the wrapped ledger.
func (l *LoggingLedger) FindPages(ctx context.Context, filter doctext.PageFilter) ([]*doctext.PageRecord, error) {
	return l.next.FindPages(ctx, filter)
}
