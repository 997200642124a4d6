package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/doctext"
)

// Ensure LoggingWriter implements doctext.ArtifactWriter.
var _ doctext.ArtifactWriter = (*LoggingWriter)(nil)

// LoggingWriter wraps an ArtifactWriter with logging.
type LoggingWriter struct {
	next   doctext.ArtifactWriter
	logger *slog.Logger
}

// NewLoggingWriter creates a new LoggingWriter.
func NewLoggingWriter(next doctext.ArtifactWriter, logger *slog.Logger) *LoggingWriter {
	return &LoggingWriter{next: next, logger: logger}
}

// Prepare delegates to the wrapped writer.
func (w *LoggingWriter) Prepare(ctx context.Context) (err error) {
	defer func() {
		logCall(ctx, w.logger, "prepare output", err)
	}()
	return w.next.Prepare(ctx)
}

// Save delegates to the wrapped writer and logs url, path and bytes.
func (w *LoggingWriter) Save(ctx context.Context, url string, text string) (path string, err error) {
	defer func(begin time.Time) {
		logCall(ctx, w.logger, "save artifact", err,
			"url", url,
			"path", path,
			"bytes", len(text),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return w.next.Save(ctx, url, text)
}

// Finish delegates to the wrapped writer and logs the artifact count.
func (w *LoggingWriter) Finish(ctx context.Context, run *doctext.Run) (err error) {
	defer func(begin time.Time) {
		logCall(ctx, w.logger, "write index", err,
			"pages", run.PageCount(),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return w.next.Finish(ctx, run)
}
