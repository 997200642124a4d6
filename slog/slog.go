// Package slog provides log/slog decorators for doctext services.
// Successful calls log at debug level; failures log at warn level.
package slog

import (
	"context"
	"log/slog"
)

// levelFor returns the level used to log a call that returned err.
func levelFor(err error) slog.Level {
	if err != nil {
		return slog.LevelWarn
	}
	return slog.LevelDebug
}

// logCall logs one decorated call.
func logCall(ctx context.Context, logger *slog.Logger, msg string, err error, attrs ...any) {
	if err != nil {
		attrs = append(attrs, "err", err)
	}
	logger.Log(ctx, levelFor(err), msg, attrs...)
}
