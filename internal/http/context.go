package http

import (
	"context"
	"log/slog"

	"github.com/example/course-scheduler/internal/logging"
)

type contextKey string

const snapshotIDContextKey contextKey = "snapshot_id"

// ContextWithLogger returns a derived context carrying the request logger.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext extracts the request logger if one was attached.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}

// ContextWithSnapshotID injects the snapshot identifier resolved from the request path.
func ContextWithSnapshotID(ctx context.Context, snapshotID string) context.Context {
	return context.WithValue(ctx, snapshotIDContextKey, snapshotID)
}

// SnapshotIDFromContext extracts a snapshot identifier previously associated with the context.
func SnapshotIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(snapshotIDContextKey).(string)
	return id, ok
}

// handlerLogger tags the request logger, or fallback when the request has
// none, with the handler and operation names.
func handlerLogger(ctx context.Context, fallback *slog.Logger, handlerName, operation string, attrs ...any) *slog.Logger {
	logger := LoggerFromContext(ctx)
	if logger == nil {
		logger = fallback
	}
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With(append([]any{"handler", handlerName, "operation", operation}, attrs...)...)
}
