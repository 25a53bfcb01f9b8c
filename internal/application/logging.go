package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/example/course-scheduler/internal/logging"
	"github.com/example/course-scheduler/internal/scheduler"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// serviceLogger prefers the request scoped logger carried by ctx over base.
func serviceLogger(ctx context.Context, base *slog.Logger, serviceName, operation string, attrs ...any) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = defaultLogger(base)
	}
	return logger.With(append([]any{"service", serviceName, "operation", operation}, attrs...)...)
}

var errorKinds = []struct {
	target error
	kind   string
}{
	{ErrNotFound, "not_found"},
	{ErrAlreadyEnrolled, "already_enrolled"},
	{ErrDuplicateEvent, "duplicate_event"},
	{ErrScheduleConflict, "schedule_conflict"},
	{ErrCatalogUnavailable, "catalog_unavailable"},
	{scheduler.ErrInvalidArgument, "invalid_argument"},
}

// ErrorKind maps sentinel and validation errors to a stable logging label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.target) {
			return k.kind
		}
	}
	return "unexpected"
}
