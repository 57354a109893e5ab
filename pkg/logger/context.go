package logger

import (
	"context"
	"log/slog"
)

type contextKey struct{}

// ToContext stores a logger in the context.
func ToContext(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, log)
}

// FromContext returns the request-scoped logger, or slog.Default when none is set.
func FromContext(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return log
	}
	return slog.Default()
}

// With adds attributes to the context logger and returns both the logger and
// the derived context:
//
//	log, ctx := logger.With(ctx, "family_id", familyID)
func With(ctx context.Context, args ...any) (*slog.Logger, context.Context) {
	log := FromContext(ctx).With(args...)
	return log, ToContext(ctx, log)
}
