package logger

import (
	"context"
	"log/slog"
)

type ctxKey int

const (
	loggerKey ctxKey = iota
	traceKey
)

// With returns a context carrying a logger enriched with the given fields.
func With(ctx context.Context, fields ...any) context.Context {
	l := From(ctx).With(fields...)
	return context.WithValue(ctx, loggerKey, l)
}

// From returns the logger stored in context, or the default if missing.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return L()
}

// WithTrace stores the request trace id and tags the context logger with it,
// so every line logged downstream correlates to the request.
func WithTrace(ctx context.Context, traceID string) context.Context {
	return context.WithValue(With(ctx, "trace_id", traceID), traceKey, traceID)
}

// TraceID returns the trace id stored by WithTrace, or "" when absent.
func TraceID(ctx context.Context) string {
	if id, ok := ctx.Value(traceKey).(string); ok {
		return id
	}
	return ""
}
