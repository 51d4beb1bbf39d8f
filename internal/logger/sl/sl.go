// Package sl holds small helpers for structured logging with slog.
package sl

import (
	"context"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"
)

// Setup installs the process-wide JSON logger. Level is debug outside
// of prod so local runs show the full picture.
func Setup(env string) *slog.Logger {
	level := slog.LevelDebug
	if env == "prod" {
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// Err wraps an error as a standard attribute.
func Err(err error) slog.Attr {
	return slog.String("error", err.Error())
}

// Traced extracts the OpenTelemetry trace id from ctx so log lines can
// be joined with their trace.
func Traced(ctx context.Context) slog.Attr {
	spanContext := trace.SpanFromContext(ctx).SpanContext()
	if spanContext.HasTraceID() {
		return slog.String("trace_id", spanContext.TraceID().String())
	}

	return slog.Any("trace_id", nil)
}
