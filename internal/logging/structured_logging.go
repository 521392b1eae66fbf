// Package logging holds the slog helpers shared by the server, the quote
// pipeline and fretectl. Every logger is JSON and carries a component
// attribute naming the part of the service that wrote the record.
package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
)

type loggerKey struct{}

// NewStructuredLogger returns a JSON logger writing records at level and above.
func NewStructuredLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Component derives a logger tagged with the component name. A nil logger
// falls back to slog.Default.
func Component(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With(slog.String("component", name))
}

// LogError logs err under message. A nil err still writes the record,
// without the error attribute. A canceled context means the client went
// away, so it is logged as a warning.
func LogError(logger *slog.Logger, message string, err error, attrs ...slog.Attr) {
	if logger == nil {
		return
	}

	level := slog.LevelError
	args := make([]any, 0, len(attrs)+1)
	if err != nil {
		args = append(args, slog.String("error", err.Error()))
		if errors.Is(err, context.Canceled) {
			level = slog.LevelWarn
		}
	}
	for _, attr := range attrs {
		args = append(args, attr)
	}

	logger.Log(context.Background(), level, message, args...)
}

// LogOperation logs a completed operation at info level. A zero "duration"
// attribute is dropped.
func LogOperation(logger *slog.Logger, operation string, attrs ...slog.Attr) {
	if logger == nil {
		return
	}

	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		if attr.Key == "duration" && attr.Value.Kind() == slog.KindDuration && attr.Value.Duration() == 0 {
			continue
		}
		args = append(args, attr)
	}

	logger.Info(operation, args...)
}

// LogHTTPRequest writes the access log record of one request.
func LogHTTPRequest(logger *slog.Logger, method, path string, status int, durationMs float64, attrs ...slog.Attr) {
	if logger == nil {
		return
	}

	args := make([]any, 0, len(attrs)+4)
	args = append(args,
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("duration_ms", durationMs),
	)
	for _, attr := range attrs {
		args = append(args, attr)
	}

	logger.Info("http_request", args...)
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// WithRequestID stores logger in ctx tagged with the request id, so handlers
// reach the tagged logger through FromContext.
func WithRequestID(ctx context.Context, logger *slog.Logger, requestID string) context.Context {
	if logger == nil {
		logger = slog.Default()
	}
	return WithLogger(ctx, logger.With(slog.String("request_id", requestID)))
}

// FromContext returns the logger stored in ctx, or slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}
