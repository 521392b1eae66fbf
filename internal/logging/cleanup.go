package logging

import (
	"fmt"
	"io"
	"log/slog"
)

// SafeCloseWithLogging closes closer and logs a failure instead of returning
// it. Used for watchers and readers whose close error cannot change the
// outcome.
func SafeCloseWithLogging(closer io.Closer, logger *slog.Logger, operation string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		LogError(logger, "failed to close resource", err,
			slog.String("operation", operation))
	}
}

// HandleDeferredError runs deferredOp and, when it fails, logs the failure
// and stores it in *originalErr unless an earlier error is already there.
// fretectl uses it so a failed flush of the output file is not lost.
func HandleDeferredError(originalErr *error, deferredOp func() error, logger *slog.Logger, operation string) {
	if deferredOp == nil {
		return
	}
	err := deferredOp()
	if err == nil {
		return
	}
	LogError(logger, "deferred operation failed", err,
		slog.String("operation", operation))
	if originalErr != nil && *originalErr == nil {
		*originalErr = fmt.Errorf("%s: %w", operation, err)
	}
}
