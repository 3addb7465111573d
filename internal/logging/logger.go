// Package logging provides the package-level *slog.Logger used to surface
// recoverable anomalies (malformed objects, unknown operators, filter
// fallback) without forcing output on callers that don't ask for it.
//
// Grounded on mikeschinkel-gxpdf's logging package: an atomic pointer to a
// *slog.Logger, defaulting to a discard handler, configurable once via
// SetLogger. playa routes every §7 warning through here instead of calling
// slog ad hoc at each call site.
package logging

import (
	"io"
	"log/slog"
	"sync/atomic"
)

var logger atomic.Pointer[slog.Logger]

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SetLogger configures the package-level logger. Pass nil to go back to
// discarding output. Safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		logger.Store(newDiscardLogger())
		return
	}
	logger.Store(l)
}

// Logger returns the current package-level logger, defaulting to a discard
// handler if none has been set.
func Logger() *slog.Logger {
	l := logger.Load()
	if l == nil {
		l = newDiscardLogger()
		logger.Store(l)
	}
	return l
}

// Warn is a convenience wrapper for the common case of logging a recovered
// decode anomaly.
func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

// Debug is a convenience wrapper for low-level tracing.
func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}
