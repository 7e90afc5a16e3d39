// Package logger provides structured logging for the service. JSON output
// in production, human-readable text in development.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger with search-domain helpers.
type Logger struct {
	*slog.Logger
}

// New builds a logger for the given environment name.
func New(env string) *Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler
	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// NewNop returns a logger that discards everything, for tests.
func NewNop() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// ProviderCall logs one external provider request.
func (l *Logger) ProviderCall(provider, endpoint string, status int, durationMs int64, results int) {
	l.Info("provider_call",
		slog.String("provider", provider),
		slog.String("endpoint", endpoint),
		slog.Int("status", status),
		slog.Int64("duration_ms", durationMs),
		slog.Int("results", results),
	)
}

// ItineraryDropped logs a per-item parse or scoring failure that did not
// abort the batch.
func (l *Logger) ItineraryDropped(stage, itineraryID string, err error) {
	l.Warn("itinerary_dropped",
		slog.String("stage", stage),
		slog.String("itinerary_id", itineraryID),
		slog.String("error", err.Error()),
	)
}

// CacheError logs a non-fatal cache failure.
func (l *Logger) CacheError(operation, key string, err error) {
	l.Warn("cache_error",
		slog.String("operation", operation),
		slog.String("key", key),
		slog.String("error", err.Error()),
	)
}
