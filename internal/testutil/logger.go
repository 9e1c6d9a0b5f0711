// Package testutil provides shared logging helpers for tests.
package testutil

import (
	"log/slog"
	"strings"
	"testing"
)

// NewTestLogger returns a debug-level slog logger routed through t.Log,
// so corpus load logging surfaces with test output on failure or -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(logWriter{tb: t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type logWriter struct {
	tb testing.TB
}

// Write forwards one handler record to the test log. The handler ends
// every record with a newline; t.Log adds its own, so it is trimmed.
func (w logWriter) Write(p []byte) (int, error) {
	w.tb.Helper()
	w.tb.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}
