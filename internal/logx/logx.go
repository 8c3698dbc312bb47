// Package logx is the ambient structured-logging wrapper around log/slog
// used by the CLI for its runtime warning path (the unknown-norm fallback).
// The pure inference/classify packages never import it: they are math, not
// diagnostics.
package logx

import (
	"log/slog"
	"os"
)

// Log is the process-wide logger, set up by Init. Package-level functions
// below delegate to it so callers need not thread a logger through every
// function signature.
var Log *slog.Logger

func init() {
	// A sane default before any CLI command calls Init, so library callers
	// that skip setup still get a working logger.
	Log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// Init configures the global logger at the given level ("debug", "info",
// "warn", "error"; anything else falls back to "info"). Output always goes
// to stderr, consistent with the CLI reserving stdout for command results.
func Init(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	Log = slog.New(handler)
	slog.SetDefault(Log)
}

// Debug logs at debug level.
func Debug(msg string, args ...any) {
	Log.Debug(msg, args...)
}

// Info logs at info level.
func Info(msg string, args ...any) {
	Log.Info(msg, args...)
}

// Warn logs at warn level. This is the level the CLI's unknown-norm
// fallback warning uses.
func Warn(msg string, args ...any) {
	Log.Warn(msg, args...)
}

// Error logs at error level.
func Error(msg string, args ...any) {
	Log.Error(msg, args...)
}
