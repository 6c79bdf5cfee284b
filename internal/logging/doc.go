// Package logging assembles structured slog loggers and formatting helpers used
// across mediascope.
//
// It owns the console and JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so stage code can automatically tag log
// lines with run IDs, stages, audio channels, and scene thresholds. The package
// also provides a no-op logger for tests and wiring code that cannot fail.
//
// Loggers are always passed explicitly; nothing in mediascope reads a global
// logger.
package logging
