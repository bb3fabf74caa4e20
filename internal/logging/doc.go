// Package logging assembles the slog loggers used across cookierisk.
//
// It owns the console and JSON handlers, level and output plumbing, and the
// context helpers that tag log lines with the predict run ID and the batch
// item being scored. NewNop serves tests and wiring code that cannot fail.
package logging
