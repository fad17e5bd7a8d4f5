// Package logging provides structured logging helpers built on log/slog.
//
// It defines canonical attribute keys so that log lines from different
// packages stay queryable (operation, service, course, status, error), plus
// sanitizers for values that must never appear in logs verbatim: the Canvas
// API token and student login IDs.
package logging
