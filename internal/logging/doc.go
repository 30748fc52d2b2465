// Package logging assembles the structured slog loggers used across statforge.
//
// It owns the console and JSON handlers, centralizes level and output plumbing,
// and provides a no-op logger for tests and for components that accept an
// optional logger. Prefer these constructors over hand-rolled slog setup so all
// components emit data with the same shape.
package logging
