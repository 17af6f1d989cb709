// Package logging provides structured logging for Campus Core.
//
// It wraps log/slog with configuration-driven level, format, and output
// selection, plus default service attributes. All methods are safe for
// concurrent use.
package logging
