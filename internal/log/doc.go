// Package log provides a slog handler that keeps Canvas credentials out
// of log output and maps the CLI log-level names onto slog levels.
package log
