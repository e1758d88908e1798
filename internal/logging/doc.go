// Package logging builds the application's slog loggers: a compact console
// handler for interactive use and a JSON handler for machine consumption,
// optionally teeing into a log file under the configured log directory.
package logging
