// Package logging provides structured logging for the sentrystack CLI.
//
// Loggers are plain *slog.Logger values. [New] picks a handler from the
// configured format: [Handler] renders colorized text on terminals and
// plain text elsewhere, and JSON uses slog's JSON handler.
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelFor(verbosity, quiet),
//	    Format: logging.FormatText,
//	})
//	logger.Debug("analyzed file", "file", name)
//
// Diagnostics are not log records; they are written by the report package.
package logging
