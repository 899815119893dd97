// Package directive provides directive parsing for sentrystack.
//
// # Overview
//
// Directives are Python comments that control analyzer behavior:
//
//	directive/
//	└── ignore/    # sentrystack:ignore directive
//
// # Directive Format
//
// All directives follow the format:
//
//	# sentrystack:<directive> [args]
//
// # Ignore Directive
//
// Suppresses diagnostics on the same line or the next line:
//
//	# sentrystack:ignore
//	logger.error("x")  # No warning
//
//	logger.error("x")  # sentrystack:ignore add-capture
//
// See [ignore] package for details.
//
// Logger classes are configured via flag, not directive:
//
//	-logger-classes=myapp.log.AppLogger
//
// [ignore]: github.com/mpyw/sentrystack/internal/directive/ignore
package directive
