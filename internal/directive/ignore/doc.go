// Package ignore provides # sentrystack:ignore directive parsing.
//
// # Overview
//
// The ignore directive suppresses diagnostics for specific lines or
// specific codes.
//
// # Directive Placement
//
// The directive can appear on the line before or the same line:
//
//	# sentrystack:ignore
//	logger.error("failed: %s", e)  # Diagnostic suppressed
//
//	logger.error("failed: %s", e)  # sentrystack:ignore
//
// # Code-Specific Ignores
//
// Specify codes to ignore only specific diagnostics:
//
//	# sentrystack:ignore add-capture
//	logger.error("failed: %s", e)
//
//	# sentrystack:ignore add-capture,convert-legacy-flag - reviewed
//	logger.error("failed: %s", e, extra={"stack": True})
//
// Text after " - " is a free-form reason.
//
// # Valid Codes
//
//	┌─────────────────────┬──────────────────────────────────────────┐
//	│ Code                │ Description                              │
//	├─────────────────────┼──────────────────────────────────────────┤
//	│ add-capture         │ logging call without exc_info=True       │
//	│ convert-legacy-flag │ logging call using extra={"stack": True} │
//	└─────────────────────┴──────────────────────────────────────────┘
//
// The pylint message names add-exc-info and change-to-exc-info are
// accepted as aliases.
//
// # Unused Ignore Detection
//
// The package tracks which directives are used. [Map.GetUnusedIgnores]
// returns directives that suppressed nothing, and directives naming
// unknown codes:
//
//	# sentrystack:ignore  # Reported: nothing to suppress
//	logger.info("started")
package ignore
