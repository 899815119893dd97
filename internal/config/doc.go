// Package config provides configuration loading for sentrystack.
//
// Settings come from, in increasing order of precedence:
//
//  1. built-in defaults
//  2. the first config file found (see [Load])
//  3. SENTRYSTACK_* environment variables, e.g. SENTRYSTACK_REPORT_LOGGERS
//  4. command-line flags, applied by the caller
//
// A config file looks like:
//
//	# .sentrystack.yaml
//	report-loggers: [warning, error, critical]
//	logger-classes: [myapp.log.AppLogger]
//	exclude: ["*_pb2.py", migrations]
//	format: text
//
// The same keys can live in pyproject.toml:
//
//	[tool.sentrystack]
//	report-loggers = ["warning", "error"]
package config
