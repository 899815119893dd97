// Package sentrystack provides an analyzer for detecting Python logging
// calls in exception handlers that do not attach the exception's stack.
package sentrystack

import (
	"strings"

	"github.com/mpyw/sentrystack/internal/analysis"
	"github.com/mpyw/sentrystack/internal/checker"
	"github.com/mpyw/sentrystack/internal/directive/ignore"
	"github.com/mpyw/sentrystack/internal/inference"
	"github.com/mpyw/sentrystack/internal/levels"
	"github.com/mpyw/sentrystack/internal/typeutil"
)

// CodeUnusedIgnore is reported for ignore directives that suppress nothing.
const CodeUnusedIgnore = "unused-ignore"

// Flags for the analyzer.
var (
	reportLoggers levels.Flag
	loggerClasses string
)

func init() {
	Analyzer.Flags.Var(&reportLoggers, "report-loggers",
		"comma-separated list of logger methods to report; an empty list reports none (default: info,warning,error,critical)")
	Analyzer.Flags.StringVar(&loggerClasses, "logger-classes", "",
		"comma-separated list of classes to treat as loggers (e.g., myapp.log.AppLogger)")
}

// Analyzer is the main analyzer for sentrystack.
var Analyzer = &analysis.Analyzer{
	Name: "sentrystack",
	Doc:  "checks that logging calls in exception handlers pass exc_info=True",
	Run:  run,
}

func run(pass *analysis.Pass) error {
	// Always skip generated files
	if pass.File.IsGenerated() {
		return nil
	}

	reported := reportLoggers.Levels()
	classes := typeutil.ParseClasses(loggerClasses)

	ignoreMap := ignore.Build(pass.File)
	inferrer := inference.New(pass.File, classes)

	checker.New(pass.File, inferrer, reported, ignoreMap).Run(pass)

	reportUnusedIgnores(pass, ignoreMap)

	return nil
}

// reportUnusedIgnores reports any ignore directives that were not used.
func reportUnusedIgnores(pass *analysis.Pass, ignoreMap ignore.Map) {
	for _, unused := range ignoreMap.GetUnusedIgnores() {
		if len(unused.Codes) == 0 {
			pass.Reportf(unused.Span, CodeUnusedIgnore, "unused sentrystack:ignore directive")
			continue
		}

		codes := make([]string, len(unused.Codes))
		for i, c := range unused.Codes {
			codes[i] = string(c)
		}
		pass.Reportf(unused.Span, CodeUnusedIgnore,
			"unused sentrystack:ignore directive for code(s): %s", strings.Join(codes, ", "))
	}
}
