package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/mpyw/sentrystack"
	"github.com/mpyw/sentrystack/internal/analysis"
	"github.com/mpyw/sentrystack/internal/config"
	"github.com/mpyw/sentrystack/internal/driver"
	"github.com/mpyw/sentrystack/internal/logging"
	"github.com/mpyw/sentrystack/internal/report"
)

// version is set at build time via ldflags.
var version = "dev"

var errFindings = errors.New("diagnostics reported")

type options struct {
	configPath string
	format     string
	exclude    []string
	verbosity  int
	quiet      bool
	jobs       int
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "sentrystack [flags] [paths...]",
		Short: "Report logging calls in exception handlers that drop the stack",
		Long: `sentrystack checks Python code for logging calls made inside named
exception handlers ("except E as e:") that do not pass exc_info=True,
and for calls that still use the legacy extra={"stack": True} flag.

Paths may be files, directories or "dir/..." patterns. The current
directory is checked when no path is given.

Settings are read from .sentrystack.yaml, .sentrystack.toml, the
[tool.sentrystack] table of pyproject.toml or
$XDG_CONFIG_HOME/sentrystack/config.yaml. Flags override them.`,
		Example: `  # Check a project
  sentrystack ./...

  # Only report error and critical calls
  sentrystack --report-loggers=error,critical src/

  # Machine-readable output
  sentrystack --format=json .`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, args)
		},
	}
	cmd.SetVersionTemplate("sentrystack version {{.Version}}\n")

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default: search .sentrystack.*, pyproject.toml)")
	flags.StringVar(&opts.format, "format", "", "output format: text, json, yaml (default: text)")
	flags.StringSliceVar(&opts.exclude, "exclude", nil, "glob patterns of paths to skip")
	flags.CountVarP(&opts.verbosity, "verbose", "v", "increase verbosity level (e.g., -v, -vv)")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress non-error logs")
	flags.IntVarP(&opts.jobs, "jobs", "j", 0, "files analyzed in parallel (default: GOMAXPROCS)")

	flags.AddGoFlagSet(&sentrystack.Analyzer.Flags)

	return cmd
}

func (o *options) run(cmd *cobra.Command, args []string) error {
	if o.quiet && o.verbosity > 0 {
		return usageError(errors.New("cannot use --quiet and --verbose together"))
	}

	logger := logging.New(logging.Config{
		Level:  logging.LevelFor(o.verbosity, o.quiet),
		Output: cmd.ErrOrStderr(),
	})
	ctx := cmd.Context()

	cfg, err := config.Load(o.configPath, ".")
	if err != nil {
		return usageError(err)
	}
	if cfg.File != "" {
		logger.DebugContext(ctx, "loaded config", slog.String("file", cfg.File))
	}

	if err := applyAnalyzerFlags(cmd, cfg); err != nil {
		return usageError(err)
	}

	format := cfg.Format
	if cmd.Flags().Changed("format") {
		format = o.format
	}

	reporter, err := report.New(format, cmd.OutOrStdout())
	if err != nil {
		return usageError(err)
	}

	if len(args) == 0 {
		args = []string{"."}
	}

	exclude := append(append([]string(nil), cfg.Exclude...), o.exclude...)

	files, err := driver.Expand(args, exclude)
	if errors.Is(err, driver.ErrNoFiles) {
		return usageError(err)
	}
	if err != nil {
		return failure(err)
	}
	logger.DebugContext(ctx, "expanded paths", slog.Int("files", len(files)))

	diags, err := driver.Run(ctx, sentrystack.Analyzer, files, driver.Options{
		Concurrency: o.jobs,
		Logger:      logger,
	})
	if err != nil {
		return failure(err)
	}

	if err := reporter.Report(diags); err != nil {
		return failure(err)
	}

	logger.InfoContext(ctx, "check complete",
		slog.Int("files", len(files)),
		slog.Int("diagnostics", len(diags)),
	)

	if len(diags) > 0 {
		return &ExitError{Err: errFindings, Code: ExitFindings, Silent: true}
	}
	return nil
}

// applyAnalyzerFlags sets every analyzer flag not given on the command
// line to its config value, or to its default.
func applyAnalyzerFlags(cmd *cobra.Command, cfg *config.Config) error {
	values := cfg.FlagValues()

	var err error
	sentrystack.Analyzer.Flags.VisitAll(func(f *flag.Flag) {
		if err != nil || cmd.Flags().Changed(f.Name) {
			return
		}
		value, ok := values[f.Name]
		if !ok {
			if r, resettable := f.Value.(analysis.ResettableValue); resettable {
				r.Reset()
				return
			}
			value = f.DefValue
		}
		if setErr := f.Value.Set(value); setErr != nil {
			err = errors.Wrapf(setErr, "setting %s", f.Name)
		}
	})

	return err
}

// execute runs the command and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitClean
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		// Flag parsing and argument errors come from cobra.
		exitErr = usageError(err)
	}

	if !exitErr.Silent {
		fmt.Fprintf(stderr, "sentrystack: %v\n", exitErr)
	}

	return exitErr.Code
}
