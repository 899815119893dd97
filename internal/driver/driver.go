// Package driver finds Python files and runs an analyzer over them.
package driver

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/mpyw/sentrystack/internal/analysis"
	"github.com/mpyw/sentrystack/internal/pyast"
)

// ErrNoFiles is returned by Expand when the patterns match no Python file.
var ErrNoFiles = errors.New("no Python files to check")

// Options configures a run.
type Options struct {
	// Concurrency bounds the files analyzed at once. Zero means GOMAXPROCS.
	Concurrency int

	// Logger receives debug logs. Nil means slog.Default().
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

var skipDirs = map[string]bool{
	"__pycache__":   true,
	"node_modules":  true,
	"site-packages": true,
	"venv":          true,
}

// Expand resolves patterns to a sorted list of Python files. A pattern is a
// file, a directory (walked recursively) or "dir/...". exclude lists glob
// patterns matched against each path and each base name.
func Expand(patterns []string, exclude []string) ([]string, error) {
	for _, pat := range exclude {
		if _, err := filepath.Match(pat, ""); err != nil {
			return nil, errors.Wrapf(err, "invalid exclude pattern %q", pat)
		}
	}

	seen := make(map[string]bool)
	var files []string

	add := func(path string) {
		path = filepath.Clean(path)
		if seen[path] || excluded(path, exclude) {
			return
		}
		seen[path] = true
		files = append(files, path)
	}

	for _, pattern := range patterns {
		root := strings.TrimSuffix(pattern, "...")
		if root == "" {
			root = "."
		}

		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving %s", pattern)
		}

		if !info.IsDir() {
			// Explicitly named files are checked whatever their extension.
			add(root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && skipDir(d.Name()) {
					return filepath.SkipDir
				}
				if path != root && excluded(path, exclude) {
					return filepath.SkipDir
				}
				return nil
			}
			if isPython(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "walking %s", root)
		}
	}

	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	slices.Sort(files)

	return files, nil
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || skipDirs[name]
}

func isPython(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".py" || ext == ".pyi"
}

func excluded(path string, exclude []string) bool {
	for _, pat := range exclude {
		if ok, _ := filepath.Match(pat, path); ok {
			return true
		}
		if ok, _ := filepath.Match(pat, filepath.Base(path)); ok {
			return true
		}
	}
	return false
}

// Run analyzes files in parallel and returns the diagnostics sorted by
// position. The first read or parse error cancels the run.
func Run(ctx context.Context, a *analysis.Analyzer, files []string, opts Options) ([]analysis.Diagnostic, error) {
	log := opts.logger()

	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var (
		mu    sync.Mutex
		diags []analysis.Diagnostic
	)

	for _, filename := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			src, err := os.ReadFile(filename)
			if err != nil {
				return errors.Wrapf(err, "reading %s", filename)
			}

			found, err := RunFile(ctx, a, filename, src)
			if err != nil {
				return err
			}

			log.DebugContext(ctx, "analyzed file",
				slog.String("file", filename),
				slog.Int("diagnostics", len(found)),
			)

			mu.Lock()
			diags = append(diags, found...)
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortFunc(diags, func(x, y analysis.Diagnostic) int {
		switch {
		case x.Less(y):
			return -1
		case y.Less(x):
			return 1
		default:
			return 0
		}
	})

	return diags, nil
}

// RunFile parses src and applies a to it.
func RunFile(ctx context.Context, a *analysis.Analyzer, filename string, src []byte) ([]analysis.Diagnostic, error) {
	f, err := pyast.Parse(ctx, filename, src)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var diags []analysis.Diagnostic
	pass := &analysis.Pass{
		Analyzer: a,
		File:     f,
		Report:   func(d analysis.Diagnostic) { diags = append(diags, d) },
	}

	if err := a.Run(pass); err != nil {
		return nil, errors.Wrapf(err, "%s: running %s", filename, a.Name)
	}

	return diags, nil
}
