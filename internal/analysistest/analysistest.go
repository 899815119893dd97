// Package analysistest runs an analyzer on Python test files and checks
// its diagnostics against "# want" comments.
package analysistest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/txtar"

	"github.com/mpyw/sentrystack/internal/analysis"
	"github.com/mpyw/sentrystack/internal/driver"
	"github.com/mpyw/sentrystack/internal/pyast"
)

// Testing is the subset of *testing.T used by the harness.
type Testing interface {
	Helper()
	Errorf(format string, args ...any)
}

// Result holds the diagnostics of one analyzed file.
type Result struct {
	File        string
	Diagnostics []analysis.Diagnostic
	Err         error
}

// TestData returns the absolute path of the testdata directory of the
// package under test.
func TestData() string {
	dir, err := filepath.Abs("testdata")
	if err != nil {
		panic(err)
	}
	return dir
}

// Run applies a to every Python file in dir/src/<pkg> for each pkg and
// checks the diagnostics against the expectations in the files.
//
// A comment of the form
//
//	logger.error("x")  # want "regexp" "regexp"
//
// expects one diagnostic per regexp on that line. A regexp matches the
// text "message (code)". Every diagnostic must be expected.
func Run(t Testing, dir string, a *analysis.Analyzer, pkgs ...string) []Result {
	t.Helper()

	var results []Result

	for _, pkg := range pkgs {
		var files []string
		for _, glob := range []string{"*.py", "*.pyi"} {
			matches, err := filepath.Glob(filepath.Join(dir, "src", pkg, glob))
			if err != nil {
				t.Errorf("listing %s: %v", pkg, err)
				continue
			}
			files = append(files, matches...)
		}
		slices.Sort(files)

		if len(files) == 0 {
			t.Errorf("no Python files in %s", filepath.Join(dir, "src", pkg))
			continue
		}

		for _, filename := range files {
			src, err := os.ReadFile(filename)
			if err != nil {
				t.Errorf("reading %s: %v", filename, err)
				continue
			}
			results = append(results, check(t, a, filename, src))
		}
	}

	return results
}

// RunArchive applies a to the Python files of a txtar archive. A "flags"
// file in the archive lists analyzer flags, one "name=value" per line;
// they are set for the duration of the run.
func RunArchive(t Testing, a *analysis.Analyzer, archive string) []Result {
	t.Helper()

	ar, err := txtar.ParseFile(archive)
	if err != nil {
		t.Errorf("parsing archive: %v", err)
		return nil
	}

	var results []Result

	for _, f := range ar.Files {
		if f.Name != "flags" {
			continue
		}
		restore, err := setFlags(a, string(f.Data))
		if err != nil {
			t.Errorf("%s: %v", archive, err)
			return nil
		}
		defer restore()
	}

	for _, f := range ar.Files {
		ext := filepath.Ext(f.Name)
		if ext != ".py" && ext != ".pyi" {
			continue
		}
		results = append(results, check(t, a, f.Name, f.Data))
	}

	if len(results) == 0 {
		t.Errorf("%s: no Python files in archive", archive)
	}

	return results
}

// setFlags sets the flags listed in spec and returns a function restoring
// their previous values.
func setFlags(a *analysis.Analyzer, spec string) (func(), error) {
	var restores []func()
	restore := func() {
		for i := len(restores) - 1; i >= 0; i-- {
			restores[i]()
		}
	}

	for _, line := range strings.Split(spec, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, value, _ := strings.Cut(strings.TrimLeft(line, "-"), "=")
		fl := a.Flags.Lookup(name)
		if fl == nil {
			restore()
			return nil, errors.Newf("unknown flag %q", name)
		}

		prev := fl.Value.String()
		r, resettable := fl.Value.(analysis.ResettableValue)
		wasSet := resettable && r.IsSet()
		if err := a.Flags.Set(name, value); err != nil {
			restore()
			return nil, errors.Wrapf(err, "setting flag %q", name)
		}
		restores = append(restores, func() {
			if resettable && !wasSet {
				r.Reset()
				return
			}
			_ = a.Flags.Set(name, prev)
		})
	}

	return restore, nil
}

type expectation struct {
	rx    *regexp.Regexp
	found bool
}

var wantRe = regexp.MustCompile(`#\s*want\s+(.+)$`)

func check(t Testing, a *analysis.Analyzer, filename string, src []byte) Result {
	t.Helper()

	result := Result{File: filename}

	diags, err := driver.RunFile(context.Background(), a, filename, src)
	if err != nil {
		t.Errorf("%s: %v", filename, err)
		result.Err = err
		return result
	}
	result.Diagnostics = diags

	want, err := expectations(filename, src)
	if err != nil {
		t.Errorf("%v", err)
		return result
	}

	for _, d := range diags {
		text := fmt.Sprintf("%s (%s)", d.Message, d.Code)
		matched := false
		for _, exp := range want[d.Pos.Line] {
			if !exp.found && exp.rx.MatchString(text) {
				exp.found = true
				matched = true
				break
			}
		}
		if !matched {
			t.Errorf("%s: unexpected diagnostic: %s", d.Pos, text)
		}
	}

	lines := make([]int, 0, len(want))
	for line := range want {
		lines = append(lines, line)
	}
	slices.Sort(lines)

	for _, line := range lines {
		for _, exp := range want[line] {
			if !exp.found {
				t.Errorf("%s:%d: no diagnostic was reported matching %q", filename, line, exp.rx)
			}
		}
	}

	return result
}

// expectations collects the "# want" comments of src by line.
func expectations(filename string, src []byte) (map[int][]*expectation, error) {
	f, err := pyast.Parse(context.Background(), filename, src)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	want := make(map[int][]*expectation)

	for _, c := range f.Comments() {
		m := wantRe.FindStringSubmatch(f.Text(c))
		if m == nil {
			continue
		}

		pos := f.Position(c)
		rest := strings.TrimSpace(m[1])
		for rest != "" {
			quoted, err := strconv.QuotedPrefix(rest)
			if err != nil {
				return nil, errors.Newf("%s: malformed want comment: %s", pos, rest)
			}
			pattern, err := strconv.Unquote(quoted)
			if err != nil {
				return nil, errors.Wrapf(err, "%s", pos)
			}
			rx, err := regexp.Compile(pattern)
			if err != nil {
				return nil, errors.Wrapf(err, "%s", pos)
			}
			want[pos.Line] = append(want[pos.Line], &expectation{rx: rx})
			rest = strings.TrimSpace(rest[len(quoted):])
		}
	}

	return want, nil
}
