// Package analysis defines the interface between an analyzer of Python
// source and the driver that runs it. It follows the shape of
// golang.org/x/tools/go/analysis, reduced to single-file passes.
package analysis

import (
	"flag"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/mpyw/sentrystack/internal/pyast"
)

// Analyzer describes an analysis function and its options.
type Analyzer struct {
	// Name is the analyzer name, used as the prefix of its directives.
	Name string

	// Doc is the documentation. The first line is a one-line summary.
	Doc string

	// Flags defines analyzer-specific flags. The driver exposes them on
	// its command line.
	Flags flag.FlagSet

	// Run applies the analyzer to one file. It is called concurrently
	// for different files and must not mutate shared state.
	Run func(*Pass) error
}

func (a *Analyzer) String() string { return a.Name }

// ResettableValue is a flag.Value with an unset state distinct from any
// value it can be set to. Drivers reset such flags instead of setting
// them to their default text.
type ResettableValue interface {
	flag.Value
	Reset()
	IsSet() bool
}

// Pass provides information to the Run function applying an Analyzer to
// a single file.
type Pass struct {
	Analyzer *Analyzer
	File     *pyast.File

	// Report reports a Diagnostic.
	Report func(Diagnostic)
}

// Reportf reports a diagnostic at span.
func (p *Pass) Reportf(span pyast.Span, code, format string, args ...any) {
	p.Report(Diagnostic{
		Pos:     span.Start,
		End:     span.End,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	})
}

// ReportNodef reports a diagnostic covering n.
func (p *Pass) ReportNodef(n *sitter.Node, code, format string, args ...any) {
	p.Reportf(p.File.Span(n), code, format, args...)
}

// Diagnostic is a message associated with a source location.
type Diagnostic struct {
	Pos     pyast.Position `json:"pos"     yaml:"pos"`
	End     pyast.Position `json:"end"     yaml:"end"`
	Code    string         `json:"code"    yaml:"code"`
	Message string         `json:"message" yaml:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s (%s)", d.Pos, d.Message, d.Code)
}

// Less orders diagnostics by file, line, column and code.
func (d Diagnostic) Less(o Diagnostic) bool {
	switch {
	case d.Pos.Filename != o.Pos.Filename:
		return d.Pos.Filename < o.Pos.Filename
	case d.Pos.Line != o.Pos.Line:
		return d.Pos.Line < o.Pos.Line
	case d.Pos.Column != o.Pos.Column:
		return d.Pos.Column < o.Pos.Column
	default:
		return d.Code < o.Code
	}
}
