// Package report writes diagnostics in the supported output formats.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/mpyw/sentrystack/internal/analysis"
	"github.com/mpyw/sentrystack/internal/config"
	"github.com/mpyw/sentrystack/internal/logging"
)

// Reporter writes a run's diagnostics.
type Reporter interface {
	Report(diags []analysis.Diagnostic) error
}

// Output is the document written by the JSON and YAML reporters.
type Output struct {
	Diagnostics []analysis.Diagnostic `json:"diagnostics" yaml:"diagnostics"`
	Count       int                   `json:"count"       yaml:"count"`
}

// New returns the reporter for format writing to w.
func New(format string, w io.Writer) (Reporter, error) {
	switch format {
	case config.FormatText, "":
		return newText(w, logging.SupportsColor(w)), nil
	case config.FormatJSON:
		return &jsonReporter{w: w}, nil
	case config.FormatYAML:
		return &yamlReporter{w: w}, nil
	default:
		return nil, errors.Wrapf(config.ErrInvalidFormat, "%q", format)
	}
}

func output(diags []analysis.Diagnostic) Output {
	if diags == nil {
		diags = []analysis.Diagnostic{}
	}
	return Output{Diagnostics: diags, Count: len(diags)}
}

// textReporter writes "file:line:col: message (code)" lines.
type textReporter struct {
	w        io.Writer
	posColor *color.Color
	msgColor *color.Color
	code     *color.Color
}

func newText(w io.Writer, colored bool) *textReporter {
	r := &textReporter{w: w}
	if colored {
		r.posColor = color.New(color.Bold)
		r.msgColor = color.New(color.FgYellow)
		r.code = color.New(color.FgHiBlack)
		for _, c := range []*color.Color{r.posColor, r.msgColor, r.code} {
			c.EnableColor()
		}
	}
	return r
}

func (r *textReporter) Report(diags []analysis.Diagnostic) error {
	for _, d := range diags {
		_, err := fmt.Fprintf(r.w, "%s: %s %s\n",
			paint(r.posColor, d.Pos.String()),
			paint(r.msgColor, d.Message),
			paint(r.code, "("+d.Code+")"),
		)
		if err != nil {
			return errors.Wrap(err, "writing report")
		}
	}
	return nil
}

func paint(c *color.Color, s string) string {
	if c == nil {
		return s
	}
	return c.Sprint(s)
}

type jsonReporter struct {
	w io.Writer
}

func (r *jsonReporter) Report(diags []analysis.Diagnostic) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(output(diags)), "encoding output")
}

type yamlReporter struct {
	w io.Writer
}

func (r *yamlReporter) Report(diags []analysis.Diagnostic) error {
	enc := yaml.NewEncoder(r.w)
	enc.SetIndent(2)
	if err := enc.Encode(output(diags)); err != nil {
		return errors.Wrap(err, "encoding output")
	}
	return errors.Wrap(enc.Close(), "encoding output")
}
