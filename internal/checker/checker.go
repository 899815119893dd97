// Package checker walks a Python file and reports logging calls in named
// exception handlers that do not attach the exception.
package checker

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/mpyw/sentrystack/internal/analysis"
	"github.com/mpyw/sentrystack/internal/capture"
	"github.com/mpyw/sentrystack/internal/directive/ignore"
	"github.com/mpyw/sentrystack/internal/finding"
	"github.com/mpyw/sentrystack/internal/inference"
	"github.com/mpyw/sentrystack/internal/levels"
	"github.com/mpyw/sentrystack/internal/logcall"
	"github.com/mpyw/sentrystack/internal/pyast"
	"github.com/mpyw/sentrystack/internal/scope"
)

// Checker checks one file. It is not safe for concurrent use.
type Checker struct {
	file       *pyast.File
	tracker    *scope.Tracker
	classifier *logcall.Classifier
	levels     levels.Set
	ignoreMap  ignore.Map
}

// New creates a checker for f.
func New(
	f *pyast.File,
	in *inference.Inferrer,
	reported levels.Set,
	ignoreMap ignore.Map,
) *Checker {
	return &Checker{
		file:       f,
		tracker:    scope.NewTracker(f),
		classifier: logcall.NewClassifier(f, in),
		levels:     reported,
		ignoreMap:  ignoreMap,
	}
}

// Run walks the file and reports findings to pass.
func (c *Checker) Run(pass *analysis.Pass) {
	c.walk(pass, c.file.Root())
}

func (c *Checker) walk(pass *analysis.Pass, n *sitter.Node) {
	switch n.Type() {
	case pyast.TypeExceptClause, pyast.TypeExceptGroupClause:
		c.walkHandler(pass, n)
		return
	case pyast.TypeCall:
		c.checkCall(pass, n)
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		c.walk(pass, n.NamedChild(i))
	}
}

// walkHandler walks the exception type outside the handler scope and the
// body inside it.
func (c *Checker) walkHandler(pass *analysis.Pass, clause *sitter.Node) {
	var body []*sitter.Node

	for i := 0; i < int(clause.NamedChildCount()); i++ {
		child := clause.NamedChild(i)
		if child.Type() == pyast.TypeBlock {
			body = append(body, child)
			continue
		}
		c.walk(pass, child)
	}

	c.tracker.Within(clause, func() {
		for _, child := range body {
			c.walk(pass, child)
		}
	})
}

// checkCall reports call when it is a logging call that should capture
// the active exception.
func (c *Checker) checkCall(pass *analysis.Pass, node *sitter.Node) {
	if !c.tracker.InScope() {
		return
	}

	call, ok := c.classifier.Classify(node)
	if !ok {
		return
	}

	if !c.levels.Reports(call.Level) {
		return
	}

	state := capture.Analyze(c.file, node)

	f, ok := finding.New(c.file, call, state)
	if !ok {
		return
	}

	if c.shouldIgnore(f) {
		return
	}

	pass.Reportf(f.Span, f.Code(), "%s", f.Message)
}

// shouldIgnore checks if the finding is suppressed by an ignore directive.
func (c *Checker) shouldIgnore(f finding.Finding) bool {
	if c.ignoreMap == nil {
		return false
	}
	return c.ignoreMap.ShouldIgnore(f.Span.Start.Line, ignore.Code(f.Code()))
}
