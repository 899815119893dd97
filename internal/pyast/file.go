// Package pyast parses Python source with tree-sitter.
package pyast

import (
	"bytes"
	"context"
	"fmt"
	"regexp"

	"github.com/cockroachdb/errors"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ErrSyntax is returned by Parse when the source contains syntax errors.
var ErrSyntax = errors.New("python syntax error")

// Position is a 1-based line and column (in bytes) within a file.
type Position struct {
	Filename string `json:"file"   yaml:"file"`
	Line     int    `json:"line"   yaml:"line"`
	Column   int    `json:"column" yaml:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// Span is the source range of a node.
type Span struct {
	Start Position
	End   Position
}

// File is a parsed Python source unit.
type File struct {
	Name string
	Src  []byte

	tree *sitter.Tree
	root *sitter.Node
}

// Parse parses src as Python. The returned File must be closed.
func Parse(ctx context.Context, filename string, src []byte) (*File, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", filename)
	}

	f := &File{
		Name: filename,
		Src:  src,
		tree: tree,
		root: tree.RootNode(),
	}

	if f.root.HasError() {
		pos := f.Position(firstError(f.root))
		tree.Close()
		return nil, errors.Wrapf(ErrSyntax, "%s", pos)
	}

	return f, nil
}

// Close releases the underlying tree.
func (f *File) Close() {
	if f.tree != nil {
		f.tree.Close()
		f.tree = nil
	}
}

// Root returns the module node.
func (f *File) Root() *sitter.Node {
	return f.root
}

// Text returns the source text of n.
func (f *File) Text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(f.Src)
}

// Position returns the start position of n.
func (f *File) Position(n *sitter.Node) Position {
	p := n.StartPoint()
	return Position{
		Filename: f.Name,
		Line:     int(p.Row) + 1,
		Column:   int(p.Column) + 1,
	}
}

// Span returns the start and end positions of n.
func (f *File) Span(n *sitter.Node) Span {
	end := n.EndPoint()
	return Span{
		Start: f.Position(n),
		End: Position{
			Filename: f.Name,
			Line:     int(end.Row) + 1,
			Column:   int(end.Column) + 1,
		},
	}
}

// Comments returns every comment node in source order.
func (f *File) Comments() []*sitter.Node {
	var comments []*sitter.Node

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "comment" {
			comments = append(comments, n)
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(f.root)

	return comments
}

var generatedRe = regexp.MustCompile(`^#\s*Code generated .* DO NOT EDIT\.$`)

// IsGenerated reports whether the leading comment block marks the file as
// generated ("# Code generated ... DO NOT EDIT." or "@generated").
func (f *File) IsGenerated() bool {
	for _, line := range bytes.Split(f.Src, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		if line[0] != '#' {
			return false
		}
		if generatedRe.Match(line) || bytes.Contains(line, []byte("@generated")) {
			return true
		}
	}
	return false
}

// firstError finds the first ERROR or missing node under n.
func firstError(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.HasError() || child.IsMissing() {
			return firstError(child)
		}
	}
	return n
}
