// Package logcall recognizes calls to the level methods of a logger.
package logcall

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/mpyw/sentrystack/internal/inference"
	"github.com/mpyw/sentrystack/internal/levels"
	"github.com/mpyw/sentrystack/internal/pyast"
)

// Call is a classified logging call.
type Call struct {
	Node         *sitter.Node
	Level        levels.Name
	Method       string // as written, e.g. "warn"
	Receiver     *sitter.Node
	ReceiverType inference.Value
}

// Classifier classifies the calls of one file.
type Classifier struct {
	file  *pyast.File
	infer *inference.Inferrer
}

// NewClassifier returns a Classifier resolving receivers with in.
func NewClassifier(f *pyast.File, in *inference.Inferrer) *Classifier {
	return &Classifier{file: f, infer: in}
}

// Classify reports whether call is <logger>.<level>(...). Receivers that
// cannot be inferred are never classified.
func (c *Classifier) Classify(call *sitter.Node) (Call, bool) {
	if call == nil || call.Type() != pyast.TypeCall {
		return Call{}, false
	}

	fn := pyast.Unparen(call.ChildByFieldName("function"))
	if fn == nil || fn.Type() != pyast.TypeAttribute {
		return Call{}, false
	}

	recv := fn.ChildByFieldName("object")
	attr := fn.ChildByFieldName("attribute")
	if recv == nil || attr == nil {
		return Call{}, false
	}

	// Cheap check first: most calls are not level methods.
	method := c.file.Text(attr)
	level, ok := levels.Canonical(method)
	if !ok {
		return Call{}, false
	}

	typ := c.infer.Infer(recv)
	if !c.infer.IsLogger(typ) {
		return Call{}, false
	}

	return Call{
		Node:         call,
		Level:        level,
		Method:       method,
		Receiver:     recv,
		ReceiverType: typ,
	}, true
}
