// Package scope tracks the exception handlers enclosing the node being visited.
package scope

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/mpyw/sentrystack/internal/inference"
	"github.com/mpyw/sentrystack/internal/pyast"
)

// Handler is an open exception handler that binds the caught exception.
type Handler struct {
	Node *sitter.Node // except_clause or except_group_clause
	Body *sitter.Node
	Name string
}

// Tracker holds the stack of open named handlers for one traversal.
// It is not safe for concurrent use.
type Tracker struct {
	file  *pyast.File
	stack []*Handler
}

// NewTracker creates a Tracker for f.
func NewTracker(f *pyast.File) *Tracker {
	return &Tracker{file: f}
}

// Enter pushes a Handler for an except clause that declares an exception
// type and binds it to a name. For any other clause it returns false and
// pushes nothing.
func (t *Tracker) Enter(clause *sitter.Node) (*Handler, bool) {
	switch clause.Type() {
	case pyast.TypeExceptClause, pyast.TypeExceptGroupClause:
	default:
		return nil, false
	}

	typ, name := inference.ExceptTarget(t.file, clause)
	if typ == nil || name == "" {
		return nil, false
	}

	h := &Handler{Node: clause, Body: body(clause), Name: name}
	t.stack = append(t.stack, h)

	return h, true
}

// Exit pops h. Handlers must be exited in reverse order of entry.
func (t *Tracker) Exit(h *Handler) {
	n := len(t.stack)
	if n == 0 || t.stack[n-1] != h {
		panic("scope: handler exited out of order")
	}
	t.stack = t.stack[:n-1]
}

// Within runs fn with the handler for clause pushed, if it qualifies.
// The handler is popped when fn returns or panics.
func (t *Tracker) Within(clause *sitter.Node, fn func()) {
	h, ok := t.Enter(clause)
	if ok {
		defer t.Exit(h)
	}
	fn()
}

// InScope reports whether any named handler is open.
func (t *Tracker) InScope() bool {
	return len(t.stack) > 0
}

// Depth returns the number of open handlers.
func (t *Tracker) Depth() int {
	return len(t.stack)
}

func body(clause *sitter.Node) *sitter.Node {
	for _, child := range pyast.NamedChildren(clause) {
		if child.Type() == pyast.TypeBlock {
			return child
		}
	}
	return nil
}
