// Package capture decides whether a logging call attaches the active
// exception to the record it emits.
package capture

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/mpyw/sentrystack/internal/pyast"
)

// State is the outcome of inspecting a call's keyword arguments.
type State int

const (
	// FalseOrAbsent means exc_info is missing or falsy.
	FalseOrAbsent State = iota
	// ExplicitTrue means exc_info carries the exception.
	ExplicitTrue
	// LegacyFlag means the call passes extra={"stack": True}.
	LegacyFlag
)

func (s State) String() string {
	switch s {
	case ExplicitTrue:
		return "explicit-true"
	case LegacyFlag:
		return "legacy-flag"
	default:
		return "explicit-false-or-absent"
	}
}

const (
	keywordExcInfo = "exc_info"
	keywordExtra   = "extra"
	legacyStackKey = "stack"
)

// Analyze inspects the keyword arguments of call. Only a literal exc_info
// is evaluated: any other expression, including the bound exception
// itself, is FalseOrAbsent.
//
// The legacy flag wins over exc_info when both are present.
func Analyze(f *pyast.File, call *sitter.Node) State {
	if IncludesExtraStack(f, call) {
		return LegacyFlag
	}

	value := f.Keyword(call, keywordExcInfo)
	if value == nil {
		return FalseOrAbsent
	}

	if c, ok := f.Literal(value); ok && c.Truthy {
		return ExplicitTrue
	}
	return FalseOrAbsent
}

// IncludesExtraStack reports whether call passes an extra mapping whose
// "stack" entry is exactly the literal True. The mapping may be spelled as
// a dict literal or a dict(...) call, nested through ** or positional
// arguments. Later entries override earlier ones, and an entry that
// cannot be resolved clears any earlier "stack" key.
func IncludesExtraStack(f *pyast.File, call *sitter.Node) bool {
	extra := f.Keyword(call, keywordExtra)
	if extra == nil {
		return false
	}

	items, ok := f.DictItems(extra)
	if !ok {
		return false
	}

	var stack *sitter.Node
	for _, item := range items {
		switch {
		case item.Opaque:
			stack = nil
		case item.KeyOK && item.Key == legacyStackKey:
			stack = item.Value
		}
	}
	if stack == nil {
		return false
	}

	c, ok := f.Literal(stack)
	return ok && c.IsTrue()
}
