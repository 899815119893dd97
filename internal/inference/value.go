package inference

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Kind classifies an inferred value.
type Kind int

const (
	// Unknown means inference failed. Callers must treat it as "no opinion".
	Unknown Kind = iota
	// Module is an imported module. QualName is its dotted path.
	Module
	// Class is a class object. Def is set for classes defined in the file.
	Class
	// Instance is an instance of the class named by QualName/Def.
	Instance
	// Function is a callable. Def is set for functions defined in the file.
	Function
	// External is a symbol imported from a module the inferrer does not model.
	External

	// cyclic marks a value whose evaluation re-entered itself. It never
	// escapes Infer.
	cyclic
)

func (k Kind) String() string {
	switch k {
	case Module:
		return "module"
	case Class:
		return "class"
	case Instance:
		return "instance"
	case Function:
		return "function"
	case External:
		return "external"
	case cyclic:
		return "cyclic"
	default:
		return "unknown"
	}
}

// Value is the result of inference.
type Value struct {
	Kind     Kind
	QualName string
	Def      *sitter.Node
}

var unknown = Value{}

// Known reports whether inference produced a value.
func (v Value) Known() bool {
	return v.Kind != Unknown && v.Kind != cyclic
}

// String renders the value for diagnostics and debug logs.
func (v Value) String() string {
	if v.QualName == "" {
		return v.Kind.String()
	}
	return v.Kind.String() + " " + v.QualName
}

// same reports whether two values denote the same thing.
func (v Value) same(o Value) bool {
	if v.Kind != o.Kind || v.QualName != o.QualName {
		return false
	}
	if v.Def == nil || o.Def == nil {
		return v.Def == nil && o.Def == nil
	}
	return keyOf(v.Def) == keyOf(o.Def)
}

// instanceOf returns an instance of the class value c.
func instanceOf(c Value) Value {
	return Value{Kind: Instance, QualName: c.QualName, Def: c.Def}
}

// merge combines the values of several bindings. Cyclic values are
// dropped; any unknown or disagreeing value makes the result unknown.
func merge(values []Value) Value {
	var (
		result Value
		found  bool
		cycle  bool
	)

	for _, v := range values {
		switch {
		case v.Kind == cyclic:
			cycle = true
			continue
		case !v.Known():
			return unknown
		case !found:
			result, found = v, true
		case !result.same(v):
			return unknown
		}
	}

	if !found {
		if cycle {
			return Value{Kind: cyclic}
		}
		return unknown
	}

	return result
}

// nodeKey identifies a node within one tree.
type nodeKey struct {
	start, end uint32
	typ        string
}

func keyOf(n *sitter.Node) nodeKey {
	return nodeKey{start: n.StartByte(), end: n.EndByte(), typ: n.Type()}
}
