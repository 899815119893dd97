package pyast

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Node types used across the analyzer.
const (
	TypeCall              = "call"
	TypeAttribute         = "attribute"
	TypeIdentifier        = "identifier"
	TypeExceptClause      = "except_clause"
	TypeExceptGroupClause = "except_group_clause"
	TypeBlock             = "block"
	TypeFunctionDef       = "function_definition"
	TypeClassDef          = "class_definition"
	TypeDecoratedDef      = "decorated_definition"
	TypeKeywordArgument   = "keyword_argument"
	TypeDictionary        = "dictionary"
	TypeDictionarySplat   = "dictionary_splat"
	TypeListSplat         = "list_splat"
	TypeParenthesized     = "parenthesized_expression"
	TypeComment           = "comment"
)

// Keyword is a keyword argument of a call.
type Keyword struct {
	Name  string
	Value *sitter.Node
}

// Item is one key/value entry of a mapping spelling.
// KeyOK is false when the key is not a string literal. Opaque marks an
// entry that cannot be resolved, such as **other, and may set any key.
type Item struct {
	Key    string
	KeyOK  bool
	Opaque bool
	Value  *sitter.Node
}

var opaque = Item{Opaque: true}

// NamedChildren returns the named children of n, skipping comments.
func NamedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	children := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == TypeComment {
			continue
		}
		children = append(children, child)
	}
	return children
}

// Unparen strips any enclosing parentheses.
func Unparen(n *sitter.Node) *sitter.Node {
	for n != nil && n.Type() == TypeParenthesized {
		inner := NamedChildren(n)
		if len(inner) != 1 {
			return n
		}
		n = inner[0]
	}
	return n
}

// Arguments returns the argument_list of a call, or nil when the call
// takes a bare generator expression.
func Arguments(call *sitter.Node) *sitter.Node {
	args := call.ChildByFieldName("arguments")
	if args == nil || args.Type() != "argument_list" {
		return nil
	}
	return args
}

// Keywords returns the keyword arguments of call in source order.
func (f *File) Keywords(call *sitter.Node) []Keyword {
	var kws []Keyword
	for _, arg := range NamedChildren(Arguments(call)) {
		if arg.Type() != TypeKeywordArgument {
			continue
		}
		name := arg.ChildByFieldName("name")
		value := arg.ChildByFieldName("value")
		if name == nil || value == nil {
			continue
		}
		kws = append(kws, Keyword{Name: f.Text(name), Value: value})
	}
	return kws
}

// Keyword returns the value of the last keyword argument called name.
func (f *File) Keyword(call *sitter.Node, name string) *sitter.Node {
	var value *sitter.Node
	for _, kw := range f.Keywords(call) {
		if kw.Name == name {
			value = kw.Value
		}
	}
	return value
}

// Positional returns the positional arguments of call.
func Positional(call *sitter.Node) []*sitter.Node {
	var args []*sitter.Node
	for _, arg := range NamedChildren(Arguments(call)) {
		switch arg.Type() {
		case TypeKeywordArgument, TypeDictionarySplat, TypeListSplat:
			continue
		}
		args = append(args, arg)
	}
	return args
}

// DictItems returns the entries of a mapping spelling: a dict literal or a
// dict(...) call, including mappings nested through positional arguments
// and ** splats. Entries that cannot be resolved are returned as Opaque
// items in their source position. ok is false when n is not such a
// spelling.
func (f *File) DictItems(n *sitter.Node) (items []Item, ok bool) {
	n = Unparen(n)
	if n == nil {
		return nil, false
	}

	switch n.Type() {
	case TypeDictionary:
		for _, child := range NamedChildren(n) {
			switch child.Type() {
			case "pair":
				item := Item{Value: child.ChildByFieldName("value")}
				c, ok := f.Literal(child.ChildByFieldName("key"))
				switch {
				case !ok:
					item.Opaque = true
				case c.Kind == Str:
					item.Key, item.KeyOK = c.Str, true
				}
				items = append(items, item)
			case TypeDictionarySplat:
				if nested, ok := f.DictItems(firstNamed(child)); ok {
					items = append(items, nested...)
				} else {
					items = append(items, opaque)
				}
			}
		}
		return items, true

	case TypeCall:
		fn := n.ChildByFieldName("function")
		if fn == nil || fn.Type() != TypeIdentifier || f.Text(fn) != "dict" {
			return nil, false
		}
		for _, arg := range NamedChildren(Arguments(n)) {
			switch arg.Type() {
			case TypeKeywordArgument:
				items = append(items, Item{
					Key:   f.Text(arg.ChildByFieldName("name")),
					KeyOK: true,
					Value: arg.ChildByFieldName("value"),
				})
			case TypeDictionarySplat:
				if nested, ok := f.DictItems(firstNamed(arg)); ok {
					items = append(items, nested...)
				} else {
					items = append(items, opaque)
				}
			case TypeListSplat:
				items = append(items, opaque)
			default:
				if nested, ok := f.DictItems(arg); ok {
					items = append(items, nested...)
				} else {
					items = append(items, opaque)
				}
			}
		}
		return items, true
	}

	return nil, false
}

// CallName returns the dotted source text of the called function.
func (f *File) CallName(call *sitter.Node) string {
	return f.Text(Unparen(call.ChildByFieldName("function")))
}

func firstNamed(n *sitter.Node) *sitter.Node {
	children := NamedChildren(n)
	if len(children) == 0 {
		return nil
	}
	return children[0]
}
