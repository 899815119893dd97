package inference

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/mpyw/sentrystack/internal/pyast"
)

type scopeKind int

const (
	moduleScope scopeKind = iota
	functionScope
	classScope
)

type bindingKind int

const (
	bindOpaque bindingKind = iota // target of for/with/except/augmented assignment
	bindAssign
	bindAnnotation
	bindImport
	bindImportFrom
	bindDef
	bindClass
	bindParam
	bindSelf
)

// binding is one place a name is bound within a scope.
type binding struct {
	kind bindingKind

	value      *sitter.Node // bindAssign, bindParam (default value)
	annotation *sitter.Node // bindAssign, bindAnnotation, bindParam
	def        *sitter.Node // bindDef, bindClass, bindSelf (enclosing class)
	module     string       // bindImport, bindImportFrom
	member     string       // bindImportFrom
	classLevel bool         // bindSelf: cls of a classmethod
}

type scope struct {
	kind     scopeKind
	node     *sitter.Node
	parent   *scope
	bindings map[string][]binding
	globals  map[string]bool
	nonlocal map[string]bool

	// Set on methods: the enclosing class and the name of the first
	// parameter (self or cls).
	class    *sitter.Node
	selfName string
}

func newScope(kind scopeKind, node *sitter.Node, parent *scope) *scope {
	return &scope{
		kind:     kind,
		node:     node,
		parent:   parent,
		bindings: make(map[string][]binding),
		globals:  make(map[string]bool),
		nonlocal: make(map[string]bool),
	}
}

// bind records b in the scope that owns name: the module for global
// names, the nearest enclosing function for nonlocal ones.
func (s *scope) bind(name string, b binding) {
	owner := s
	switch {
	case s.globals[name]:
		for owner.parent != nil {
			owner = owner.parent
		}
	case s.nonlocal[name]:
		for p := s.parent; p != nil; p = p.parent {
			if p.kind == functionScope {
				owner = p
				break
			}
		}
	}
	owner.bindings[name] = append(owner.bindings[name], b)
}

// builder walks a module once and records scopes and bindings.
type builder struct {
	file      *pyast.File
	scopes    map[nodeKey]*scope
	instAttrs map[nodeKey]map[string][]*sitter.Node // class -> self.<attr> values
}

func (b *builder) build() *scope {
	root := newScope(moduleScope, b.file.Root(), nil)
	b.scopes[keyOf(b.file.Root())] = root
	b.walk(b.file.Root(), root)
	return root
}

// walk visits the statements of sc, descending into nested scopes through
// enterFunction and enterClass.
func (b *builder) walk(n *sitter.Node, sc *scope) {
	switch n.Type() {
	case pyast.TypeFunctionDef:
		if name := n.ChildByFieldName("name"); name != nil {
			sc.bind(b.file.Text(name), binding{kind: bindDef, def: n})
		}
		b.walkOuterParts(n, sc)
		b.enterFunction(n, sc)
		return

	case pyast.TypeClassDef:
		if name := n.ChildByFieldName("name"); name != nil {
			sc.bind(b.file.Text(name), binding{kind: bindClass, def: n})
		}
		if supers := n.ChildByFieldName("superclasses"); supers != nil {
			b.walk(supers, sc)
		}
		b.enterClass(n, sc)
		return

	case "lambda":
		lam := newScope(functionScope, n, sc)
		b.scopes[keyOf(n)] = lam
		for _, p := range pyast.NamedChildren(n.ChildByFieldName("parameters")) {
			if name := paramName(b.file, p); name != "" {
				lam.bind(name, binding{kind: bindOpaque})
			}
		}
		if body := n.ChildByFieldName("body"); body != nil {
			b.walk(body, lam)
		}
		return

	case "list_comprehension", "set_comprehension", "dictionary_comprehension", "generator_expression":
		// Comprehension targets live in their own scope and are not modeled.
		return

	case "assignment":
		b.bindAssignment(n, sc)

	case "augmented_assignment":
		b.bindTargets(n.ChildByFieldName("left"), sc, binding{kind: bindOpaque})

	case "named_expression":
		if name := n.ChildByFieldName("name"); name != nil {
			sc.bind(b.file.Text(name), binding{kind: bindAssign, value: n.ChildByFieldName("value")})
		}

	case "for_statement":
		b.bindTargets(n.ChildByFieldName("left"), sc, binding{kind: bindOpaque})

	case "with_item":
		b.bindWithItem(n, sc)

	case pyast.TypeExceptClause, pyast.TypeExceptGroupClause:
		b.bindExceptAlias(n, sc)

	case "import_statement":
		b.bindImport(n, sc)
		return

	case "import_from_statement":
		b.bindImportFrom(n, sc)
		return

	case "global_statement":
		for _, id := range pyast.NamedChildren(n) {
			sc.globals[b.file.Text(id)] = true
		}
		return

	case "nonlocal_statement":
		for _, id := range pyast.NamedChildren(n) {
			sc.nonlocal[b.file.Text(id)] = true
		}
		return
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		b.walk(n.NamedChild(i), sc)
	}
}

// walkOuterParts visits the parts of a def evaluated in the enclosing
// scope: decorators are handled by the decorated_definition, defaults and
// annotations here.
func (b *builder) walkOuterParts(fn *sitter.Node, sc *scope) {
	for _, p := range pyast.NamedChildren(fn.ChildByFieldName("parameters")) {
		for _, field := range []string{"value", "type"} {
			if part := p.ChildByFieldName(field); part != nil {
				b.walk(part, sc)
			}
		}
	}
	if ret := fn.ChildByFieldName("return_type"); ret != nil {
		b.walk(ret, sc)
	}
}

func (b *builder) enterFunction(fn *sitter.Node, outer *scope) {
	sc := newScope(functionScope, fn, outer)
	b.scopes[keyOf(fn)] = sc

	class, decorators := enclosingClass(b.file, fn)
	params := pyast.NamedChildren(fn.ChildByFieldName("parameters"))

	for i, p := range params {
		name := paramName(b.file, p)
		if name == "" {
			continue
		}

		if i == 0 && class != nil && !decorators["staticmethod"] {
			sc.class = class
			sc.selfName = name
			sc.bind(name, binding{kind: bindSelf, def: class, classLevel: decorators["classmethod"]})
			continue
		}

		switch p.Type() {
		case pyast.TypeIdentifier:
			sc.bind(name, binding{kind: bindParam})
		case "typed_parameter", "default_parameter", "typed_default_parameter":
			sc.bind(name, binding{
				kind:       bindParam,
				value:      p.ChildByFieldName("value"),
				annotation: p.ChildByFieldName("type"),
			})
		default:
			sc.bind(name, binding{kind: bindOpaque})
		}
	}

	if body := fn.ChildByFieldName("body"); body != nil {
		b.walk(body, sc)
	}
}

func (b *builder) enterClass(class *sitter.Node, outer *scope) {
	sc := newScope(classScope, class, outer)
	b.scopes[keyOf(class)] = sc

	if body := class.ChildByFieldName("body"); body != nil {
		b.walk(body, sc)
	}
}

func (b *builder) bindAssignment(n *sitter.Node, sc *scope) {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	annotation := n.ChildByFieldName("type")

	if left == nil {
		return
	}

	left = pyast.Unparen(left)
	switch left.Type() {
	case pyast.TypeIdentifier:
		kind := bindAssign
		if right == nil {
			kind = bindAnnotation
		}
		sc.bind(b.file.Text(left), binding{kind: kind, value: right, annotation: annotation})

	case pyast.TypeAttribute:
		obj := left.ChildByFieldName("object")
		attr := left.ChildByFieldName("attribute")
		if right == nil || obj == nil || attr == nil || sc.class == nil {
			return
		}
		if obj.Type() != pyast.TypeIdentifier || b.file.Text(obj) != sc.selfName {
			return
		}
		attrs := b.instAttrs[keyOf(sc.class)]
		if attrs == nil {
			attrs = make(map[string][]*sitter.Node)
			b.instAttrs[keyOf(sc.class)] = attrs
		}
		name := b.file.Text(attr)
		attrs[name] = append(attrs[name], right)

	default:
		b.bindTargets(left, sc, binding{kind: bindOpaque})
	}
}

// bindTargets binds every identifier in an unpacking target.
func (b *builder) bindTargets(target *sitter.Node, sc *scope, bnd binding) {
	if target == nil {
		return
	}
	switch target.Type() {
	case pyast.TypeIdentifier:
		sc.bind(b.file.Text(target), bnd)
	case "pattern_list", "tuple_pattern", "list_pattern", "tuple", "list",
		"list_splat_pattern", pyast.TypeParenthesized:
		for _, child := range pyast.NamedChildren(target) {
			b.bindTargets(child, sc, bnd)
		}
	}
}

func (b *builder) bindWithItem(n *sitter.Node, sc *scope) {
	value := n.ChildByFieldName("value")
	if value == nil || value.Type() != "as_pattern" {
		return
	}
	for _, child := range pyast.NamedChildren(value) {
		if child.Type() == "as_pattern_target" {
			for _, target := range pyast.NamedChildren(child) {
				b.bindTargets(target, sc, binding{kind: bindOpaque})
			}
		}
	}
}

func (b *builder) bindExceptAlias(n *sitter.Node, sc *scope) {
	if _, name := ExceptTarget(b.file, n); name != "" {
		sc.bind(name, binding{kind: bindOpaque})
	}
}

func (b *builder) bindImport(n *sitter.Node, sc *scope) {
	for _, child := range pyast.NamedChildren(n) {
		switch child.Type() {
		case "dotted_name":
			path := b.file.Text(child)
			top, _, _ := strings.Cut(path, ".")
			sc.bind(top, binding{kind: bindImport, module: top})
		case "aliased_import":
			name := child.ChildByFieldName("name")
			alias := child.ChildByFieldName("alias")
			if name != nil && alias != nil {
				sc.bind(b.file.Text(alias), binding{kind: bindImport, module: b.file.Text(name)})
			}
		}
	}
}

func (b *builder) bindImportFrom(n *sitter.Node, sc *scope) {
	modNode := n.ChildByFieldName("module_name")
	if modNode == nil {
		return
	}
	module := b.file.Text(modNode)

	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if keyOf(child) == keyOf(modNode) {
			continue
		}
		switch child.Type() {
		case "dotted_name":
			member := b.file.Text(child)
			sc.bind(member, binding{kind: bindImportFrom, module: module, member: member})
		case "aliased_import":
			name := child.ChildByFieldName("name")
			alias := child.ChildByFieldName("alias")
			if name != nil && alias != nil {
				sc.bind(b.file.Text(alias), binding{kind: bindImportFrom, module: module, member: b.file.Text(name)})
			}
		}
	}
}

// ExceptTarget returns the exception type expression and the bound name of
// an except clause. Both are empty for a bare "except:". The name is empty
// when the handler does not bind the exception. It accepts the
// "except E as e" shapes of every grammar revision and the legacy
// "except E, e" spelling.
func ExceptTarget(f *pyast.File, clause *sitter.Node) (typ *sitter.Node, name string) {
	var parts []*sitter.Node
	for _, child := range pyast.NamedChildren(clause) {
		if child.Type() == pyast.TypeBlock {
			break
		}
		parts = append(parts, child)
	}

	if len(parts) == 0 {
		return nil, ""
	}

	if parts[0].Type() == "as_pattern" {
		inner := pyast.NamedChildren(parts[0])
		if len(inner) == 0 {
			return nil, ""
		}
		typ = inner[0]
		if alias := parts[0].ChildByFieldName("alias"); alias != nil {
			return typ, identifierIn(f, alias)
		}
		for _, c := range inner[1:] {
			if c.Type() == "as_pattern_target" {
				return typ, identifierIn(f, c)
			}
		}
		return typ, ""
	}

	typ = parts[0]
	if len(parts) >= 2 {
		return typ, identifierIn(f, parts[1])
	}
	return typ, ""
}

// identifierIn returns the identifier n is or wraps, or "".
func identifierIn(f *pyast.File, n *sitter.Node) string {
	if n.Type() == pyast.TypeIdentifier {
		return f.Text(n)
	}
	children := pyast.NamedChildren(n)
	if len(children) == 1 {
		return identifierIn(f, children[0])
	}
	return ""
}

// paramName returns the name declared by a parameter node.
func paramName(f *pyast.File, p *sitter.Node) string {
	switch p.Type() {
	case pyast.TypeIdentifier:
		return f.Text(p)
	case "default_parameter", "typed_default_parameter":
		if name := p.ChildByFieldName("name"); name != nil {
			return f.Text(name)
		}
	case "typed_parameter", "list_splat_pattern", "dictionary_splat_pattern":
		for _, child := range pyast.NamedChildren(p) {
			if child.Type() == pyast.TypeIdentifier {
				return f.Text(child)
			}
		}
	}
	return ""
}

// enclosingClass returns the class whose body directly contains fn, and
// the names of fn's decorators.
func enclosingClass(f *pyast.File, fn *sitter.Node) (*sitter.Node, map[string]bool) {
	decorators := make(map[string]bool)

	n := fn.Parent()
	if n != nil && n.Type() == pyast.TypeDecoratedDef {
		for _, child := range pyast.NamedChildren(n) {
			if child.Type() == "decorator" {
				decorators[strings.TrimSpace(strings.TrimPrefix(f.Text(child), "@"))] = true
			}
		}
		n = n.Parent()
	}

	if n == nil || n.Type() != pyast.TypeBlock {
		return nil, decorators
	}
	if class := n.Parent(); class != nil && class.Type() == pyast.TypeClassDef {
		return class, decorators
	}
	return nil, decorators
}
