// Package inference resolves Python expressions to the values they denote,
// well enough to tell whether a receiver is a logging.Logger.
package inference

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/mpyw/sentrystack/internal/pyast"
	"github.com/mpyw/sentrystack/internal/typeutil"
)

const maxDepth = 64

// Inferrer infers values within a single file. It is not safe for
// concurrent use.
type Inferrer struct {
	file       *pyast.File
	module     string
	classes    []typeutil.Class
	scopes     map[nodeKey]*scope
	instAttrs  map[nodeKey]map[string][]*sitter.Node
	inProgress map[nodeKey]bool
	depth      int
}

// New builds the scopes of f. classes lists extra classes treated as
// logging facilities, on top of logging.Logger.
func New(f *pyast.File, classes []typeutil.Class) *Inferrer {
	b := &builder{
		file:      f,
		scopes:    make(map[nodeKey]*scope),
		instAttrs: make(map[nodeKey]map[string][]*sitter.Node),
	}
	b.build()

	return &Inferrer{
		file:       f,
		module:     moduleName(f.Name),
		classes:    classes,
		scopes:     b.scopes,
		instAttrs:  b.instAttrs,
		inProgress: make(map[nodeKey]bool),
	}
}

// Infer returns the value n evaluates to, or an Unknown value.
func (in *Inferrer) Infer(n *sitter.Node) Value {
	v := in.infer(n)
	if !v.Known() {
		return unknown
	}
	return v
}

func (in *Inferrer) infer(n *sitter.Node) Value {
	if n == nil {
		return unknown
	}

	k := keyOf(n)
	if in.inProgress[k] {
		return Value{Kind: cyclic}
	}
	if in.depth >= maxDepth {
		return unknown
	}

	in.inProgress[k] = true
	in.depth++
	defer func() {
		delete(in.inProgress, k)
		in.depth--
	}()

	switch n.Type() {
	case pyast.TypeIdentifier:
		return in.inferName(in.file.Text(n), in.scopeOf(n))
	case pyast.TypeAttribute:
		return in.inferAttribute(n)
	case pyast.TypeCall:
		return in.inferCall(n)
	case pyast.TypeParenthesized:
		if inner := pyast.Unparen(n); inner != n {
			return in.infer(inner)
		}
	case "assignment":
		return in.infer(n.ChildByFieldName("right"))
	case "named_expression":
		return in.infer(n.ChildByFieldName("value"))
	case "conditional_expression":
		branches := pyast.NamedChildren(n)
		if len(branches) == 3 {
			return merge([]Value{in.infer(branches[0]), in.infer(branches[2])})
		}
	case "type":
		if inner := pyast.NamedChildren(n); len(inner) == 1 {
			return in.infer(inner[0])
		}
	case "string":
		// Forward-reference annotations such as "logging.Logger" are not parsed.
	}

	return unknown
}

// scopeOf returns the innermost scope whose body contains n.
func (in *Inferrer) scopeOf(n *sitter.Node) *scope {
	for p := n.Parent(); p != nil; p = p.Parent() {
		switch p.Type() {
		case pyast.TypeFunctionDef, pyast.TypeClassDef, "lambda":
			body := p.ChildByFieldName("body")
			if body != nil && contains(body, n) {
				if sc := in.scopes[keyOf(p)]; sc != nil {
					return sc
				}
			}
		case "module":
			return in.scopes[keyOf(p)]
		}
	}
	return in.scopes[keyOf(in.file.Root())]
}

func (in *Inferrer) inferName(name string, sc *scope) Value {
	bindings := lookup(name, sc)
	if len(bindings) == 0 {
		return unknown
	}

	values := make([]Value, 0, len(bindings))
	for _, b := range bindings {
		values = append(values, in.bindingValue(b))
	}
	return merge(values)
}

// lookup resolves name following Python's LEGB rules. Class scopes are
// only visible to code directly in the class body.
func lookup(name string, sc *scope) []binding {
	if sc == nil {
		return nil
	}

	if sc.globals[name] {
		for sc.parent != nil {
			sc = sc.parent
		}
		return sc.bindings[name]
	}

	if !sc.nonlocal[name] {
		if bs := sc.bindings[name]; len(bs) > 0 {
			return bs
		}
	}

	for p := sc.parent; p != nil; p = p.parent {
		if p.kind == classScope {
			continue
		}
		if bs := p.bindings[name]; len(bs) > 0 {
			return bs
		}
	}

	return nil
}

func (in *Inferrer) bindingValue(b binding) Value {
	switch b.kind {
	case bindAssign:
		v := in.infer(b.value)
		if !v.Known() && b.annotation != nil {
			if ann := in.annotationValue(b.annotation); ann.Known() {
				return ann
			}
		}
		return v

	case bindAnnotation:
		return in.annotationValue(b.annotation)

	case bindImport:
		return Value{Kind: Module, QualName: b.module}

	case bindImportFrom:
		if b.module == loggingModule {
			return loggingMember(b.member)
		}
		return Value{Kind: External, QualName: b.module + "." + b.member}

	case bindDef:
		return Value{Kind: Function, QualName: in.qualName(b.def), Def: b.def}

	case bindClass:
		return Value{Kind: Class, QualName: in.qualName(b.def), Def: b.def}

	case bindSelf:
		class := Value{Kind: Class, QualName: in.qualName(b.def), Def: b.def}
		if b.classLevel {
			return class
		}
		return instanceOf(class)

	case bindParam:
		if b.annotation != nil {
			if v := in.annotationValue(b.annotation); v.Known() {
				return v
			}
		}
		if b.value != nil {
			return in.infer(b.value)
		}
	}

	return unknown
}

// annotationValue interprets a type annotation: a class annotation means
// an instance of that class.
func (in *Inferrer) annotationValue(ann *sitter.Node) Value {
	v := in.infer(ann)
	switch v.Kind {
	case Class:
		return instanceOf(v)
	case External:
		if typeutil.IsClass(v.QualName, in.classes) {
			return Value{Kind: Instance, QualName: v.QualName}
		}
	case cyclic:
		return v
	}
	return unknown
}

func (in *Inferrer) inferAttribute(n *sitter.Node) Value {
	objNode := n.ChildByFieldName("object")
	attrNode := n.ChildByFieldName("attribute")
	if objNode == nil || attrNode == nil {
		return unknown
	}
	attr := in.file.Text(attrNode)

	obj := in.infer(objNode)
	switch obj.Kind {
	case cyclic:
		return obj

	case Module:
		if obj.QualName == loggingModule {
			return loggingMember(attr)
		}
		if strings.HasPrefix(obj.QualName, loggingModule+".") {
			return unknown
		}
		return Value{Kind: External, QualName: obj.QualName + "." + attr}

	case External:
		return Value{Kind: External, QualName: obj.QualName + "." + attr}

	case Class:
		if obj.Def == nil {
			return unknown
		}
		return in.classAttribute(obj.Def, attr, false, 0)

	case Instance:
		if obj.Def != nil {
			if v := in.classAttribute(obj.Def, attr, true, 0); v.Kind != Unknown {
				return v
			}
		}
		if in.IsLogger(obj) {
			return loggerMethod(attr)
		}
	}

	return unknown
}

// classAttribute looks attr up on an in-file class and its in-file bases.
func (in *Inferrer) classAttribute(class *sitter.Node, attr string, instance bool, depth int) Value {
	if depth > maxDepth {
		return unknown
	}

	var values []Value

	if instance {
		for _, value := range in.instAttrs[keyOf(class)][attr] {
			values = append(values, in.infer(value))
		}
	}

	if sc := in.scopes[keyOf(class)]; sc != nil {
		for _, b := range sc.bindings[attr] {
			values = append(values, in.bindingValue(b))
		}
	}

	if len(values) > 0 {
		return merge(values)
	}

	for _, base := range in.bases(class) {
		if base.Def == nil {
			continue
		}
		if v := in.classAttribute(base.Def, attr, instance, depth+1); v.Kind != Unknown {
			return v
		}
	}

	return unknown
}

func (in *Inferrer) inferCall(n *sitter.Node) Value {
	fn := in.infer(n.ChildByFieldName("function"))

	switch fn.Kind {
	case cyclic:
		return fn

	case Function:
		if fn.Def == nil {
			return loggingCall(fn.QualName)
		}
		return in.returnValue(fn.Def)

	case Class:
		return instanceOf(fn)

	case External:
		if typeutil.IsClass(fn.QualName, in.classes) {
			return Value{Kind: Instance, QualName: fn.QualName}
		}
	}

	return unknown
}

// returnValue merges the values of every return statement of an in-file
// function. Nested functions and classes are not searched.
func (in *Inferrer) returnValue(def *sitter.Node) Value {
	body := def.ChildByFieldName("body")
	if body == nil {
		return unknown
	}

	var values []Value

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case pyast.TypeFunctionDef, pyast.TypeClassDef, "lambda":
			return
		case "return_statement":
			children := pyast.NamedChildren(n)
			if len(children) == 0 {
				values = append(values, unknown)
				return
			}
			values = append(values, in.infer(children[0]))
			return
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(body)

	if len(values) == 0 {
		return unknown
	}
	return merge(values)
}

// bases returns the inferred base classes of an in-file class.
func (in *Inferrer) bases(class *sitter.Node) []Value {
	var out []Value
	for _, arg := range pyast.NamedChildren(class.ChildByFieldName("superclasses")) {
		if arg.Type() == pyast.TypeKeywordArgument {
			continue
		}
		if v := in.infer(arg); v.Kind == Class || v.Kind == External {
			out = append(out, v)
		}
	}
	return out
}

// IsLogger reports whether v is an instance of a logging facility class:
// logging.Logger, its standard subclasses, in-file subclasses of those, or
// a configured extra class.
func (in *Inferrer) IsLogger(v Value) bool {
	if v.Kind != Instance {
		return false
	}
	return in.isLoggerClass(v, 0)
}

func (in *Inferrer) isLoggerClass(c Value, depth int) bool {
	if depth > maxDepth {
		return false
	}
	if c.Def == nil {
		return isStdLoggerClass(c.QualName) || typeutil.IsClass(c.QualName, in.classes)
	}
	for _, base := range in.bases(c.Def) {
		if in.isLoggerClass(base, depth+1) {
			return true
		}
	}
	return false
}

func (in *Inferrer) qualName(def *sitter.Node) string {
	var parts []string
	for n := def; n != nil; n = n.Parent() {
		switch n.Type() {
		case pyast.TypeFunctionDef, pyast.TypeClassDef:
			if name := n.ChildByFieldName("name"); name != nil {
				parts = append(parts, in.file.Text(name))
			}
		}
	}
	parts = append(parts, in.module)

	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

func moduleName(filename string) string {
	base := filepath.Base(filename)
	name := strings.TrimSuffix(strings.TrimSuffix(base, ".py"), ".pyi")
	if name == "__init__" {
		return filepath.Base(filepath.Dir(filename))
	}
	return name
}

func contains(outer, inner *sitter.Node) bool {
	return inner.StartByte() >= outer.StartByte() && inner.EndByte() <= outer.EndByte()
}
