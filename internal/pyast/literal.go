package pyast

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// ConstKind is the kind of a literal constant.
type ConstKind int

const (
	Bool ConstKind = iota + 1
	None
	Int
	Float
	Str
)

// Const is a literal value with its Python truthiness.
type Const struct {
	Kind   ConstKind
	Bool   bool   // Bool only
	Str    string // Str only
	Truthy bool
}

// IsTrue reports whether c is exactly the literal True.
func (c Const) IsTrue() bool {
	return c.Kind == Bool && c.Bool
}

// Literal evaluates n when it is a literal constant.
func (f *File) Literal(n *sitter.Node) (Const, bool) {
	if n == nil {
		return Const{}, false
	}

	switch n.Type() {
	case "true":
		return Const{Kind: Bool, Bool: true, Truthy: true}, true
	case "false":
		return Const{Kind: Bool}, true
	case "none":
		return Const{Kind: None}, true
	case "integer":
		return Const{Kind: Int, Truthy: intTruthy(f.Text(n))}, true
	case "float":
		return Const{Kind: Float, Truthy: floatTruthy(f.Text(n))}, true
	case "string":
		s, ok := f.stringValue(n)
		if !ok {
			return Const{}, false
		}
		return Const{Kind: Str, Str: s, Truthy: s != ""}, true
	case "concatenated_string":
		var sb strings.Builder
		for _, part := range NamedChildren(n) {
			s, ok := f.stringValue(part)
			if !ok {
				return Const{}, false
			}
			sb.WriteString(s)
		}
		return Const{Kind: Str, Str: sb.String(), Truthy: sb.Len() > 0}, true
	case TypeParenthesized:
		inner := Unparen(n)
		if inner == n {
			return Const{}, false
		}
		return f.Literal(inner)
	case "unary_operator":
		op := n.ChildByFieldName("operator")
		if op == nil || (f.Text(op) != "-" && f.Text(op) != "+") {
			return Const{}, false
		}
		c, ok := f.Literal(n.ChildByFieldName("argument"))
		if !ok || (c.Kind != Int && c.Kind != Float) {
			return Const{}, false
		}
		return c, true
	case "not_operator":
		c, ok := f.Literal(n.ChildByFieldName("argument"))
		if !ok {
			return Const{}, false
		}
		return Const{Kind: Bool, Bool: !c.Truthy, Truthy: !c.Truthy}, true
	}

	return Const{}, false
}

// stringValue decodes a single string literal. f-strings with
// interpolations are not constant.
func (f *File) stringValue(n *sitter.Node) (string, bool) {
	if n.Type() != "string" {
		return "", false
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if n.NamedChild(i).Type() == "interpolation" {
			return "", false
		}
	}

	text := f.Text(n)
	i := strings.IndexAny(text, `'"`)
	if i < 0 {
		return "", false
	}
	prefix := strings.ToLower(text[:i])
	body := text[i:]

	quote := body[:1]
	if strings.HasPrefix(body, strings.Repeat(quote, 3)) && len(body) >= 6 {
		quote = strings.Repeat(quote, 3)
	}
	if len(body) < 2*len(quote) || !strings.HasSuffix(body, quote) {
		return "", false
	}
	body = body[len(quote) : len(body)-len(quote)]

	if strings.Contains(prefix, "r") {
		return body, true
	}
	return unescape(body), true
}

var escapes = map[byte]string{
	'\\': `\`, '\'': `'`, '"': `"`, 'n': "\n", 't': "\t",
	'r': "\r", '0': "\x00", 'a': "\a", 'b': "\b", 'f': "\f", 'v': "\v",
	'\n': "",
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			sb.WriteByte(s[i])
			continue
		}
		if r, ok := escapes[s[i+1]]; ok {
			sb.WriteString(r)
			i++
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

func intTruthy(text string) bool {
	text = strings.ToLower(strings.ReplaceAll(text, "_", ""))
	text = strings.TrimRight(text, "jl")
	if len(text) > 1 && text[0] == '0' && strings.ContainsAny(text[1:2], "xob") {
		text = text[2:]
	}
	return strings.Trim(text, "0") != ""
}

func floatTruthy(text string) bool {
	text = strings.ToLower(strings.ReplaceAll(text, "_", ""))
	text = strings.TrimSuffix(text, "j")
	// ParseFloat returns ±Inf or 0 together with ErrRange, both usable here.
	v, _ := strconv.ParseFloat(text, 64)
	return v != 0
}
