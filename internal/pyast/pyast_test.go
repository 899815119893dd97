package pyast_test

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpyw/sentrystack/internal/pyast"
)

func parse(t *testing.T, src string) *pyast.File {
	t.Helper()

	f, err := pyast.Parse(context.Background(), "source.py", []byte(src))
	require.NoError(t, err)
	t.Cleanup(f.Close)

	return f
}

func firstOfType(n *sitter.Node, typ string) *sitter.Node {
	if n.Type() == typ {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if found := firstOfType(n.Child(i), typ); found != nil {
			return found
		}
	}
	return nil
}

func TestParseSyntaxError(t *testing.T) {
	_, err := pyast.Parse(context.Background(), "broken.py", []byte("def f(:\n    pass\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, pyast.ErrSyntax)
	assert.Contains(t, err.Error(), "broken.py:1:")
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		expr   string
		kind   pyast.ConstKind
		truthy bool
	}{
		{"True", pyast.Bool, true},
		{"False", pyast.Bool, false},
		{"None", pyast.None, false},
		{"1", pyast.Int, true},
		{"0", pyast.Int, false},
		{"0x0", pyast.Int, false},
		{"0b10", pyast.Int, true},
		{"1_000", pyast.Int, true},
		{"-1", pyast.Int, true},
		{"0.0", pyast.Float, false},
		{"1e3", pyast.Float, true},
		{"'yes'", pyast.Str, true},
		{"''", pyast.Str, false},
		{`"a" "b"`, pyast.Str, true},
		{"(True)", pyast.Bool, true},
		{"not 0", pyast.Bool, true},
		{"not True", pyast.Bool, false},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			f := parse(t, "x = "+tt.expr+"\n")
			assign := firstOfType(f.Root(), "assignment")
			require.NotNil(t, assign)

			c, ok := f.Literal(assign.ChildByFieldName("right"))
			require.True(t, ok)
			assert.Equal(t, tt.kind, c.Kind)
			assert.Equal(t, tt.truthy, c.Truthy)
		})
	}
}

func TestLiteralNonConstant(t *testing.T) {
	for _, expr := range []string{"e", "f'{e}'", "foo()", "[1]", "~1"} {
		t.Run(expr, func(t *testing.T) {
			f := parse(t, "x = "+expr+"\n")
			assign := firstOfType(f.Root(), "assignment")
			require.NotNil(t, assign)

			_, ok := f.Literal(assign.ChildByFieldName("right"))
			assert.False(t, ok)
		})
	}
}

func TestStringValue(t *testing.T) {
	tests := map[string]string{
		`'stack'`:       "stack",
		`"stack"`:       "stack",
		`'''stack'''`:   "stack",
		`r'a\nb'`:       `a\nb`,
		`'a\'b'`:        `a'b`,
		`u'stack'`:      "stack",
		`'st' 'ack'`:    "stack",
		`"""st"""'ack'`: "stack",
	}

	for expr, want := range tests {
		t.Run(expr, func(t *testing.T) {
			f := parse(t, "x = "+expr+"\n")
			assign := firstOfType(f.Root(), "assignment")
			require.NotNil(t, assign)

			c, ok := f.Literal(assign.ChildByFieldName("right"))
			require.True(t, ok)
			assert.Equal(t, want, c.Str)
		})
	}
}

func TestKeywords(t *testing.T) {
	f := parse(t, "logger.warn('foo', e, exc_info=True, extra={'stack': True}, **kw)\n")
	call := firstOfType(f.Root(), pyast.TypeCall)
	require.NotNil(t, call)

	kws := f.Keywords(call)
	require.Len(t, kws, 2)
	assert.Equal(t, "exc_info", kws[0].Name)
	assert.Equal(t, "extra", kws[1].Name)
	assert.Len(t, pyast.Positional(call), 2)
	assert.Equal(t, "logger.warn", f.CallName(call))
	assert.Nil(t, f.Keyword(call, "stack_info"))
}

func TestDictItems(t *testing.T) {
	tests := []struct {
		expr string
		ok   bool
		keys []string
	}{
		{"{}", true, nil},
		{"{'stack': True, 'other': 1}", true, []string{"stack", "other"}},
		{"dict()", true, nil},
		{"dict(stack=True)", true, []string{"stack"}},
		{"dict({'stack': True}, other=1)", true, []string{"stack", "other"}},
		{"dict(**{'stack': True})", true, []string{"stack"}},
		{"{**{'stack': True}}", true, []string{"stack"}},
		{"{'stack': True, **other}", true, []string{"stack", "*"}},
		{"{key: 1, 2: 3}", true, []string{"*"}},
		{"dict(other, stack=True)", true, []string{"*", "stack"}},
		{"dict(*pairs, **kw)", true, []string{"*", "*"}},
		{"True", false, nil},
		{"extra", false, nil},
		{"OrderedDict(stack=True)", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			f := parse(t, "x = "+tt.expr+"\n")
			assign := firstOfType(f.Root(), "assignment")
			require.NotNil(t, assign)

			items, ok := f.DictItems(assign.ChildByFieldName("right"))
			assert.Equal(t, tt.ok, ok)

			// "*" stands for an entry that may set any key.
			var keys []string
			for _, item := range items {
				switch {
				case item.Opaque:
					keys = append(keys, "*")
				case item.KeyOK:
					keys = append(keys, item.Key)
				}
			}
			assert.Equal(t, tt.keys, keys)
		})
	}
}

func TestIsGenerated(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want bool
	}{
		{"code generated header", "# Code generated by protoc. DO NOT EDIT.\nx = 1\n", true},
		{"at-generated marker", "#!/usr/bin/env python\n# @generated\nx = 1\n", true},
		{"plain file", "# just a comment\nx = 1\n", false},
		{"marker after code", "x = 1\n# @generated\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parse(t, tt.src).IsGenerated())
		})
	}
}

func TestComments(t *testing.T) {
	f := parse(t, "# one\nx = 1  # two\ndef f():\n    # three\n    pass\n")

	var texts []string
	for _, c := range f.Comments() {
		texts = append(texts, f.Text(c))
	}
	assert.Equal(t, []string{"# one", "# two", "# three"}, texts)
}
