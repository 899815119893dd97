package inference_test

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpyw/sentrystack/internal/inference"
	"github.com/mpyw/sentrystack/internal/pyast"
	"github.com/mpyw/sentrystack/internal/typeutil"
)

// receiver returns the receiver expression of the last call spelled callName.
func receiver(t *testing.T, f *pyast.File, callName string) *sitter.Node {
	t.Helper()

	var found *sitter.Node

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == pyast.TypeCall && f.CallName(n) == callName {
			found = pyast.Unparen(n.ChildByFieldName("function")).ChildByFieldName("object")
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(f.Root())

	require.NotNil(t, found, "call %s not found", callName)
	return found
}

func parse(t *testing.T, src string) *pyast.File {
	t.Helper()

	f, err := pyast.Parse(context.Background(), "source.py", []byte(src))
	require.NoError(t, err)
	t.Cleanup(f.Close)

	return f
}

func TestIsLogger(t *testing.T) {
	tests := []struct {
		name string
		src  string
		call string
		want bool
	}{
		{
			name: "module level getLogger",
			src:  "import logging\nlogger = logging.getLogger(__name__)\nlogger.warn('x')\n",
			call: "logger.warn",
			want: true,
		},
		{
			name: "aliased module import",
			src:  "import logging as lg\nlog = lg.getLogger()\nlog.info('x')\n",
			call: "log.info",
			want: true,
		},
		{
			name: "submodule import binds package",
			src:  "import logging.config\nlog = logging.getLogger()\nlog.info('x')\n",
			call: "log.info",
			want: true,
		},
		{
			name: "from import getLogger",
			src:  "from logging import getLogger as gl\nlog = gl('app')\nlog.error('x')\n",
			call: "log.error",
			want: true,
		},
		{
			name: "root logger attribute",
			src:  "import logging\nlogging.root.info('x')\n",
			call: "logging.root.info",
			want: true,
		},
		{
			name: "logging module itself is not a logger",
			src:  "import logging\nlogging.info('x')\n",
			call: "logging.info",
			want: false,
		},
		{
			name: "logger used inside function",
			src:  "import logging\nlogger = logging.getLogger()\ndef f():\n    logger.info('x')\n",
			call: "logger.info",
			want: true,
		},
		{
			name: "local shadowing with decoy",
			src: "import logging\nlogger = logging.getLogger()\nclass Other:\n    def info(s, *a, **k):\n        pass\n" +
				"def f():\n    logger = Other()\n    logger.info('x')\n",
			call: "logger.info",
			want: false,
		},
		{
			name: "decoy instance",
			src:  "class Other():\n    def info(s, *a, **k):\n        pass\nOther().info('foo')\n",
			call: "Other().info",
			want: false,
		},
		{
			name: "undefined receiver",
			src:  "undefined.info('foo')\n",
			call: "undefined.info",
			want: false,
		},
		{
			name: "instance attribute assigned in __init__",
			src: "import logging\nclass Service:\n    def __init__(self):\n        self.log = logging.getLogger('svc')\n" +
				"    def run(self):\n        self.log.warning('x')\n",
			call: "self.log.warning",
			want: true,
		},
		{
			name: "class attribute",
			src:  "import logging\nclass Service:\n    log = logging.getLogger()\n    def run(self):\n        self.log.info('x')\n",
			call: "self.log.info",
			want: true,
		},
		{
			name: "class body names are not visible in methods",
			src:  "import logging\nclass Service:\n    log = logging.getLogger()\n    def run(self):\n        log.info('x')\n",
			call: "log.info",
			want: false,
		},
		{
			name: "in-file subclass of Logger",
			src:  "import logging\nclass AppLogger(logging.Logger):\n    pass\nlog = AppLogger('app')\nlog.error('x')\n",
			call: "log.error",
			want: true,
		},
		{
			name: "self inside a Logger subclass",
			src:  "import logging\nclass AppLogger(logging.Logger):\n    def fail(self):\n        self.error('x')\n",
			call: "self.error",
			want: true,
		},
		{
			name: "annotated parameter",
			src:  "import logging\ndef f(log: logging.Logger):\n    log.info('x')\n",
			call: "log.info",
			want: true,
		},
		{
			name: "default parameter value",
			src:  "import logging\ndef f(log=logging.getLogger()):\n    log.info('x')\n",
			call: "log.info",
			want: true,
		},
		{
			name: "annotated assignment without value",
			src:  "import logging\nlog: logging.Logger\nlog.info('x')\n",
			call: "log.info",
			want: true,
		},
		{
			name: "unannotated parameter",
			src:  "def f(log):\n    log.info('x')\n",
			call: "log.info",
			want: false,
		},
		{
			name: "function return value",
			src:  "import logging\ndef get():\n    return logging.getLogger()\nget().info('x')\n",
			call: "get().info",
			want: true,
		},
		{
			name: "ambiguous bindings",
			src: "import logging\nclass Other:\n    pass\nif cond:\n    log = logging.getLogger()\nelse:\n    log = Other()\n" +
				"log.info('x')\n",
			call: "log.info",
			want: false,
		},
		{
			name: "rebinding through getChild",
			src:  "import logging\nlogger = logging.getLogger()\nlogger = logger.getChild('sub')\nlogger.info('x')\n",
			call: "logger.info",
			want: true,
		},
		{
			name: "getLoggerClass instance",
			src:  "import logging\nlog = logging.getLoggerClass()('app')\nlog.info('x')\n",
			call: "log.info",
			want: true,
		},
		{
			name: "LoggerAdapter is not a Logger",
			src:  "import logging\nlog = logging.LoggerAdapter(logging.getLogger(), {})\nlog.info('x')\n",
			call: "log.info",
			want: false,
		},
		{
			name: "global declaration",
			src:  "import logging\ndef setup():\n    global log\n    log = logging.getLogger()\ndef use():\n    log.info('x')\n",
			call: "log.info",
			want: true,
		},
		{
			name: "staticmethod has no self",
			src:  "import logging\nclass S(logging.Logger):\n    @staticmethod\n    def f(self):\n        self.info('x')\n",
			call: "self.info",
			want: false,
		},
		{
			name: "method returning instance attribute",
			src: "import logging\nclass S:\n    def __init__(self):\n        self._log = logging.getLogger()\n" +
				"    def logger(self):\n        return self._log\n    def run(self):\n        self.logger().info('x')\n",
			call: "self.logger().info",
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := parse(t, tt.src)
			in := inference.New(f, nil)

			v := in.Infer(receiver(t, f, tt.call))
			assert.Equal(t, tt.want, in.IsLogger(v), "inferred %s", v)
		})
	}
}

func TestConfiguredLoggerClasses(t *testing.T) {
	src := "from myapp.log import AppLogger\nimport myapp.log\n" +
		"a = AppLogger()\nb = myapp.log.AppLogger()\nc = myapp.log.Other()\n" +
		"a.info('x')\nb.info('x')\nc.info('x')\n"
	f := parse(t, src)

	classes := typeutil.ParseClasses("myapp.log.AppLogger")
	in := inference.New(f, classes)

	assert.True(t, in.IsLogger(in.Infer(receiver(t, f, "a.info"))))
	assert.True(t, in.IsLogger(in.Infer(receiver(t, f, "b.info"))))
	assert.False(t, in.IsLogger(in.Infer(receiver(t, f, "c.info"))))

	plain := inference.New(f, nil)
	assert.False(t, plain.IsLogger(plain.Infer(receiver(t, f, "a.info"))))
}

func TestInferKinds(t *testing.T) {
	f := parse(t, "import logging\nimport os.path\nclass C:\n    pass\nC().x()\nlogging.getLogger()\nos.path.join()\nundefined.x()\n")
	in := inference.New(f, nil)

	assert.Equal(t, inference.Instance, in.Infer(receiver(t, f, "C().x")).Kind)
	assert.Equal(t, inference.Module, in.Infer(receiver(t, f, "logging.getLogger")).Kind)
	assert.Equal(t, inference.External, in.Infer(receiver(t, f, "os.path.join")).Kind)
	assert.Equal(t, inference.Unknown, in.Infer(receiver(t, f, "undefined.x")).Kind)
	assert.Equal(t, "instance source.C", in.Infer(receiver(t, f, "C().x")).String())
}

func TestCyclicBindingsAreUnknown(t *testing.T) {
	f := parse(t, "a = b\nb = a\na.info('x')\n")
	in := inference.New(f, nil)

	v := in.Infer(receiver(t, f, "a.info"))
	assert.False(t, v.Known())
}

func TestExceptTarget(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantTyp string
		want    string
	}{
		{"named", "try:\n    pass\nexcept Exception as e:\n    pass\n", "Exception", "e"},
		{"tuple named", "try:\n    pass\nexcept (A, B) as err:\n    pass\n", "(A, B)", "err"},
		{"typed unnamed", "try:\n    pass\nexcept Exception:\n    pass\n", "Exception", ""},
		{"bare", "try:\n    pass\nexcept:\n    pass\n", "", ""},
		{"dotted type", "try:\n    pass\nexcept errors.Err as e:\n    pass\n", "errors.Err", "e"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := parse(t, tt.src)

			var clause *sitter.Node
			var find func(n *sitter.Node)
			find = func(n *sitter.Node) {
				if n.Type() == pyast.TypeExceptClause {
					clause = n
				}
				for i := 0; i < int(n.ChildCount()); i++ {
					find(n.Child(i))
				}
			}
			find(f.Root())
			require.NotNil(t, clause)

			typ, name := inference.ExceptTarget(f, clause)
			assert.Equal(t, tt.want, name)
			assert.Equal(t, tt.wantTyp, f.Text(typ))
		})
	}
}
