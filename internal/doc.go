// Package internal provides the core analysis engine for sentrystack.
//
// # Architecture Overview
//
// One analyzer run handles one Python file:
//
//	                    +------------------+
//	                    |   analyzer.go    |  Entry point
//	                    +--------+---------+
//	                             |
//	                    +--------v---------+
//	                    |     checker      |  Tree walk
//	                    +--------+---------+
//	                             |
//	     +-----------+-----------+-----------+-----------+
//	     |           |           |           |           |
//	+----v----+ +----v----+ +----v----+ +----v----+ +----v----+
//	|  scope  | | logcall | | capture | | finding | | ignore  |
//	+---------+ +----+----+ +---------+ +---------+ +---------+
//	                 |
//	          +------v------+
//	          |  inference  |  Receiver types
//	          +------+------+
//	                 |
//	          +------v------+
//	          |    pyast    |  tree-sitter Python
//	          +-------------+
//
// # Components
//
//   - [scope]: tracks the named except clauses enclosing the walk
//   - [logcall]: recognizes calls of logging.Logger level methods
//   - [capture]: decides whether a call attaches the active exception
//   - [finding]: turns a capture state into a diagnostic
//   - [ignore]: # sentrystack:ignore comments
//
// The cmd/sentrystack binary adds the outer layers: [config] loads
// settings, [driver] expands paths and runs files concurrently, and
// [report] renders the diagnostics.
//
// # Capture States
//
// Every reported call is in one of three states:
//
//	exc_info=<truthy literal>           explicit-true      no diagnostic
//	extra={"stack": True}               legacy-flag        convert-legacy-flag
//	anything else                       false-or-absent    add-capture
//
// [scope]: github.com/mpyw/sentrystack/internal/scope
// [logcall]: github.com/mpyw/sentrystack/internal/logcall
// [capture]: github.com/mpyw/sentrystack/internal/capture
// [finding]: github.com/mpyw/sentrystack/internal/finding
// [ignore]: github.com/mpyw/sentrystack/internal/directive/ignore
// [config]: github.com/mpyw/sentrystack/internal/config
// [driver]: github.com/mpyw/sentrystack/internal/driver
// [report]: github.com/mpyw/sentrystack/internal/report
package internal
