// Package finding turns a capture state into a diagnostic.
package finding

import (
	"fmt"

	"github.com/mpyw/sentrystack/internal/capture"
	"github.com/mpyw/sentrystack/internal/logcall"
	"github.com/mpyw/sentrystack/internal/pyast"
)

// Kind is the classification of a logging call.
type Kind int

const (
	None Kind = iota
	AddCapture
	ConvertLegacyFlag
)

// Diagnostic codes. They are stable and used by ignore directives.
const (
	CodeAddCapture        = "add-capture"
	CodeConvertLegacyFlag = "convert-legacy-flag"
)

// Code returns the diagnostic code of k, or "" for None.
func (k Kind) Code() string {
	switch k {
	case AddCapture:
		return CodeAddCapture
	case ConvertLegacyFlag:
		return CodeConvertLegacyFlag
	default:
		return ""
	}
}

// Emit classifies a logging call that is inside a named handler and at a
// reported level.
func Emit(state capture.State) Kind {
	switch state {
	case capture.LegacyFlag:
		return ConvertLegacyFlag
	case capture.ExplicitTrue:
		return None
	default:
		return AddCapture
	}
}

// Finding is a reportable logging call.
type Finding struct {
	Kind    Kind
	Span    pyast.Span
	Message string
}

// Code returns the diagnostic code.
func (f Finding) Code() string {
	return f.Kind.Code()
}

// New builds the Finding for call, or returns false when state needs none.
func New(f *pyast.File, call logcall.Call, state capture.State) (Finding, bool) {
	kind := Emit(state)
	if kind == None {
		return Finding{}, false
	}

	return Finding{
		Kind:    kind,
		Span:    f.Span(call.Node),
		Message: message(kind, f.Text(call.Receiver)+"."+call.Method),
	}, true
}

func message(kind Kind, callee string) string {
	switch kind {
	case ConvertLegacyFlag:
		return fmt.Sprintf("%s() in exception handler uses extra={'stack': True}; use exc_info=True instead", callee)
	default:
		return fmt.Sprintf("%s() in exception handler should pass exc_info=True", callee)
	}
}
