package finding_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpyw/sentrystack/internal/capture"
	"github.com/mpyw/sentrystack/internal/finding"
	"github.com/mpyw/sentrystack/internal/inference"
	"github.com/mpyw/sentrystack/internal/logcall"
	"github.com/mpyw/sentrystack/internal/pyast"
)

func TestEmit(t *testing.T) {
	tests := []struct {
		state capture.State
		want  finding.Kind
		code  string
	}{
		{capture.LegacyFlag, finding.ConvertLegacyFlag, "convert-legacy-flag"},
		{capture.ExplicitTrue, finding.None, ""},
		{capture.FalseOrAbsent, finding.AddCapture, "add-capture"},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			got := finding.Emit(tt.state)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.code, got.Code())
		})
	}
}

func TestNew(t *testing.T) {
	src := "import logging\nlogger = logging.getLogger()\nlogger.warn('x')\n"

	f, err := pyast.Parse(context.Background(), "source.py", []byte(src))
	require.NoError(t, err)
	defer f.Close()

	stmt := f.Root().NamedChild(2)
	node := stmt.NamedChild(0)

	call, ok := logcall.NewClassifier(f, inference.New(f, nil)).Classify(node)
	require.True(t, ok)

	got, ok := finding.New(f, call, capture.FalseOrAbsent)
	require.True(t, ok)
	assert.Equal(t, "add-capture", got.Code())
	assert.Equal(t, "logger.warn() in exception handler should pass exc_info=True", got.Message)
	assert.Equal(t, 3, got.Span.Start.Line)
	assert.Equal(t, 1, got.Span.Start.Column)

	got, ok = finding.New(f, call, capture.LegacyFlag)
	require.True(t, ok)
	assert.Equal(t, "convert-legacy-flag", got.Code())
	assert.Contains(t, got.Message, "use exc_info=True instead")

	_, ok = finding.New(f, call, capture.ExplicitTrue)
	assert.False(t, ok)
}
