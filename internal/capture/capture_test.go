package capture_test

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpyw/sentrystack/internal/capture"
	"github.com/mpyw/sentrystack/internal/pyast"
)

// parseCall parses a single call expression statement.
func parseCall(t *testing.T, src string) (*pyast.File, *sitter.Node) {
	t.Helper()

	f, err := pyast.Parse(context.Background(), "source.py", []byte(src+"\n"))
	require.NoError(t, err)
	t.Cleanup(f.Close)

	stmt := f.Root().NamedChild(0)
	require.NotNil(t, stmt)
	call := stmt.NamedChild(0)
	require.Equal(t, pyast.TypeCall, call.Type(), "source %q", src)

	return f, call
}

func TestIncludesExtraStack(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"logger.info('x')", false},
		{"logger.info('x', extra=True)", false},
		{"logger.info('x', extra={})", false},
		{"logger.info('x', extra={'stack': False})", false},
		{"logger.info('x', extra={'other': True})", false},
		{"logger.info('x', extra={'stack': True})", true},
		{"logger.info('x', extra=dict())", false},
		{"logger.info('x', extra=dict(stack=False))", false},
		{"logger.info('x', extra=dict(other=True))", false},
		{"logger.info('x', extra=dict(stack=True))", true},
		{"logger.info('x', extra={'stack': 1})", false},
		{"logger.info('x', extra={'stack': flag})", false},
		{"logger.info('x', extra={\"stack\": True, 'a': 1})", true},
		{"logger.info('x', extra={**{'stack': True}})", true},
		{"logger.info('x', extra=dict({'stack': True}))", true},
		{"logger.info('x', extra=dict(**{'stack': True}))", true},
		{"logger.info('x', extra={'stack': True, 'stack': False})", false},
		{"logger.info('x', extra=({'stack': True}))", true},
		{"logger.info('x', extra=mapping)", false},
		{"logger.info('x', extra=other(stack=True))", false},
		{"logger.info('x', {'stack': True})", false},
		{"logger.info('x', extra={'stack': True, **other})", false},
		{"logger.info('x', extra={**other, 'stack': True})", true},
		{"logger.info('x', extra={'stack': True, key: False})", false},
		{"logger.info('x', extra={'stack': True, 1: False})", true},
		{"logger.info('x', extra=dict(stack=True, **other))", false},
		{"logger.info('x', extra=dict(other, stack=True))", true},
		{"logger.info('x', extra=dict(*pairs))", false},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			f, call := parseCall(t, tt.src)
			assert.Equal(t, tt.want, capture.IncludesExtraStack(f, call))
		})
	}
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		src  string
		want capture.State
	}{
		{"logger.warn('x', e)", capture.FalseOrAbsent},
		{"logger.warn('x', e, exc_info=True)", capture.ExplicitTrue},
		{"logger.warn('x', e, exc_info=False)", capture.FalseOrAbsent},
		{"logger.warn('x', e, exc_info=1)", capture.ExplicitTrue},
		{"logger.warn('x', e, exc_info=0)", capture.FalseOrAbsent},
		{"logger.warn('x', e, exc_info=None)", capture.FalseOrAbsent},
		{"logger.warn('x', e, exc_info='')", capture.FalseOrAbsent},
		{"logger.warn('x', e, exc_info=not False)", capture.ExplicitTrue},
		{"logger.warn('x', exc_info=e)", capture.FalseOrAbsent},
		{"logger.warn('x', exc_info=(e))", capture.FalseOrAbsent},
		{"logger.warn('x', exc_info=sys.exc_info())", capture.FalseOrAbsent},
		{"logger.warn('x', exc_info=e if e else None)", capture.FalseOrAbsent},
		{"logger.warn('x', exc_info=flag)", capture.FalseOrAbsent},
		{"logger.warn('x', e, extra=dict(stack=True))", capture.LegacyFlag},
		{"logger.warn('x', extra={'stack': True}, exc_info=True)", capture.LegacyFlag},
		{"logger.warn('x', extra={'stack': True}, exc_info=False)", capture.LegacyFlag},
		{"logger.warn('x', extra={'stack': False}, exc_info=True)", capture.ExplicitTrue},
		{"logger.warn('x', True)", capture.FalseOrAbsent},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			f, call := parseCall(t, tt.src)
			assert.Equal(t, tt.want, capture.Analyze(f, call))
		})
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "explicit-true", capture.ExplicitTrue.String())
	assert.Equal(t, "explicit-false-or-absent", capture.FalseOrAbsent.String())
	assert.Equal(t, "legacy-flag", capture.LegacyFlag.String())
}
