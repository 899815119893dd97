package levels

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		method string
		want   Name
		ok     bool
	}{
		{"info", Info, true},
		{"warning", Warning, true},
		{"warn", Warning, true},
		{"fatal", Critical, true},
		{"critical", Critical, true},
		{"exception", Exception, true},
		{"debug", Debug, true},
		{"log", "log", false},
		{"setLevel", "setLevel", false},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			got, ok := Canonical(tt.method)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", []string{}},
		{"replaces default", "warning", []string{"warning"}},
		{"with spaces", " warn , error ", []string{"error", "warn"}},
		{"unknown kept", "foo", []string{"foo"}},
		{"only commas", ",,", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.input).Names())
		})
	}
}

func TestSetReports(t *testing.T) {
	def := Default()
	assert.True(t, def.Reports(Warning))
	assert.False(t, def.Reports(Debug))
	assert.False(t, def.Reports(Exception))

	// Aliases in configuration are not canonicalized; the call side is.
	configured := Parse("warn,error")
	assert.False(t, configured.Reports(Warning))
	assert.True(t, configured.Reports(Error))

	unknown := Parse("foo")
	for _, n := range []Name{Debug, Info, Warning, Error, Critical} {
		assert.False(t, unknown.Reports(n))
	}

	assert.False(t, Parse("exception").Reports(Exception))
}

func TestFlag(t *testing.T) {
	var f Flag
	assert.False(t, f.IsSet())
	assert.Equal(t, Default(), f.Levels())

	assert.NoError(t, f.Set(""))
	assert.True(t, f.IsSet())
	assert.Empty(t, f.Levels())
	for _, n := range []Name{Debug, Info, Warning, Error, Critical} {
		assert.False(t, f.Levels().Reports(n))
	}

	assert.NoError(t, f.Set("error"))
	assert.Equal(t, "error", f.String())
	assert.Equal(t, []string{"error"}, f.Levels().Names())

	f.Reset()
	assert.False(t, f.IsSet())
	assert.Equal(t, "", f.String())
	assert.Equal(t, Default(), f.Levels())
}
