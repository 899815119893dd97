package typeutil

import "testing"

func TestParseClasses(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Class
	}{
		{
			name:  "empty string",
			input: "",
			want:  nil,
		},
		{
			name:  "single class",
			input: "myapp.log.AppLogger",
			want:  []Class{{Module: "myapp.log", Name: "AppLogger"}},
		},
		{
			name:  "multiple classes",
			input: "a.A,b.c.B",
			want:  []Class{{Module: "a", Name: "A"}, {Module: "b.c", Name: "B"}},
		},
		{
			name:  "with spaces",
			input: " a.A , b.B ",
			want:  []Class{{Module: "a", Name: "A"}, {Module: "b", Name: "B"}},
		},
		{
			name:  "invalid format - no dot",
			input: "AppLogger",
			want:  []Class{},
		},
		{
			name:  "invalid format - trailing dot",
			input: "myapp.",
			want:  []Class{},
		},
		{
			name:  "empty parts are skipped",
			input: "a.A,,b.B",
			want:  []Class{{Module: "a", Name: "A"}, {Module: "b", Name: "B"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseClasses(tt.input)
			if len(got) != len(tt.want) {
				t.Errorf("ParseClasses(%q) returned %d classes, want %d", tt.input, len(got), len(tt.want))
				return
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseClasses(%q)[%d] = %+v, want %+v", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestIsClass(t *testing.T) {
	classes := ParseClasses("myapp.log.AppLogger")

	if !IsClass("myapp.log.AppLogger", classes) {
		t.Error("expected exact qualified name to match")
	}
	if IsClass("myapp.AppLogger", classes) {
		t.Error("expected different module not to match")
	}
	if IsClass("myapp.log.AppLogger", nil) {
		t.Error("expected no match without configured classes")
	}
}
