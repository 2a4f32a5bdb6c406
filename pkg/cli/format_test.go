package cli

import (
	"strings"
	"testing"
)

func TestDotPad(t *testing.T) {
	tests := []struct {
		name  string
		width int
		want  string
	}{
		{"step", 10, "step ....."},
		{"longer-than-width", 5, "longer-than-width"},
		{"x", 0, "x"},
	}
	for _, tt := range tests {
		if got := DotPad(tt.name, tt.width); got != tt.want {
			t.Errorf("DotPad(%q, %d) = %q, want %q", tt.name, tt.width, got, tt.want)
		}
	}
}

func TestColorWrapping(t *testing.T) {
	// Colors may be disabled via NO_COLOR in the environment; either way
	// the original string must be preserved.
	for _, f := range []func(string) string{Green, Yellow, Red, Bold, Dim} {
		out := f("hello")
		if !strings.Contains(out, "hello") {
			t.Errorf("color helper lost its input: %q", out)
		}
	}
}
