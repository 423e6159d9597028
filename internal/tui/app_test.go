package tui

import (
	"strings"
	"testing"
)

func TestTruncStr(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello w…"},
		{"héllo wörld", 8, "héllo w…"},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		if got := truncStr(tt.in, tt.limit); got != tt.want {
			t.Errorf("truncStr(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}

func TestPadAndTruncateHeight(t *testing.T) {
	s := "a\nb\nc"

	if got := truncateHeight(s, 2); got != "a\nb" {
		t.Errorf("truncateHeight = %q", got)
	}
	if got := truncateHeight(s, 5); got != s {
		t.Errorf("truncateHeight no-op = %q", got)
	}

	padded := padHeight(s, 5)
	if lines := strings.Count(padded, "\n"); lines != 4 {
		t.Errorf("padHeight newlines = %d, want 4", lines)
	}
	if got := padHeight(s, 2); got != s {
		t.Errorf("padHeight no-op = %q", got)
	}
}
