package cli

import "testing"

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "0s"},
		{-5, "0s"},
		{45, "45s"},
		{125, "2m"},
		{3725, "1h 2m"},
		{7200, "2h 0m"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.secs); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "00:00"},
		{-10, "00:00"},
		{59, "00:59"},
		{1500, "25:00"},
		{3661, "61:01"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.secs); got != tt.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    uint64
		want string
	}{
		{512, "512 B"},
		{1536, "1.5 KB"},
		{2 << 30, "2.0 GB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.n); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4321, "-4,321"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.n); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestTruncateTitle(t *testing.T) {
	tests := []struct {
		title string
		max   int
		want  string
	}{
		{"short", 10, "short"},
		{"a longer window title", 10, "a longer …"},
		{"héllo wörld — éditor", 8, "héllo w…"},
		{"日本語のタイトルです", 5, "日本語の…"},
		{"日本語", 3, "日本語"},
		{"anything", 0, "anything"},
		{"ab", 1, "a"},
	}
	for _, tt := range tests {
		if got := TruncateTitle(tt.title, tt.max); got != tt.want {
			t.Errorf("TruncateTitle(%q, %d) = %q, want %q", tt.title, tt.max, got, tt.want)
		}
	}
}
