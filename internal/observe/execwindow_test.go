package observe

import (
	"errors"
	"testing"
)

func TestParseWindowLine(t *testing.T) {
	w, err := ParseWindowLine("Google Chrome\tGo slices - Stack Overflow\t4242\n")
	if err != nil {
		t.Fatalf("ParseWindowLine: %v", err)
	}
	if w.App != "Google Chrome" {
		t.Errorf("App = %q, want %q", w.App, "Google Chrome")
	}
	if w.Title != "Go slices - Stack Overflow" {
		t.Errorf("Title = %q", w.Title)
	}
	if w.PID != 4242 {
		t.Errorf("PID = %d, want 4242", w.PID)
	}
}

func TestParseWindowLineNoPID(t *testing.T) {
	w, err := ParseWindowLine("Code\tmain.go")
	if err != nil {
		t.Fatalf("ParseWindowLine: %v", err)
	}
	if w.PID != 0 {
		t.Errorf("PID = %d, want 0", w.PID)
	}
}

func TestParseWindowLineEmpty(t *testing.T) {
	_, err := ParseWindowLine("\n")
	if !errors.Is(err, ErrNoWindow) {
		t.Fatalf("err = %v, want ErrNoWindow", err)
	}
}

func TestParseWindowLineMalformed(t *testing.T) {
	_, err := ParseWindowLine("just-an-app\n")
	if err == nil || errors.Is(err, ErrNoWindow) {
		t.Fatalf("err = %v, want parse error", err)
	}
}
