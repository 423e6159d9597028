package observe

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const execTimeout = 800 * time.Millisecond

// ExecObserver shells out to a user-configured command to read the
// foreground window. The command must print one line:
//
//	app<TAB>title<TAB>pid
//
// An empty line (or exit status 1) means no window is in focus. Window
// introspection itself is platform glue; this keeps the seam narrow.
type ExecObserver struct {
	command string
}

// NewExecObserver returns an observer running the given shell command.
func NewExecObserver(command string) *ExecObserver {
	return &ExecObserver{command: command}
}

// Foreground runs the command and parses its output.
func (o *ExecObserver) Foreground(ctx context.Context) (Window, error) {
	if o.command == "" {
		return Window{}, ErrUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, execTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "sh", "-c", o.command).Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok && ee.ExitCode() == 1 {
			return Window{}, ErrNoWindow
		}
		return Window{}, fmt.Errorf("observe: window command: %w", err)
	}

	return ParseWindowLine(string(out))
}

// ParseWindowLine parses the "app\ttitle\tpid" wire format.
func ParseWindowLine(line string) (Window, error) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return Window{}, ErrNoWindow
	}

	parts := strings.SplitN(line, "\t", 3)
	if len(parts) < 2 {
		return Window{}, fmt.Errorf("observe: malformed window line %q", line)
	}

	w := Window{App: parts[0], Title: parts[1]}
	if len(parts) == 3 {
		if pid, err := strconv.Atoi(strings.TrimSpace(parts[2])); err == nil {
			w.PID = int32(pid)
		}
	}
	if w.App == "" {
		return Window{}, ErrNoWindow
	}
	return w, nil
}
