package command

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes external programs and returns what they printed.
type Runner interface {
	// Output runs the program and returns its standard output. Standard
	// error is captured and attached to the returned error on failure.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	// CombinedOutput runs the program and returns stdout and stderr interleaved.
	// On failure the trimmed output is also attached to the returned error.
	CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Error describes a failed external command.
type Error struct {
	Command string
	// Stderr is what the program printed on its way out
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("command failed: %s: %v", e.Command, e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// New creates a new ExecRunner
func New() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		return output, &Error{
			Command: commandLine(name, args),
			Stderr:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}

	return output, nil
}

func (r *ExecRunner) CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	output, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return output, &Error{
			Command: commandLine(name, args),
			Stderr:  strings.TrimSpace(string(output)),
			Err:     err,
		}
	}

	return output, nil
}

func commandLine(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}
