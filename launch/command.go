package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/samber/lo"
)

// Command describes an external program to launch.
type Command struct {
	// Name identifies the command in errors and logs
	Name string
	Path string
	Args []string
	// Dir is the working directory of the process; empty means the caller's
	Dir string
	// Env is the complete environment of the process; nil means the caller's
	Env []string
	// Overrides are the variables Env sets on top of the caller's environment.
	// They are only used for display.
	Overrides []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// ExitError reports a launched process that ran and exited with a non-zero status.
type ExitError struct {
	error
	Name string
	Code int
}

func (e ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Name, e.Code)
}

func (e ExitError) Unwrap() error {
	return e.error
}

// Run starts the command and waits for it to exit.
// Cancelling ctx kills the process.
func Run(ctx context.Context, command Command) error {
	cmd := exec.CommandContext(ctx, command.Path, command.Args...)
	cmd.Dir = command.Dir
	cmd.Env = command.Env
	cmd.Stdin = command.Stdin
	cmd.Stdout = command.Stdout
	cmd.Stderr = command.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			return ExitError{err, command.name(), exitErr.ExitCode()}
		}
		return fmt.Errorf("failed to run %s: %w", command.name(), err)
	}
	return nil
}

// ExitCode maps the result of a launch to a process exit status:
// 0 on success, the child's status for an ExitError and 1 for anything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) && coder.ExitCode() > 0 {
		return coder.ExitCode()
	}
	return 1
}

// String renders the command as a shell line, prefixed by its environment overrides.
func (command Command) String() string {
	words := append([]string{command.Path}, command.Args...)
	line := lo.Map(command.Overrides, func(env string, _ int) string {
		key, value, _ := strings.Cut(env, "=")
		return key + "=" + shellescape.Quote(value)
	})
	line = append(line, shellescape.QuoteCommand(words))
	if command.Dir != "" {
		return fmt.Sprintf("(cd %s && %s)", shellescape.Quote(command.Dir), strings.Join(line, " "))
	}
	return strings.Join(line, " ")
}

func (command Command) name() string {
	return lo.Ternary(command.Name != "", command.Name, command.Path)
}
