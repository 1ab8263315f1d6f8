package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"

	"github.com/ormasoftchile/shipit/pkg/schema"
)

// RealRunner runs actions via os/exec, or in-process for builtin actions.
type RealRunner struct {
	// Env is appended to the parent environment of every spawned process.
	Env []string
}

// Run executes the action. Stdout and stderr share one writer so the
// captured output keeps the order the process produced it in; os/exec
// serializes writes when both point at the same comparable writer.
// On Windows, if the command is not found directly it is retried through
// cmd.exe /C so that shell builtins work transparently.
func (r *RealRunner) Run(ctx context.Context, action schema.Action, out io.Writer) (*CommandResult, error) {
	if action.IsBuiltin() {
		return r.runBuiltin(ctx, action, out), nil
	}
	if action.Command == "" {
		return nil, fmt.Errorf("action %q has no command", action.Name)
	}

	err := r.command(ctx, action, action.Command, action.Args, out).Run()

	if err != nil && runtime.GOOS == "windows" && isExecNotFound(err) {
		cmdLine := action.Command
		for _, a := range action.Args {
			cmdLine += " " + a
		}
		err = r.command(ctx, action, "cmd.exe", []string{"/C", cmdLine}, out).Run()
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			return nil, fmt.Errorf("execute command %q: %w", action.Command, err)
		}
	}

	return &CommandResult{ExitCode: exitCode}, nil
}

func (r *RealRunner) command(ctx context.Context, action schema.Action, name string, args []string, w io.Writer) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = action.Dir
	if env := append(append([]string{}, r.Env...), action.Env...); len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	cmd.Stdout = w
	cmd.Stderr = w
	return cmd
}

func (r *RealRunner) runBuiltin(ctx context.Context, action schema.Action, out io.Writer) *CommandResult {
	if err := action.Builtin(ctx, out); err != nil {
		fmt.Fprintf(out, "%s: %v\n", action.Name, err)
		return &CommandResult{ExitCode: 1}
	}
	return &CommandResult{}
}

// isExecNotFound returns true when the error indicates the executable was not found.
func isExecNotFound(err error) bool {
	if errors.Is(err, exec.ErrNotFound) {
		return true
	}
	var execErr *exec.Error
	return errors.As(err, &execErr)
}
