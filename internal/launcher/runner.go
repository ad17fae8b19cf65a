package launcher

import (
	"context"
	"errors"
	"os"
	"os/exec"
)

// Command is an external command invocation.
type Command struct {
	Path string
	Args []string
	Dir  string
	// Env is appended to the current process environment.
	Env []string
}

// Result is the outcome of running a Command.
type Result struct {
	// Output is the combined stdout and stderr.
	Output   []byte
	ExitCode int
	// Err is set when the command could not be started or exited non-zero.
	Err error
}

// Runner runs external commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) Result
}

// ExecRunner runs commands as local subprocesses.
type ExecRunner struct{}

// Run blocks until the subprocess exits or ctx is cancelled.
func (ExecRunner) Run(ctx context.Context, c Command) Result {
	// #nosec G204 -- command comes from broker configuration
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = append(os.Environ(), c.Env...)

	out, err := cmd.CombinedOutput()
	res := Result{Output: out, Err: err}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.ExitCode = 0
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		res.ExitCode = -1
	}
	return res
}
