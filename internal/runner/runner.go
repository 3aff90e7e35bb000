// Package runner executes the package-manager and framework commands the
// installer needs. Commands are argv lists, never shell strings, and run one
// at a time in the foreground with no timeout beyond context cancellation.
package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	kiterrors "github.com/conneroisu/balkit/internal/errors"
	"github.com/conneroisu/balkit/internal/logging"
	"github.com/conneroisu/balkit/internal/validation"
)

// Command is one external invocation.
type Command struct {
	Name   string
	Args   []string
	Dir    string
	Silent bool
}

// String renders the command the way a user would type it.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Quiet returns a copy of c that captures its output instead of streaming it.
func (c Command) Quiet() Command {
	c.Silent = true
	return c
}

// Parse splits a configured command line such as "npm run build".
func Parse(line string) Command {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}
	}
	return Command{Name: fields[0], Args: fields[1:]}
}

// Result describes a finished command.
type Result struct {
	ExitCode int
	Output   []byte
	Duration time.Duration
}

// Runner runs commands. A non-nil error is always a SubprocessFailure.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// DefaultAllowedCommands are the executables balkit may invoke.
var DefaultAllowedCommands = map[string]bool{
	"npm":      true,
	"composer": true,
	"php":      true,
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	Dir     string
	Stdout  io.Writer
	Stderr  io.Writer
	Allowed map[string]bool
	logger  logging.Logger
}

// NewExecRunner creates a runner rooted at dir.
func NewExecRunner(dir string, logger logging.Logger) *ExecRunner {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ExecRunner{
		Dir:     dir,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Allowed: DefaultAllowedCommands,
		logger:  logger.WithComponent("runner"),
	}
}

// Run executes cmd and waits for it to finish.
func (r *ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	if err := validation.ValidateCommandLine(c.Name, c.Args, r.Allowed); err != nil {
		return Result{ExitCode: -1}, kiterrors.NewSubprocessError(c.String(), err)
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if cmd.Dir == "" {
		cmd.Dir = r.Dir
	}

	var captured bytes.Buffer
	if c.Silent {
		cmd.Stdout = &captured
		cmd.Stderr = &captured
	} else {
		cmd.Stdout = io.MultiWriter(r.Stdout, &captured)
		cmd.Stderr = io.MultiWriter(r.Stderr, &captured)
	}

	r.logger.Debug(ctx, "Running command", "command", c.String(), "dir", cmd.Dir, "silent", c.Silent)

	start := time.Now()
	err := cmd.Run()
	result := Result{
		ExitCode: exitCode(cmd, err),
		Output:   captured.Bytes(),
		Duration: time.Since(start),
	}

	if err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		r.logger.Warn(ctx, err, "Command failed", "command", c.String(), "exit_code", result.ExitCode)
		return result, kiterrors.NewSubprocessError(c.String(), err)
	}

	r.logger.Debug(ctx, "Command completed", "command", c.String(), "duration_ms", result.Duration.Milliseconds())
	return result, nil
}

func exitCode(cmd *exec.Cmd, err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	return -1
}
