package runner

import (
	"context"
	"errors"
	"sync"

	kiterrors "github.com/conneroisu/balkit/internal/errors"
)

// Recorder is a Runner that records commands instead of executing them.
// Commands listed in Fail return a SubprocessFailure; Outputs maps a command
// string to the output it produces.
type Recorder struct {
	mu      sync.Mutex
	calls   []Command
	Fail    map[string]bool
	Outputs map[string]string
	// OnRun is called for every command before the result is returned.
	OnRun func(Command)
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		Fail:    make(map[string]bool),
		Outputs: make(map[string]string),
	}
}

// Run records cmd.
func (r *Recorder) Run(_ context.Context, cmd Command) (Result, error) {
	r.mu.Lock()
	r.calls = append(r.calls, cmd)
	fail := r.Fail[cmd.String()]
	out := r.Outputs[cmd.String()]
	hook := r.OnRun
	r.mu.Unlock()

	if hook != nil {
		hook(cmd)
	}
	if fail {
		return Result{ExitCode: 1, Output: []byte(out)}, kiterrors.NewSubprocessError(cmd.String(), errors.New("exit status 1"))
	}
	return Result{Output: []byte(out)}, nil
}

// Calls returns the recorded commands in order.
func (r *Recorder) Calls() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Command, len(r.calls))
	copy(out, r.calls)
	return out
}

// Lines returns the recorded commands as strings.
func (r *Recorder) Lines() []string {
	calls := r.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}
