// Package prompt asks the user yes/no questions when a terminal is attached.
package prompt

import (
	"context"
	"errors"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"golang.org/x/term"

	kiterrors "github.com/conneroisu/balkit/internal/errors"
)

// ConfirmConfig configures a yes/no prompt.
type ConfirmConfig struct {
	Message string
	Default bool
	Help    string
}

// Prompter asks questions. Interactive reports whether asking is possible at
// all; callers fall back to defaults when it is not.
type Prompter interface {
	Interactive() bool
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
}

// Survey prompts on the process terminal.
type Survey struct {
	stdin   *os.File
	stdout  *os.File
	enabled bool
}

// NewSurvey creates a terminal prompter. enabled=false makes it
// non-interactive regardless of the terminal, as --no-interaction does.
func NewSurvey(enabled bool) *Survey {
	return &Survey{stdin: os.Stdin, stdout: os.Stdout, enabled: enabled}
}

// Interactive reports whether stdin is a terminal and prompting is enabled.
func (s *Survey) Interactive() bool {
	return s.enabled && term.IsTerminal(int(s.stdin.Fd()))
}

// Confirm shows a yes/no question.
func (s *Survey) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if !s.Interactive() {
		return cfg.Default, kiterrors.NewInteractivityError(kiterrors.ErrCodePromptUnavailable, "no terminal available for prompting").
			WithSuggestions("Pass --auth-mode=breeze or --auth-mode=views")
	}

	var out bool
	q := &survey.Confirm{
		Message: cfg.Message,
		Help:    cfg.Help,
		Default: cfg.Default,
	}
	if err := survey.AskOne(q, &out, survey.WithStdio(s.stdin, s.stdout, os.Stderr)); err != nil {
		return cfg.Default, translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return kiterrors.Wrap(err, kiterrors.ErrorTypeInteractivity, kiterrors.ErrCodePromptAborted, "prompt aborted")
	}
	return kiterrors.Wrap(err, kiterrors.ErrorTypeInteractivity, kiterrors.ErrCodePromptUnavailable, "prompt failed")
}

// Static answers every question with a fixed value. Tty controls what
// Interactive reports.
type Static struct {
	Answer bool
	Err    error
	Asked  []string
	Tty    bool
}

// Interactive returns the configured Tty value.
func (s *Static) Interactive() bool { return s.Tty }

// Confirm records the question and returns the configured answer.
func (s *Static) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	s.Asked = append(s.Asked, cfg.Message)
	if s.Err != nil {
		return cfg.Default, s.Err
	}
	return s.Answer, nil
}
