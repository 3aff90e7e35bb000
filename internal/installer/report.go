package installer

import (
	"context"

	"github.com/conneroisu/balkit/internal/console"
	kiterrors "github.com/conneroisu/balkit/internal/errors"
)

// Message is one line of the human-readable install log.
type Message struct {
	Level console.Level
	Text  string
}

// Issue is an inconsistency found by the verify checks. Remediate applies
// its fix once.
type Issue struct {
	Name        string
	Description string
	Path        string

	fix func(ctx context.Context, r *Report)
}

// Remediate runs the issue's fix, logging into r.
func (i Issue) Remediate(ctx context.Context, r *Report) {
	if i.fix != nil {
		i.fix(ctx, r)
	}
}

// Report is the outcome of an install run.
type Report struct {
	Messages []Message
	Issues   []Issue
	// Performed is false when the run stopped before touching the host.
	Performed bool
	// Notices holds the errors that were downgraded to warnings.
	Notices *kiterrors.Collector

	printer *console.Printer
}

// NewReport creates an empty report that also streams its messages to
// printer when printer is non-nil.
func NewReport(printer *console.Printer) *Report {
	return &Report{Notices: kiterrors.NewCollector(), printer: printer}
}

func (r *Report) add(level console.Level, text string) {
	r.Messages = append(r.Messages, Message{Level: level, Text: text})
	if r.printer != nil {
		r.printer.Print(level, text)
	}
}

func (r *Report) info(text string)    { r.add(console.LevelInfo, text) }
func (r *Report) comment(text string) { r.add(console.LevelComment, text) }
func (r *Report) warn(text string)    { r.add(console.LevelWarn, text) }
func (r *Report) error(text string)   { r.add(console.LevelError, text) }
func (r *Report) line(text string)    { r.add(console.LevelLine, text) }
func (r *Report) newLine()            { r.add(console.LevelLine, "") }

// Texts returns the text of every message at one of levels, or of all
// messages when no level is given.
func (r *Report) Texts(levels ...console.Level) []string {
	var out []string
	for _, m := range r.Messages {
		if len(levels) == 0 || containsLevel(levels, m.Level) {
			out = append(out, m.Text)
		}
	}
	return out
}

// Warnings returns the warning messages.
func (r *Report) Warnings() []string {
	return r.Texts(console.LevelWarn)
}

// IssueNames returns the names of the detected issues in order.
func (r *Report) IssueNames() []string {
	names := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		names = append(names, issue.Name)
	}
	return names
}

func containsLevel(levels []console.Level, level console.Level) bool {
	for _, l := range levels {
		if l == level {
			return true
		}
	}
	return false
}
