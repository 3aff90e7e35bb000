// Package console prints the user-facing progress messages of balkit commands.
package console

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Level is the kind of a console message.
type Level int

const (
	LevelInfo Level = iota
	LevelComment
	LevelWarn
	LevelError
	LevelLine
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelComment:
		return "comment"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelLine:
		return "line"
	default:
		return "unknown"
	}
}

var (
	colorInfo    = lipgloss.Color("#10B981")
	colorComment = lipgloss.Color("#F59E0B")
	colorWarn    = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
)

// Printer writes styled messages. Styling is dropped automatically when the
// writer is not a color-capable terminal.
type Printer struct {
	mu     sync.Mutex
	out    io.Writer
	styles map[Level]lipgloss.Style
	title  lipgloss.Style
	quiet  bool
}

// New creates a printer writing to out. A nil out writes to stdout.
func New(out io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	r := lipgloss.NewRenderer(out)

	return &Printer{
		out: out,
		styles: map[Level]lipgloss.Style{
			LevelInfo:    r.NewStyle().Foreground(colorInfo),
			LevelComment: r.NewStyle().Foreground(colorComment),
			LevelWarn:    r.NewStyle().Foreground(colorWarn).Bold(true),
			LevelError:   r.NewStyle().Foreground(colorError).Bold(true),
			LevelLine:    r.NewStyle(),
		},
		title: r.NewStyle().Bold(true).Underline(true).Foreground(colorMuted),
	}
}

// SetQuiet suppresses info, comment and line messages.
func (p *Printer) SetQuiet(quiet bool) {
	p.mu.Lock()
	p.quiet = quiet
	p.mu.Unlock()
}

// Print writes one message at the given level.
func (p *Printer) Print(level Level, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.quiet && level != LevelWarn && level != LevelError {
		return
	}
	style, ok := p.styles[level]
	if !ok {
		style = p.styles[LevelLine]
	}
	fmt.Fprintln(p.out, style.Render(text))
}

func (p *Printer) Info(text string)    { p.Print(LevelInfo, text) }
func (p *Printer) Comment(text string) { p.Print(LevelComment, text) }
func (p *Printer) Warn(text string)    { p.Print(LevelWarn, text) }
func (p *Printer) Error(text string)   { p.Print(LevelError, text) }
func (p *Printer) Line(text string)    { p.Print(LevelLine, text) }

// Infof formats and prints an info message.
func (p *Printer) Infof(format string, args ...interface{}) {
	p.Print(LevelInfo, fmt.Sprintf(format, args...))
}

// NewLine writes an empty line.
func (p *Printer) NewLine() {
	p.Print(LevelLine, "")
}

// Title writes a section heading.
func (p *Printer) Title(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, p.title.Render(text))
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.out
}
