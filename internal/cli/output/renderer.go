// Package output provides mode-aware rendering for CLI commands.
//
// Output adapts to the environment: styled text on a terminal, markdown
// when piped (agent-friendly), and JSON on request.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// Mode selects the output format.
type Mode string

// Supported output modes.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// Renderer writes command output in the selected mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	isTTY  bool
	styles *Styles
}

// NewRenderer creates a renderer, probing the writer for terminal
// capabilities. Non-terminal writers resolve ModeAuto to markdown.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	isTTY := termenv.NewOutput(out).ColorProfile() != termenv.Ascii
	return NewRendererWithTTY(out, errOut, isTTY, mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state.
// Used by tests to pin the auto-mode resolution.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	return &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		isTTY:  isTTY,
		styles: newStyles(isTTY && mode != ModeMarkdown && mode != ModeJSON),
	}
}

// EffectiveMode resolves ModeAuto: text on a TTY, markdown otherwise.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// Styles returns the style set for text rendering. Styles are no-ops
// when output is not a terminal.
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Writer returns the primary output writer.
func (r *Renderer) Writer() io.Writer {
	return r.out
}

// ErrWriter returns the error output writer.
func (r *Renderer) ErrWriter() io.Writer {
	return r.errOut
}

// Println writes a line to the primary output.
func (r *Renderer) Println(args ...any) {
	_, _ = fmt.Fprintln(r.out, args...)
}

// Printf writes formatted output to the primary output.
func (r *Renderer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// Errorf writes formatted output to the error output.
func (r *Renderer) Errorf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.errOut, format, args...)
}

// Header writes a heading appropriate for the effective mode.
func (r *Renderer) Header(level int, text string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Println(FormatHeader(level, text))
		r.Println("")
		return
	}
	style := r.styles.Header2
	if level <= 1 {
		style = r.styles.Header1
	}
	r.Println("")
	r.Println(style.Render(text))
	r.Println("")
}

// FormatHeader renders a markdown heading line.
func FormatHeader(level int, text string) string {
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level) + " " + text
}

// FormatKeyValue renders a markdown key/value bullet.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("- **%s:** %s", key, value)
}
