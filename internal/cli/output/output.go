// Package output renders command results and status lines for the CLI.
//
// Results go to the output writer in the configured format. Status lines
// (notices, warnings, row counts) go to the error writer styled with
// lipgloss so that piped result output stays machine readable.
package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles used for human-oriented text.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// NewStyles creates styles bound to a lipgloss renderer, so color support
// follows the writer the styles are used for.
func NewStyles(lr *lipgloss.Renderer) *Styles {
	return &Styles{
		Header1: lr.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2: lr.NewStyle().Bold(true).Underline(true),
		Bold:    lr.NewStyle().Bold(true),
		Muted:   lr.NewStyle().Foreground(lipgloss.Color("8")),
		Success: lr.NewStyle().Foreground(lipgloss.Color("10")),
		Warning: lr.NewStyle().Foreground(lipgloss.Color("11")),
		Error:   lr.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
}

// Renderer writes results and status lines.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	format string

	styles    *Styles
	errStyles *Styles
	values    *ValueFormatter
}

// NewRenderer creates a renderer. An unknown format renders tables.
func NewRenderer(out, errOut io.Writer, format string, values *ValueFormatter) *Renderer {
	if values == nil {
		values = NewValueFormatter(nil)
	}
	return &Renderer{
		out:       out,
		errOut:    errOut,
		format:    format,
		styles:    NewStyles(lipgloss.NewRenderer(out)),
		errStyles: NewStyles(lipgloss.NewRenderer(errOut)),
		values:    values,
	}
}

// Format returns the result format.
func (r *Renderer) Format() string {
	return r.format
}

// SetFormat changes the result format.
func (r *Renderer) SetFormat(format string) {
	r.format = format
}

// Out returns the result writer.
func (r *Renderer) Out() io.Writer {
	return r.out
}

// Styles returns the styles for the result writer.
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Println writes a line to the result writer.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted text to the result writer.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Notice writes a muted status line to the error writer.
func (r *Renderer) Notice(format string, a ...any) {
	_, _ = fmt.Fprintln(r.errOut, r.errStyles.Muted.Render(fmt.Sprintf(format, a...)))
}

// Success writes a success status line to the error writer.
func (r *Renderer) Success(format string, a ...any) {
	_, _ = fmt.Fprintln(r.errOut, r.errStyles.Success.Render(fmt.Sprintf(format, a...)))
}

// Warn writes a warning line to the error writer.
func (r *Renderer) Warn(format string, a ...any) {
	_, _ = fmt.Fprintln(r.errOut, r.errStyles.Warning.Render(fmt.Sprintf(format, a...)))
}

// Error writes an error line to the error writer.
func (r *Renderer) Error(err error) {
	_, _ = fmt.Fprintln(r.errOut, r.errStyles.Error.Render("Error:")+" "+err.Error())
}
