// Package console writes styled, line-oriented output for the commands that
// run outside the full-screen browser.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Writer provides styled output.
type Writer struct {
	out io.Writer
	mu  sync.Mutex

	errorStyle   lipgloss.Style
	warnStyle    lipgloss.Style
	successStyle lipgloss.Style
	infoStyle    lipgloss.Style
	dimStyle     lipgloss.Style
	headerStyle  lipgloss.Style
	labelStyle   lipgloss.Style
}

// Options configures a Writer.
type Options struct {
	// NoColor strips all color and attributes.
	NoColor bool
}

// NewWithOutput creates a Writer on out. The color profile is detected from
// out, so a buffer or a pipe gets plain text.
func NewWithOutput(out io.Writer, opts Options) *Writer {
	r := lipgloss.NewRenderer(out)
	if opts.NoColor {
		r.SetColorProfile(termenv.Ascii)
	}

	return &Writer{
		out: out,

		errorStyle: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#D00000", Dark: "#FF5555"}).
			Bold(true),
		warnStyle: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#FFAA00"}),
		successStyle: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#008000", Dark: "#55FF55"}),
		infoStyle: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#0066CC", Dark: "#5599FF"}),
		dimStyle: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}),
		headerStyle: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"}).
			Bold(true),
		labelStyle: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}).
			Bold(true),
	}
}

// Println writes a plain line.
func (w *Writer) Println(format string, args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Error prints an error message in red.
func (w *Writer) Error(format string, args ...any) {
	w.styled(w.errorStyle, "error: "+format, args...)
}

// Warn prints a warning message in yellow.
func (w *Writer) Warn(format string, args ...any) {
	w.styled(w.warnStyle, "warning: "+format, args...)
}

// Success prints a success message in green.
func (w *Writer) Success(format string, args ...any) {
	w.styled(w.successStyle, "✓ "+format, args...)
}

// Info prints an info message in blue.
func (w *Writer) Info(format string, args ...any) {
	w.styled(w.infoStyle, format, args...)
}

// Dim prints secondary text.
func (w *Writer) Dim(format string, args ...any) {
	w.styled(w.dimStyle, format, args...)
}

func (w *Writer) styled(s lipgloss.Style, format string, args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintln(w.out, s.Render(fmt.Sprintf(format, args...)))
}

// Header prints a bold section title followed by a rule.
func (w *Writer) Header(title string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintln(w.out, w.headerStyle.Render(title))
	fmt.Fprintln(w.out, w.dimStyle.Render(strings.Repeat("─", min(lipgloss.Width(title)+20, terminalWidth()))))
}

// Field prints "label: value" with the label dimmed.
func (w *Writer) Field(label, value string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, "%s %s\n", w.labelStyle.Render(label+":"), value)
}

// Table prints rows in left-aligned columns under a bold header row.
// Short rows are padded with empty cells.
func (w *Writer) Table(headers []string, rows [][]string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	format := func(cells []string) string {
		parts := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = cell + strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	fmt.Fprintln(w.out, w.headerStyle.Render(format(headers)))
	for _, row := range rows {
		fmt.Fprintln(w.out, format(row))
	}
}

// terminalWidth returns the stdout width, defaulting to 80.
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width == 0 {
		return 80
	}
	return width
}
