package widgets

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrap breaks s into lines no wider than width columns. Embedded newlines
// start a new line. Wide characters are never split; a character wider than
// width gets a line of its own. The result always has at least one line.
func wrap(s string, width int) []string {
	if width <= 0 {
		return []string{""}
	}
	var out []string
	for _, para := range strings.Split(s, "\n") {
		out = append(out, wrapLine(para, width)...)
	}
	return out
}

func wrapLine(s string, width int) []string {
	if runewidth.StringWidth(s) <= width {
		return []string{s}
	}
	var (
		lines []string
		line  strings.Builder
		col   int
	)
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if col+w > width && col > 0 {
			lines = append(lines, line.String())
			line.Reset()
			col = 0
		}
		line.WriteRune(r)
		col += w
	}
	return append(lines, line.String())
}

// truncate cuts s to at most width columns, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 1 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "…")
}
