package widgets

import (
	"strings"

	"github.com/odvcencio/sniper/pkg/ui/backend"
	"github.com/odvcencio/sniper/pkg/ui/runtime"
	"github.com/odvcencio/sniper/pkg/ui/terminal"
)

// Paragraph displays wrapped text, optionally inside a titled border.
// It never handles keys.
type Paragraph[M any] struct {
	text     string
	title    string
	bordered bool
	single   bool
	style    backend.Style
}

// NewParagraph creates an unbordered paragraph.
func NewParagraph[M any](text string) *Paragraph[M] {
	return &Paragraph[M]{text: text, style: backend.DefaultStyle()}
}

// WithBorder draws the paragraph inside a box titled title.
func (p *Paragraph[M]) WithBorder(title string) *Paragraph[M] {
	p.bordered = true
	p.title = title
	return p
}

// WithStyle sets the text style and returns the paragraph for chaining.
func (p *Paragraph[M]) WithStyle(style backend.Style) *Paragraph[M] {
	p.style = style
	return p
}

// SingleLine shows only the first line, cut with an ellipsis when it does
// not fit.
func (p *Paragraph[M]) SingleLine() *Paragraph[M] {
	p.single = true
	return p
}

// SetText updates the displayed text.
func (p *Paragraph[M]) SetText(text string) { p.text = text }

// Text returns the current text.
func (p *Paragraph[M]) Text() string { return p.text }

// SetTitle changes the border title.
func (p *Paragraph[M]) SetTitle(title string) { p.title = title }

// HandleKey implements runtime.Component.
func (p *Paragraph[M]) HandleKey(terminal.KeyEvent) runtime.Outcome[M] {
	return runtime.Propagate[M]()
}

// Render implements runtime.Component. Lines past the bottom of area are
// dropped.
func (p *Paragraph[M]) Render(f *runtime.Frame, area runtime.Rect) {
	if area.Empty() {
		return
	}
	if p.bordered {
		area = f.DrawBlock(area, p.title, p.style, p.style.Bold(true))
		if area.Empty() {
			return
		}
	}
	if p.single {
		line, _, _ := strings.Cut(expandTabs(p.text), "\n")
		f.SetString(area.X, area.Y, truncate(line, area.Width), area.Width, p.style)
		return
	}
	for i, line := range wrap(expandTabs(p.text), area.Width) {
		if i >= area.Height {
			break
		}
		f.SetString(area.X, area.Y+i, line, area.Width, p.style)
	}
}

func expandTabs(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\t' {
			out = append(out, ' ', ' ', ' ', ' ')
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

var _ runtime.Component[string] = (*Paragraph[string])(nil)
