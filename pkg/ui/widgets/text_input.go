package widgets

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/sniper/pkg/ui/backend"
	"github.com/odvcencio/sniper/pkg/ui/runtime"
	"github.com/odvcencio/sniper/pkg/ui/terminal"
)

// TextInput is a single-line text entry.
//
// Esc and Enter always propagate so the owner decides what they mean.
// Printable runes and the editing keys are handled here. Everything else
// propagates, which lets a list further down the focus chain keep Up and
// Down while the input is focused.
type TextInput[M any] struct {
	prompt      string
	placeholder string
	text        []rune
	cursor      int

	onChange func(string) M

	style       backend.Style
	promptStyle backend.Style
}

// NewTextInput creates an empty input drawn after prompt.
func NewTextInput[M any](prompt string) *TextInput[M] {
	return &TextInput[M]{
		prompt:      prompt,
		style:       backend.DefaultStyle(),
		promptStyle: backend.DefaultStyle().Bold(true),
	}
}

// OnChange sets the message emitted after every edit. Without one, edits are
// consumed silently.
func (t *TextInput[M]) OnChange(fn func(string) M) *TextInput[M] {
	t.onChange = fn
	return t
}

// SetPlaceholder sets the text shown while the input is empty.
func (t *TextInput[M]) SetPlaceholder(text string) {
	t.placeholder = text
}

// Text returns the current contents.
func (t *TextInput[M]) Text() string {
	return string(t.text)
}

// SetText replaces the contents and moves the cursor to the end.
func (t *TextInput[M]) SetText(text string) {
	t.text = []rune(text)
	t.cursor = len(t.text)
}

// Clear empties the input.
func (t *TextInput[M]) Clear() {
	t.text = nil
	t.cursor = 0
}

// Cursor returns the cursor position in runes.
func (t *TextInput[M]) Cursor() int {
	return t.cursor
}

// HandleKey implements runtime.Component.
func (t *TextInput[M]) HandleKey(ev terminal.KeyEvent) runtime.Outcome[M] {
	switch ev.Key {
	case terminal.KeyEscape, terminal.KeyEnter:
		return runtime.Propagate[M]()
	case terminal.KeyRune:
		if ev.Mods&(terminal.ModCtrl|terminal.ModAlt) != 0 {
			return runtime.Propagate[M]()
		}
		t.text = append(t.text[:t.cursor], append([]rune{ev.Rune}, t.text[t.cursor:]...)...)
		t.cursor++
		return t.changed()
	case terminal.KeyBackspace:
		if t.cursor == 0 {
			return runtime.Consumed[M]()
		}
		t.text = append(t.text[:t.cursor-1], t.text[t.cursor:]...)
		t.cursor--
		return t.changed()
	case terminal.KeyDelete:
		if t.cursor >= len(t.text) {
			return runtime.Consumed[M]()
		}
		t.text = append(t.text[:t.cursor], t.text[t.cursor+1:]...)
		return t.changed()
	case terminal.KeyLeft:
		t.cursor = max(t.cursor-1, 0)
		return runtime.Consumed[M]()
	case terminal.KeyRight:
		t.cursor = min(t.cursor+1, len(t.text))
		return runtime.Consumed[M]()
	case terminal.KeyHome:
		t.cursor = 0
		return runtime.Consumed[M]()
	case terminal.KeyEnd:
		t.cursor = len(t.text)
		return runtime.Consumed[M]()
	}
	return runtime.Propagate[M]()
}

func (t *TextInput[M]) changed() runtime.Outcome[M] {
	if t.onChange == nil {
		return runtime.Consumed[M]()
	}
	return runtime.Emit(t.onChange(string(t.text)))
}

// Render implements runtime.Component. The text scrolls horizontally to keep
// the cursor in view.
func (t *TextInput[M]) Render(f *runtime.Frame, area runtime.Rect) {
	if area.Empty() {
		return
	}
	y := area.Y
	f.Fill(runtime.NewRect(area.X, y, area.Width, 1), ' ', t.style)
	x := area.X + f.SetString(area.X, y, t.prompt, area.Width, t.promptStyle)
	width := area.X + area.Width - x
	if width <= 0 {
		return
	}

	if len(t.text) == 0 && t.placeholder != "" {
		f.SetString(x, y, t.placeholder, width, t.style.Dim(true))
		f.Set(x, y, ' ', t.style.Reverse(true))
		return
	}

	// Drop leading runes until the cursor cell fits.
	start := 0
	for runewidth.StringWidth(string(t.text[start:t.cursor]))+1 > width && start < t.cursor {
		start++
	}
	cx := x + f.SetString(x, y, string(t.text[start:]), width, t.style)
	if t.cursor < len(t.text) {
		cx = x + runewidth.StringWidth(string(t.text[start:t.cursor]))
		f.Set(cx, y, t.text[t.cursor], t.style.Reverse(true))
		return
	}
	if cx < area.X+area.Width {
		f.Set(cx, y, ' ', t.style.Reverse(true))
	}
}

var _ runtime.Component[string] = (*TextInput[string])(nil)
