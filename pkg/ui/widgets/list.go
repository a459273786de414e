package widgets

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/sniper/pkg/ui/backend"
	"github.com/odvcencio/sniper/pkg/ui/runtime"
	"github.com/odvcencio/sniper/pkg/ui/terminal"
)

// SelectionIndicator prefixes every line of the selected row.
const SelectionIndicator = ">> "

// ErrNoSelection is the text handed to the error constructor when Enter is
// pressed with nothing selected.
const ErrNoSelection = "no item selected"

// List is a bordered, titled, scrollable list with an optional selection.
//
// Up and Down move the selection and are always consumed. Enter emits the
// select message when one is configured. When a row constructor is set, the
// selected row's component sees every key first.
type List[T any, M any] struct {
	label    string
	items    []T
	selected int
	offset   int

	display  func(T) string
	onSelect func(T) M
	onError  func(string) M
	row      func(T) runtime.Component[M]

	style         backend.Style
	selectedStyle backend.Style
	borderStyle   backend.Style
	titleStyle    backend.Style
}

// NewList creates a list with nothing selected. display renders an item as
// text; nil falls back to fmt's %v.
func NewList[T any, M any](label string, items []T, display func(T) string) *List[T, M] {
	if display == nil {
		display = func(v T) string { return fmt.Sprint(v) }
	}
	return &List[T, M]{
		label:         label,
		items:         items,
		selected:      -1,
		display:       display,
		style:         backend.DefaultStyle(),
		selectedStyle: backend.DefaultStyle().Reverse(true),
		borderStyle:   backend.DefaultStyle(),
		titleStyle:    backend.DefaultStyle().Bold(true),
	}
}

// OnSelect sets the constructors for the messages emitted on Enter: fn for
// the selected item, onError for failures such as ErrNoSelection. Both are
// required; without a call to OnSelect, Enter propagates.
func (l *List[T, M]) OnSelect(fn func(T) M, onError func(string) M) *List[T, M] {
	if fn == nil || onError == nil {
		panic("widgets: OnSelect requires both a select and an error constructor")
	}
	l.onSelect = fn
	l.onError = onError
	return l
}

// WithRows gives each item a component that gets first refusal on keys
// while its item is selected.
func (l *List[T, M]) WithRows(fn func(T) runtime.Component[M]) *List[T, M] {
	l.row = fn
	return l
}

// SetStyles sets the list colors.
func (l *List[T, M]) SetStyles(item, selected, border, title backend.Style) {
	l.style = item
	l.selectedStyle = selected
	l.borderStyle = border
	l.titleStyle = title
}

// Label returns the list title.
func (l *List[T, M]) Label() string { return l.label }

// SetLabel changes the list title.
func (l *List[T, M]) SetLabel(label string) { l.label = label }

// Items returns the list contents.
func (l *List[T, M]) Items() []T { return l.items }

// Len returns the number of items.
func (l *List[T, M]) Len() int { return len(l.items) }

// SetItems replaces the contents, clamping the selection to the new last
// index. An empty list has no selection.
func (l *List[T, M]) SetItems(items []T) {
	l.items = items
	switch {
	case len(items) == 0:
		l.selected = -1
	case l.selected >= len(items):
		l.selected = len(items) - 1
	}
}

// SelectedIndex returns the selected index, or -1.
func (l *List[T, M]) SelectedIndex() int { return l.selected }

// Selected returns the selected item.
func (l *List[T, M]) Selected() (T, bool) {
	if l.selected < 0 || l.selected >= len(l.items) {
		var zero T
		return zero, false
	}
	return l.items[l.selected], true
}

// Select sets the selection. Out-of-range values clear it.
func (l *List[T, M]) Select(i int) {
	if i < 0 || i >= len(l.items) {
		l.selected = -1
		return
	}
	l.selected = i
}

// Offset returns the first visible line, as of the last render.
func (l *List[T, M]) Offset() int { return l.offset }

// HandleKey implements runtime.Component.
func (l *List[T, M]) HandleKey(ev terminal.KeyEvent) runtime.Outcome[M] {
	if l.row != nil {
		if item, ok := l.Selected(); ok {
			if out, stop := runtime.Offer(l.row(item), ev); stop {
				return out
			}
		}
	}

	switch ev.Key {
	case terminal.KeyUp:
		l.moveUp()
		return runtime.Consumed[M]()
	case terminal.KeyDown:
		l.moveDown()
		return runtime.Consumed[M]()
	case terminal.KeyEnter:
		if l.onSelect == nil {
			return runtime.Propagate[M]()
		}
		item, ok := l.Selected()
		if !ok {
			return runtime.Emit(l.onError(ErrNoSelection))
		}
		return runtime.Emit(l.onSelect(item))
	}
	return runtime.Propagate[M]()
}

func (l *List[T, M]) moveUp() {
	switch {
	case len(l.items) == 0:
		l.selected = -1
	case l.selected < 0:
		l.selected = 0
	case l.selected > 0:
		l.selected--
	}
}

func (l *List[T, M]) moveDown() {
	switch {
	case len(l.items) == 0:
		l.selected = -1
	case l.selected < 0:
		l.selected = 0
	default:
		l.selected = min(l.selected+1, len(l.items)-1)
	}
}

type listLine struct {
	item int
	text string
}

// Render implements runtime.Component. It adjusts the scroll offset so the
// selected row is visible.
func (l *List[T, M]) Render(f *runtime.Frame, area runtime.Rect) {
	if area.Empty() {
		return
	}
	inner := f.DrawBlock(area, l.label, l.borderStyle, l.titleStyle)
	if inner.Empty() {
		return
	}

	indent := runewidth.StringWidth(SelectionIndicator)
	textWidth := max(inner.Width-indent, 1)

	var lines []listLine
	first, last := -1, -1
	for i, item := range l.items {
		if i == l.selected {
			first = len(lines)
		}
		for _, text := range wrap(l.display(item), textWidth) {
			lines = append(lines, listLine{item: i, text: text})
		}
		if i == l.selected {
			last = len(lines) - 1
		}
	}

	l.scrollTo(first, last, len(lines), inner.Height)

	for row := 0; row < inner.Height; row++ {
		idx := l.offset + row
		if idx >= len(lines) {
			break
		}
		line := lines[idx]
		y := inner.Y + row
		style := l.style
		prefix := ""
		if line.item == l.selected {
			style = l.selectedStyle
			prefix = SelectionIndicator
			f.Fill(runtime.NewRect(inner.X, y, inner.Width, 1), ' ', style)
		}
		f.SetString(inner.X, y, prefix, min(indent, inner.Width), style)
		f.SetString(inner.X+indent, y, line.text, inner.Width-indent, style)
	}
}

func (l *List[T, M]) scrollTo(first, last, total, height int) {
	if first >= 0 {
		if first < l.offset {
			l.offset = first
		}
		if last >= l.offset+height {
			l.offset = last - height + 1
		}
		if first < l.offset {
			// Row taller than the view: show its start.
			l.offset = first
		}
	}
	l.offset = min(l.offset, max(total-height, 0))
	l.offset = max(l.offset, 0)
}

var _ runtime.Component[string] = (*List[int, string])(nil)
