package runtime

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/sniper/pkg/ui/backend"
)

// Cell represents a single character cell in the frame.
// A zero Rune marks the trailing half of a wide character.
type Cell struct {
	Rune  rune
	Style backend.Style
}

var blank = Cell{Rune: ' ', Style: backend.DefaultStyle()}

// Frame is the drawing surface handed to the render step.
//
// It persists across iterations: each render clears and redraws it, and only
// cells whose content changed since the last flush are sent to the backend.
type Frame struct {
	cells  []Cell
	width  int
	height int

	dirty      []bool
	dirtyCount int

	// front mirrors what the target last showed.
	front []Cell
}

// NewFrame creates a frame with the given dimensions.
func NewFrame(w, h int) *Frame {
	f := &Frame{}
	f.Resize(w, h)
	return f
}

// Size returns the frame dimensions.
func (f *Frame) Size() (w, h int) {
	return f.width, f.height
}

// Area returns the whole frame as a rect.
func (f *Frame) Area() Rect {
	return Rect{Width: f.width, Height: f.height}
}

// Resize changes the frame dimensions. Content is discarded and every cell is
// marked dirty so the next flush repaints the whole terminal.
func (f *Frame) Resize(w, h int) {
	w, h = max(w, 0), max(h, 0)
	if w == f.width && h == f.height && f.cells != nil {
		return
	}
	f.width, f.height = w, h
	f.cells = make([]Cell, w*h)
	for i := range f.cells {
		f.cells[i] = blank
	}
	f.dirty = make([]bool, w*h)
	f.front = make([]Cell, w*h)
	f.MarkAllDirty()
}

// Clear fills the frame with spaces and default style.
func (f *Frame) Clear() {
	f.Fill(f.Area(), ' ', backend.DefaultStyle())
}

// Get returns the cell at position (x, y).
// Returns a blank cell if out of bounds.
func (f *Frame) Get(x, y int) Cell {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return blank
	}
	return f.cells[y*f.width+x]
}

// Set writes a rune with style at position (x, y).
// No-op if out of bounds. Marks the cell as dirty if changed.
func (f *Frame) Set(x, y int, r rune, s backend.Style) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return
	}
	idx := y*f.width + x
	c := Cell{Rune: r, Style: s}
	if f.cells[idx] != c {
		f.cells[idx] = c
		f.markDirty(idx)
	}
}

// SetString writes s starting at (x, y), clipped to maxWidth columns and to
// the frame. Wide characters take two columns and are never split.
// It returns the number of columns written.
func (f *Frame) SetString(x, y int, s string, maxWidth int, style backend.Style) int {
	if y < 0 || y >= f.height || maxWidth <= 0 {
		return 0
	}
	col := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > maxWidth || x+col+w > f.width {
			break
		}
		f.Set(x+col, y, r, style)
		if w == 2 {
			f.Set(x+col+1, y, 0, style)
		}
		col += w
	}
	return col
}

// Fill fills a rectangular region with a rune and style.
func (f *Frame) Fill(r Rect, ch rune, s backend.Style) {
	clipped := r.Intersection(f.Area())
	for y := clipped.Y; y < clipped.Y+clipped.Height; y++ {
		for x := clipped.X; x < clipped.X+clipped.Width; x++ {
			f.Set(x, y, ch, s)
		}
	}
}

// DrawBox draws a border around a rect using box-drawing characters.
func (f *Frame) DrawBox(r Rect, s backend.Style) {
	if r.Width < 2 || r.Height < 2 {
		return
	}

	f.Set(r.X, r.Y, '┌', s)
	f.Set(r.X+r.Width-1, r.Y, '┐', s)
	f.Set(r.X, r.Y+r.Height-1, '└', s)
	f.Set(r.X+r.Width-1, r.Y+r.Height-1, '┘', s)

	for x := r.X + 1; x < r.X+r.Width-1; x++ {
		f.Set(x, r.Y, '─', s)
		f.Set(x, r.Y+r.Height-1, '─', s)
	}
	for y := r.Y + 1; y < r.Y+r.Height-1; y++ {
		f.Set(r.X, y, '│', s)
		f.Set(r.X+r.Width-1, y, '│', s)
	}
}

// DrawBlock draws a bordered box with title on its top edge and returns the
// inner area.
func (f *Frame) DrawBlock(r Rect, title string, border, titleStyle backend.Style) Rect {
	f.DrawBox(r, border)
	if title != "" && r.Width > 2 {
		f.SetString(r.X+1, r.Y, title, r.Width-2, titleStyle)
	}
	return r.Inset(1, 1, 1, 1)
}

func (f *Frame) markDirty(idx int) {
	if !f.dirty[idx] {
		f.dirty[idx] = true
		f.dirtyCount++
	}
}

// MarkAllDirty marks the entire frame as dirty and forgets what the target
// shows, so the next flush repaints every cell.
func (f *Frame) MarkAllDirty() {
	for i := range f.dirty {
		f.dirty[i] = true
		f.front[i] = Cell{Rune: -1}
	}
	f.dirtyCount = len(f.dirty)
}

// DirtyCount returns the number of cells changed since the last flush.
func (f *Frame) DirtyCount() int {
	return f.dirtyCount
}

// Flush sends cells that differ from the last flush to the target and shows
// them. It returns the number of cells sent.
func (f *Frame) Flush(target backend.RenderTarget) int {
	sent := 0
	if f.dirtyCount > 0 {
		for idx, d := range f.dirty {
			if !d {
				continue
			}
			c := f.cells[idx]
			if c == f.front[idx] {
				continue
			}
			f.front[idx] = c
			if c.Rune == 0 {
				continue
			}
			target.SetContent(idx%f.width, idx/f.width, c.Rune, nil, c.Style)
			sent++
		}
		clear(f.dirty)
		f.dirtyCount = 0
	}
	target.Show()
	return sent
}
