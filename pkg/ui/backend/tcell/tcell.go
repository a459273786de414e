// Package tcell provides the real-terminal backend using tcell.
package tcell

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/odvcencio/sniper/pkg/ui/backend"
	"github.com/odvcencio/sniper/pkg/ui/terminal"
)

var (
	// ErrNotEntered is returned when input is requested outside a session.
	ErrNotEntered = errors.New("tcell backend: not entered")
	// ErrNotReady is returned by Read when Poll has not reported an event.
	ErrNotReady = errors.New("tcell backend: read without a ready poll")
	// ErrPumpPanic is returned by Poll after the event pump panicked.
	ErrPumpPanic = errors.New("tcell backend: event pump panicked")
)

const eventBuffer = 64

// Backend implements backend.Backend using tcell.
//
// tcell only offers a blocking PollEvent, so Enter starts a pump goroutine
// that forwards screen events into a buffered channel. Poll waits on that
// channel with a timer. The goroutine exits when Leave finalizes the screen.
// A panic in the pump is reported by the next Poll so the caller's teardown
// still restores the terminal.
type Backend struct {
	screen tcell.Screen

	mu      sync.Mutex
	entered bool
	left    bool
	events  chan tcell.Event
	done    chan struct{}
	pump    sync.WaitGroup
	broken  chan struct{}
	pumpErr error

	pending terminal.Event
}

// New creates a new tcell backend on the process terminal.
func New() (*Backend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewWithScreen(screen), nil
}

// NewWithScreen creates a backend with an existing tcell screen (for testing).
func NewWithScreen(screen tcell.Screen) *Backend {
	return &Backend{
		screen: screen,
		events: make(chan tcell.Event, eventBuffer),
		done:   make(chan struct{}),
		broken: make(chan struct{}),
	}
}

// Screen exposes the underlying tcell screen.
func (b *Backend) Screen() tcell.Screen {
	return b.screen
}

// Enter initializes the screen (raw mode, alternate screen) and starts the
// event pump. Calling Enter on an entered backend is a no-op.
func (b *Backend) Enter() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.entered {
		return nil
	}
	if b.left {
		return errors.New("tcell backend: cannot re-enter after leave")
	}
	if err := b.screen.Init(); err != nil {
		return err
	}
	b.screen.HideCursor()
	b.entered = true

	b.pump.Add(1)
	go b.pumpEvents()
	return nil
}

// Leave restores the terminal and stops the event pump.
// It is safe to call more than once, including before Enter.
func (b *Backend) Leave() error {
	b.mu.Lock()
	if !b.entered {
		b.mu.Unlock()
		return nil
	}
	b.entered = false
	b.left = true
	close(b.done)
	b.mu.Unlock()

	// Fini makes the pump's PollEvent return nil.
	b.screen.Fini()
	b.pump.Wait()
	return nil
}

func (b *Backend) pumpEvents() {
	defer b.pump.Done()
	defer func() {
		if r := recover(); r != nil {
			b.mu.Lock()
			b.pumpErr = fmt.Errorf("%w: %v", ErrPumpPanic, r)
			b.mu.Unlock()
			close(b.broken)
		}
	}()
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case b.events <- ev:
		case <-b.done:
			return
		}
	}
}

// Poll waits up to timeout for an event the runtime understands.
// Events with no terminal equivalent are skipped without resetting the wait.
func (b *Backend) Poll(timeout time.Duration) (bool, error) {
	if b.pending != nil {
		return true, nil
	}
	b.mu.Lock()
	entered, pumpErr := b.entered, b.pumpErr
	b.mu.Unlock()
	if pumpErr != nil {
		return false, pumpErr
	}
	if !entered {
		return false, ErrNotEntered
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case ev := <-b.events:
			if converted := convertEvent(ev); converted != nil {
				b.pending = converted
				return true, nil
			}
		case <-timer.C:
			return false, nil
		case <-b.broken:
			b.mu.Lock()
			defer b.mu.Unlock()
			return false, b.pumpErr
		case <-b.done:
			return false, ErrNotEntered
		}
	}
}

// Read returns the event made ready by the last successful Poll.
func (b *Backend) Read() (terminal.Event, error) {
	if b.pending == nil {
		return nil, ErrNotReady
	}
	ev := b.pending
	b.pending = nil
	return ev, nil
}

// Size returns the terminal dimensions.
func (b *Backend) Size() (width, height int) {
	return b.screen.Size()
}

// SetContent sets a cell at position (x, y).
func (b *Backend) SetContent(x, y int, mainc rune, comb []rune, style backend.Style) {
	b.screen.SetContent(x, y, mainc, comb, convertStyle(style))
}

// Show synchronizes the buffer to the terminal.
func (b *Backend) Show() {
	b.screen.Show()
}

// Sync forces a full repaint on the next Show, used after a resize.
func (b *Backend) Sync() {
	b.screen.Sync()
}

// convertStyle converts backend.Style to tcell.Style.
func convertStyle(s backend.Style) tcell.Style {
	fg, bg, attrs := s.Decompose()
	return tcell.StyleDefault.
		Foreground(convertColor(fg)).
		Background(convertColor(bg)).
		Bold(attrs&backend.AttrBold != 0).
		Reverse(attrs&backend.AttrReverse != 0).
		Underline(attrs&backend.AttrUnderline != 0).
		Dim(attrs&backend.AttrDim != 0).
		Italic(attrs&backend.AttrItalic != 0)
}

func convertColor(c backend.Color) tcell.Color {
	if c == backend.ColorDefault {
		return tcell.ColorDefault
	}
	return tcell.PaletteColor(int(c))
}

// convertEvent converts a tcell event to terminal.Event.
// tcell reports key presses only, so every key event is KindPress.
func convertEvent(ev tcell.Event) terminal.Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		key := convertKey(e.Key())
		if key == terminal.KeyNone {
			return nil
		}
		out := terminal.KeyEvent{Key: key, Kind: terminal.KindPress}
		if key == terminal.KeyRune {
			out.Rune = e.Rune()
		}
		mods := e.Modifiers()
		if mods&tcell.ModShift != 0 {
			out.Mods |= terminal.ModShift
		}
		if mods&tcell.ModCtrl != 0 {
			out.Mods |= terminal.ModCtrl
		}
		if mods&tcell.ModAlt != 0 {
			out.Mods |= terminal.ModAlt
		}
		return out
	case *tcell.EventResize:
		w, h := e.Size()
		return terminal.ResizeEvent{Width: w, Height: h}
	default:
		return nil
	}
}

var keyMap = map[tcell.Key]terminal.Key{
	tcell.KeyRune:       terminal.KeyRune,
	tcell.KeyUp:         terminal.KeyUp,
	tcell.KeyDown:       terminal.KeyDown,
	tcell.KeyRight:      terminal.KeyRight,
	tcell.KeyLeft:       terminal.KeyLeft,
	tcell.KeyPgUp:       terminal.KeyPageUp,
	tcell.KeyPgDn:       terminal.KeyPageDown,
	tcell.KeyHome:       terminal.KeyHome,
	tcell.KeyEnd:        terminal.KeyEnd,
	tcell.KeyInsert:     terminal.KeyInsert,
	tcell.KeyDelete:     terminal.KeyDelete,
	tcell.KeyBackspace:  terminal.KeyBackspace,
	tcell.KeyBackspace2: terminal.KeyBackspace,
	tcell.KeyTab:        terminal.KeyTab,
	tcell.KeyEnter:      terminal.KeyEnter,
	tcell.KeyEscape:     terminal.KeyEscape,
	tcell.KeyCtrlC:      terminal.KeyCtrlC,
	tcell.KeyCtrlD:      terminal.KeyCtrlD,
	tcell.KeyCtrlL:      terminal.KeyCtrlL,
	tcell.KeyCtrlR:      terminal.KeyCtrlR,
	tcell.KeyCtrlZ:      terminal.KeyCtrlZ,
	tcell.KeyF1:         terminal.KeyF1,
	tcell.KeyF2:         terminal.KeyF2,
	tcell.KeyF3:         terminal.KeyF3,
	tcell.KeyF4:         terminal.KeyF4,
	tcell.KeyF5:         terminal.KeyF5,
	tcell.KeyF6:         terminal.KeyF6,
	tcell.KeyF7:         terminal.KeyF7,
	tcell.KeyF8:         terminal.KeyF8,
	tcell.KeyF9:         terminal.KeyF9,
	tcell.KeyF10:        terminal.KeyF10,
	tcell.KeyF11:        terminal.KeyF11,
	tcell.KeyF12:        terminal.KeyF12,
}

func convertKey(k tcell.Key) terminal.Key {
	if key, ok := keyMap[k]; ok {
		return key
	}
	return terminal.KeyNone
}

var _ backend.Backend = (*Backend)(nil)
