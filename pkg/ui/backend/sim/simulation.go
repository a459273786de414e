// Package sim provides a simulation backend for testing.
//
// Rendering goes through tcell's simulation screen so captures reflect what a
// real terminal would show. Input comes from a script of events queued by the
// test instead of the screen, which keeps loop tests deterministic.
package sim

import (
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	tcellv2 "github.com/gdamore/tcell/v2"

	"github.com/odvcencio/sniper/pkg/ui/backend"
	"github.com/odvcencio/sniper/pkg/ui/backend/tcell"
	"github.com/odvcencio/sniper/pkg/ui/terminal"
)

// ErrScriptExhausted is returned by Poll once every scripted step was consumed.
// It wraps backend.ErrEndOfInput, so a runtime loop driven by a script ends
// when the script does.
var ErrScriptExhausted = fmt.Errorf("sim: input script exhausted: %w", backend.ErrEndOfInput)

type step struct {
	ev   terminal.Event
	idle bool
}

// Backend is a testable backend using tcell's simulation screen.
type Backend struct {
	*tcell.Backend
	screen tcellv2.SimulationScreen
	width  int
	height int

	mu      sync.Mutex
	script  []step
	pending terminal.Event
	enters  int
	leaves  int
	polls   []time.Duration
}

// New creates a new simulation backend with the given dimensions.
func New(width, height int) *Backend {
	screen := tcellv2.NewSimulationScreen("")
	screen.SetSize(width, height)

	return &Backend{
		Backend: tcell.NewWithScreen(screen),
		screen:  screen,
		width:   width,
		height:  height,
	}
}

// Enter initializes the simulation screen.
func (s *Backend) Enter() error {
	s.mu.Lock()
	s.enters++
	s.mu.Unlock()
	if err := s.Backend.Enter(); err != nil {
		return err
	}
	// Init resets the simulation screen to its default size.
	s.screen.SetSize(s.width, s.height)
	return nil
}

// Leave finalizes the simulation screen.
func (s *Backend) Leave() error {
	s.mu.Lock()
	s.leaves++
	s.mu.Unlock()
	return s.Backend.Leave()
}

// Calls reports how many times Enter and Leave ran.
func (s *Backend) Calls() (enters, leaves int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enters, s.leaves
}

// Polls returns the timeouts passed to Poll, in order.
func (s *Backend) Polls() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.polls...)
}

// Poll pops the next scripted step. An idle step reports a timeout.
func (s *Backend) Poll(timeout time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.polls = append(s.polls, timeout)
	if s.pending != nil {
		return true, nil
	}
	if len(s.script) == 0 {
		return false, ErrScriptExhausted
	}
	next := s.script[0]
	s.script = s.script[1:]
	if next.idle {
		return false, nil
	}
	if r, ok := next.ev.(terminal.ResizeEvent); ok {
		s.width, s.height = r.Width, r.Height
		s.screen.SetSize(r.Width, r.Height)
	}
	s.pending = next.ev
	return true, nil
}

// Read returns the event made ready by Poll.
func (s *Backend) Read() (terminal.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return nil, tcell.ErrNotReady
	}
	ev := s.pending
	s.pending = nil
	return ev, nil
}

// Remaining reports how many scripted steps have not been consumed.
func (s *Backend) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.script)
}

// Inject queues an arbitrary event.
func (s *Backend) Inject(ev terminal.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.script = append(s.script, step{ev: ev})
}

// InjectKey queues a key press.
func (s *Backend) InjectKey(key terminal.Key) {
	s.Inject(terminal.Press(key))
}

// InjectKeyRune queues a regular character keypress.
func (s *Backend) InjectKeyRune(r rune) {
	s.Inject(terminal.PressRune(r))
}

// InjectKeyString queues a string as a sequence of key presses.
func (s *Backend) InjectKeyString(str string) {
	for _, r := range str {
		s.InjectKeyRune(r)
	}
}

// InjectIdle queues a poll timeout.
func (s *Backend) InjectIdle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.script = append(s.script, step{idle: true})
}

// InjectResize queues a resize. The screen takes the new size when Poll
// reaches it.
func (s *Backend) InjectResize(width, height int) {
	s.Inject(terminal.ResizeEvent{Width: width, Height: height})
}

// Capture captures the current screen content as a string.
func (s *Backend) Capture() string {
	w, h := s.screen.Size()
	return s.CaptureRegion(0, 0, w, h)
}

// CaptureRegion captures a rectangular region of the screen.
func (s *Backend) CaptureRegion(x, y, w, h int) string {
	var lines []string
	for row := y; row < y+h; row++ {
		var line strings.Builder
		for col := x; col < x+w; col++ {
			mainc, comb, _, _ := s.screen.GetContent(col, row)
			if mainc == 0 {
				mainc = ' '
			}
			line.WriteRune(mainc)
			for _, c := range comb {
				line.WriteRune(c)
			}
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// CaptureCell returns the content and attributes of a single cell.
func (s *Backend) CaptureCell(x, y int) (mainc rune, reverse bool) {
	m, _, style, _ := s.screen.GetContent(x, y)
	_, _, attrs := style.Decompose()
	return m, attrs&tcellv2.AttrReverse != 0
}

// FindText searches for text on the screen and returns its position.
func (s *Backend) FindText(text string) (x, y int) {
	lines := strings.Split(s.Capture(), "\n")
	for row, line := range lines {
		if col := strings.Index(line, text); col >= 0 {
			return utf8.RuneCountInString(line[:col]), row
		}
	}
	return -1, -1
}

// ContainsText returns true if the text appears anywhere on screen.
func (s *Backend) ContainsText(text string) bool {
	x, y := s.FindText(text)
	return x >= 0 && y >= 0
}

var _ backend.Backend = (*Backend)(nil)
