// Package backend defines the narrow interfaces the runtime consumes from the
// terminal: a driver bracketing the session, an input source, and a render
// target. The tcell package implements all three for real terminals; the sim
// package implements them over a scripted key queue for tests.
package backend

import (
	"errors"
	"time"

	"github.com/odvcencio/sniper/pkg/ui/terminal"
)

// ErrEndOfInput is returned by Poll from a finite input source (a replayed
// event log) once every event was delivered. The runtime ends the session
// cleanly when it sees it.
var ErrEndOfInput = errors.New("end of input")

// Driver enters and leaves terminal mode (raw mode, alternate screen).
// Both calls must be safe to repeat: Leave runs once on the normal path and
// may run again from the failure path.
type Driver interface {
	Enter() error
	Leave() error
}

// InputSource yields raw input events.
// Read is only valid after Poll has reported an event ready.
type InputSource interface {
	// Poll waits up to timeout for an event and reports whether one is ready.
	Poll(timeout time.Duration) (bool, error)

	// Read returns the ready event.
	Read() (terminal.Event, error)
}

// RenderTarget receives cells from the runtime's frame and paints them.
type RenderTarget interface {
	// Size returns the current terminal dimensions.
	Size() (width, height int)

	// SetContent sets a cell at position (x, y) with the given rune and style.
	// The comb parameter contains combining characters (can be nil).
	SetContent(x, y int, mainc rune, comb []rune, style Style)

	// Show synchronizes the internal buffer to the terminal.
	Show()
}

// Backend is a complete terminal: driver, input and render target.
type Backend interface {
	Driver
	InputSource
	RenderTarget
}
