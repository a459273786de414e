package replay

import (
	"errors"
	"time"

	"github.com/odvcencio/sniper/pkg/ui/backend"
	"github.com/odvcencio/sniper/pkg/ui/terminal"
)

// ErrNotPolled is returned by Read when no preceding Poll reported an event.
var ErrNotPolled = errors.New("replay: read without a ready poll")

// Player is an input source that feeds a recorded session back to the
// runtime. It never waits: Poll is ready while events remain and reports
// backend.ErrEndOfInput once they are spent.
type Player struct {
	events []terminal.KeyEvent
	pos    int
	ready  bool
}

// NewPlayer plays back l's events.
func NewPlayer(l *Log) *Player {
	return &Player{events: l.Events}
}

// Poll implements backend.InputSource. The timeout is ignored.
func (p *Player) Poll(time.Duration) (bool, error) {
	if p.ready {
		return true, nil
	}
	if p.pos >= len(p.events) {
		return false, backend.ErrEndOfInput
	}
	p.ready = true
	return true, nil
}

// Read implements backend.InputSource.
func (p *Player) Read() (terminal.Event, error) {
	if !p.ready {
		return nil, ErrNotPolled
	}
	p.ready = false
	ev := p.events[p.pos]
	p.pos++
	return ev, nil
}

// Remaining returns the number of events not yet read.
func (p *Player) Remaining() int {
	return len(p.events) - p.pos
}

var _ backend.InputSource = (*Player)(nil)
