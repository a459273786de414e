package sniper

import (
	"github.com/odvcencio/sniper/pkg/ui/runtime"
	"github.com/odvcencio/sniper/pkg/ui/terminal"
)

// View implements runtime.Application: the listing fills the screen, with
// the preview beside it when open, and the status or search line last.
func (m *Model) View(f *runtime.Frame) {
	body, bottom := f.Area().SplitBottom(1)
	if m.previewOpen && body.Width >= 20 {
		left, right := body.SplitLeft(body.Width / 2)
		m.listing.Render(f, left)
		m.preview.Render(f, right)
	} else {
		m.listing.Render(f, body)
	}
	if m.mode == ModeSearch {
		m.search.Render(f, bottom)
		return
	}
	m.status.Render(f, bottom)
}

// HandleKey implements runtime.Application. It sees only the keys no
// focused component claimed.
func (m *Model) HandleKey(ev terminal.KeyEvent) (Msg, bool) {
	switch {
	case ev.Key == terminal.KeyCtrlC, ev.Key == terminal.KeyRune && ev.Rune == 'c' && ev.Mods&terminal.ModCtrl != 0:
		return Quit{}, true
	case ev.IsRune('q'):
		return Quit{}, true
	case ev.IsRune('/'):
		return StartSearch{}, true
	case ev.IsRune('r'):
		return Refresh{}, true
	case ev.Key == terminal.KeyBackspace, ev.Key == terminal.KeyLeft:
		return OpenPath{Path: ".."}, true
	case ev.Key == terminal.KeyEscape:
		if m.mode == ModeSearch {
			return EndSearch{}, true
		}
		return ClearStatus{}, true
	}
	return nil, false
}
