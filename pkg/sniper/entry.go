package sniper

import (
	"github.com/odvcencio/sniper/pkg/ui/runtime"
	"github.com/odvcencio/sniper/pkg/ui/terminal"
)

// FileEntry is one row of a directory listing.
type FileEntry struct {
	Name  string
	Path  string
	IsDir bool
	Size  int64
}

// Display is the text shown in the listing. Directories end in a slash,
// except for the "." and ".." entries.
func (e FileEntry) Display() string {
	if e.IsDir && e.Name != "." && e.Name != ".." {
		return e.Name + "/"
	}
	return e.Name
}

// entryRow is the per-row component of the listing. It only claims 'o' on a
// directory, opening it without going through the list's Enter handling.
type entryRow struct {
	entry FileEntry
}

func (r entryRow) HandleKey(ev terminal.KeyEvent) runtime.Outcome[Msg] {
	if r.entry.IsDir && ev.IsRune('o') {
		return runtime.Emit[Msg](OpenPath{Path: r.entry.Path})
	}
	return runtime.Propagate[Msg]()
}

// Rows are never drawn on their own; the list draws their text.
func (entryRow) Render(*runtime.Frame, runtime.Rect) {}

func newEntryRow(e FileEntry) runtime.Component[Msg] {
	return entryRow{entry: e}
}
