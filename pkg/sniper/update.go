package sniper

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	apperrors "github.com/odvcencio/sniper/pkg/errors"
	"github.com/odvcencio/sniper/pkg/ui/backend"
)

// previewLimit caps how much of a file is read for the preview pane.
const previewLimit = 8 << 10

// Update implements runtime.Updater.
func (m *Model) Update(msg Msg) (Msg, bool, error) {
	switch msg := msg.(type) {
	case Quit:
		m.running = false

	case OpenPath:
		path := m.resolve(msg.Path)
		if m.mode == ModeSearch {
			m.endSearch()
		}
		entry, err := m.fs.Stat(path)
		if err != nil {
			return nil, false, err
		}
		if entry.IsDir {
			return ListDir{Dir: path}, true, nil
		}
		return ShowFile{Path: path}, true, nil

	case ListDir:
		if err := m.listDir(m.resolve(msg.Dir)); err != nil {
			return nil, false, err
		}

	case ShowFile:
		if err := m.showFile(m.resolve(msg.Path)); err != nil {
			return nil, false, err
		}

	case Refresh:
		return ListDir{Dir: m.dir}, true, nil

	case StartSearch:
		m.mode = ModeSearch
		m.search.Clear()
		m.query = ""

	case FilterChanged:
		m.query = msg.Query
		m.showEntries(m.filtered())

	case EndSearch:
		m.endSearch()

	case Failed:
		m.failed = true
		m.status.SetText("error: " + msg.Err)
		m.status.WithStyle(backend.DefaultStyle().Foreground(backend.ColorRed))

	case ClearStatus:
		m.previewOpen = false
		m.clearFailure()
	}
	return nil, false, nil
}

// Failure implements runtime.Updater.
func (m *Model) Failure(err error) Msg {
	return Failed{Err: apperrors.UserMessage(err)}
}

func (m *Model) resolve(path string) string {
	if !filepath.IsAbs(path) {
		path = filepath.Join(m.dir, path)
	}
	return filepath.Clean(path)
}

// listDir replaces the listing. The selection is kept where possible and
// clamped when the new listing is shorter.
func (m *Model) listDir(dir string) error {
	entries, err := m.fs.ReadDir(dir)
	if err != nil {
		return err
	}
	if dir != m.dir {
		m.previewOpen = false
		if m.watcher != nil {
			if err := m.watcher.Watch(dir); err != nil {
				m.log.Warn("watch directory", zap.String("dir", dir), zap.Error(err))
			}
		}
	}
	m.dir = dir
	m.entries = entries
	m.listing.SetLabel(dir)
	m.listing.SetItems(m.filtered())
	m.clearFailure()
	return nil
}

func (m *Model) showFile(path string) error {
	data, err := m.fs.ReadFile(path, previewLimit)
	if err != nil {
		return err
	}
	text := string(data)
	if bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data) {
		text = fmt.Sprintf("(binary, %d bytes shown)", len(data))
	}
	m.preview.SetTitle(filepath.Base(path))
	m.preview.SetText(text)
	m.previewOpen = true
	m.clearFailure()
	return nil
}

func (m *Model) clearFailure() {
	m.failed = false
	m.status.SetText(helpLine)
	m.status.WithStyle(backend.DefaultStyle().Dim(true))
}

func (m *Model) endSearch() {
	m.mode = ModeBrowse
	m.search.Clear()
	m.query = ""
	m.showEntries(m.entries)
}

// showEntries swaps the visible entries while the same entry stays selected.
// The selection is cleared when that entry is not among them.
func (m *Model) showEntries(entries []FileEntry) {
	current, ok := m.listing.Selected()
	m.listing.SetItems(entries)
	if !ok {
		return
	}
	m.listing.Select(-1)
	for i, e := range entries {
		if e.Path == current.Path {
			m.listing.Select(i)
			return
		}
	}
}

// filtered returns the entries whose names contain the query, ignoring case.
// The "." and ".." entries only show without a query.
func (m *Model) filtered() []FileEntry {
	if m.query == "" {
		return m.entries
	}
	q := strings.ToLower(m.query)
	var out []FileEntry
	for _, e := range m.entries {
		if e.Name == "." || e.Name == ".." {
			continue
		}
		if strings.Contains(strings.ToLower(e.Name), q) {
			out = append(out, e)
		}
	}
	return out
}
