package sniper

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/odvcencio/sniper/pkg/filewatch"
	"github.com/odvcencio/sniper/pkg/ui/runtime"
	"github.com/odvcencio/sniper/pkg/ui/terminal"
)

// fakeFS is an in-memory tree. Directory children are listed as given, so
// tests keep them sorted.
type fakeFS struct {
	dirs   map[string][]FileEntry
	files  map[string]string
	denied map[string]bool
}

func (f *fakeFS) ReadDir(dir string) ([]FileEntry, error) {
	if f.denied[dir] {
		return nil, fsError(&fs.PathError{Op: "open", Path: dir, Err: fs.ErrPermission}, "read directory", dir)
	}
	children, ok := f.dirs[dir]
	if !ok {
		return nil, fsError(&fs.PathError{Op: "open", Path: dir, Err: fs.ErrNotExist}, "read directory", dir)
	}
	out := []FileEntry{
		{Name: ".", Path: dir, IsDir: true},
		{Name: "..", Path: filepath.Dir(dir), IsDir: true},
	}
	return append(out, children...), nil
}

func (f *fakeFS) Stat(path string) (FileEntry, error) {
	if _, ok := f.dirs[path]; ok || f.denied[path] {
		return FileEntry{Name: filepath.Base(path), Path: path, IsDir: true}, nil
	}
	if body, ok := f.files[path]; ok {
		return FileEntry{Name: filepath.Base(path), Path: path, Size: int64(len(body))}, nil
	}
	return FileEntry{}, fsError(&fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}, "stat", path)
}

func (f *fakeFS) ReadFile(path string, limit int64) ([]byte, error) {
	body, ok := f.files[path]
	if !ok {
		return nil, fsError(&fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}, "open file", path)
	}
	if int64(len(body)) > limit {
		body = body[:limit]
	}
	return []byte(body), nil
}

func file(dir, name string) FileEntry {
	return FileEntry{Name: name, Path: filepath.Join(dir, name)}
}

func dir(parent, name string) FileEntry {
	return FileEntry{Name: name, Path: filepath.Join(parent, name), IsDir: true}
}

// newTree builds:
//
//	/proj: alpha.txt docs/ secret/ (unreadable) zeta.txt
//	/proj/docs: guide.md
//	/other: blob.bin
func newTree() *fakeFS {
	return &fakeFS{
		dirs: map[string][]FileEntry{
			"/":          {dir("/", "other"), dir("/", "proj")},
			"/proj":      {file("/proj", "alpha.txt"), dir("/proj", "docs"), dir("/proj", "secret"), file("/proj", "zeta.txt")},
			"/proj/docs": {file("/proj/docs", "guide.md")},
			"/other":     {file("/other", "blob.bin")},
		},
		files: map[string]string{
			"/proj/alpha.txt":     "alpha\n",
			"/proj/zeta.txt":      "z",
			"/proj/docs/guide.md": "# Guide\nhello",
			"/other/blob.bin":     "\x00\x01",
		},
		denied: map[string]bool{"/proj/secret": true},
	}
}

type fakeWatcher struct {
	watched []string
	pending []filewatch.FileChange
}

func (w *fakeWatcher) Watch(dir string) error {
	w.watched = append(w.watched, dir)
	return nil
}

func (w *fakeWatcher) Drain() []filewatch.FileChange {
	out := w.pending
	w.pending = nil
	return out
}

func newModel(t *testing.T, fsys Filesystem) *Model {
	t.Helper()
	m, err := New("/proj", Options{FS: fsys})
	require.NoError(t, err)
	return m
}

// press runs one key through the focus chain and the update chain, the way
// the runtime does for a single event. It returns the number of updates.
func press(t *testing.T, m *Model, ev terminal.KeyEvent) int {
	t.Helper()
	msg, ok := runtime.Dispatch(m.FocusChain(), ev, m.HandleKey)
	if !ok {
		return 0
	}
	steps, err := runtime.Settle[Msg](m, msg, 100)
	require.NoError(t, err)
	return steps
}

func pressN(t *testing.T, m *Model, key terminal.Key, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		press(t, m, terminal.Press(key))
	}
}

func typeText(t *testing.T, m *Model, s string) {
	t.Helper()
	for _, r := range s {
		press(t, m, terminal.PressRune(r))
	}
}

func names(entries []FileEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Display()
	}
	return out
}
