package sniper

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/odvcencio/sniper/pkg/errors"
	"github.com/odvcencio/sniper/pkg/filewatch"
	"github.com/odvcencio/sniper/pkg/ui/runtime"
	"github.com/odvcencio/sniper/pkg/ui/terminal"
)

func TestNew_ListsDirectory(t *testing.T) {
	m := newModel(t, newTree())

	assert.Equal(t, "/proj", m.Dir())
	assert.Equal(t, []string{".", "..", "alpha.txt", "docs/", "secret/", "zeta.txt"}, names(m.Listing().Items()))
	assert.Equal(t, -1, m.Listing().SelectedIndex())
	assert.Equal(t, "/proj", m.Listing().Label())
	assert.Equal(t, helpLine, m.Status())
	assert.True(t, m.Running())
	assert.Equal(t, ModeBrowse, m.Mode())
}

func TestNew_FailsOnUnreadableDir(t *testing.T) {
	_, err := New("/missing", Options{FS: newTree()})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeFilesystem))
}

func TestEnterSubdirectoryClampsSelection(t *testing.T) {
	m := newModel(t, newTree())

	pressN(t, m, terminal.KeyDown, 4)
	selected, ok := m.Listing().Selected()
	require.True(t, ok)
	assert.Equal(t, "docs", selected.Name)
	assert.Equal(t, 3, m.Listing().SelectedIndex())

	press(t, m, terminal.Press(terminal.KeyEnter))
	assert.Equal(t, "/proj/docs", m.Dir())
	assert.Equal(t, []string{".", "..", "guide.md"}, names(m.Listing().Items()))
	assert.Equal(t, 2, m.Listing().SelectedIndex(), "selection clamps to the shorter listing")

	press(t, m, terminal.Press(terminal.KeyDown))
	assert.Equal(t, 2, m.Listing().SelectedIndex())
}

func TestOpenUnreadableDirectoryReportsError(t *testing.T) {
	m := newModel(t, newTree())
	pressN(t, m, terminal.KeyDown, 5)

	// OpenPath, ListDir, then the Failed message for the error.
	steps := press(t, m, terminal.Press(terminal.KeyEnter))
	assert.Equal(t, 3, steps)
	assert.Equal(t, "/proj", m.Dir())
	assert.True(t, m.Failed())
	assert.Equal(t, "error: permission denied: /proj/secret", m.Status())
	assert.Equal(t, 4, m.Listing().SelectedIndex())

	press(t, m, terminal.Press(terminal.KeyEscape))
	assert.False(t, m.Failed())
	assert.Equal(t, helpLine, m.Status())
}

func TestSuccessfulOpenClearsError(t *testing.T) {
	m := newModel(t, newTree())
	pressN(t, m, terminal.KeyDown, 5)
	press(t, m, terminal.Press(terminal.KeyEnter))
	require.True(t, m.Failed())

	press(t, m, terminal.Press(terminal.KeyDown))
	press(t, m, terminal.Press(terminal.KeyEnter))
	assert.False(t, m.Failed(), "showing a file replaces the error")
	assert.Equal(t, helpLine, m.Status())

	press(t, m, terminal.Press(terminal.KeyUp))
	press(t, m, terminal.Press(terminal.KeyEnter))
	require.True(t, m.Failed())

	press(t, m, terminal.Press(terminal.KeyBackspace))
	assert.Equal(t, "/", m.Dir())
	assert.False(t, m.Failed(), "listing a directory replaces the error")
	assert.Equal(t, helpLine, m.Status())
}

func TestEnterWithoutSelection(t *testing.T) {
	m := newModel(t, newTree())
	press(t, m, terminal.Press(terminal.KeyEnter))
	assert.Equal(t, "error: no item selected", m.Status())
}

func TestEnterOnFileOpensPreview(t *testing.T) {
	m := newModel(t, newTree())
	pressN(t, m, terminal.KeyDown, 3)
	press(t, m, terminal.Press(terminal.KeyEnter))

	text, open := m.Preview()
	assert.True(t, open)
	assert.Equal(t, "alpha\n", text)
	assert.Equal(t, "/proj", m.Dir())
	assert.Len(t, m.FocusChain(), 2)

	press(t, m, terminal.Press(terminal.KeyEscape))
	_, open = m.Preview()
	assert.False(t, open)
	assert.Len(t, m.FocusChain(), 1)
}

func TestPreviewOfBinaryFile(t *testing.T) {
	m := newModel(t, newTree())
	_, err := runtime.Settle[Msg](m, OpenPath{Path: "/other/blob.bin"}, 10)
	require.NoError(t, err)

	text, open := m.Preview()
	assert.True(t, open)
	assert.Equal(t, "(binary, 2 bytes shown)", text)
}

func TestBackspaceOpensParent(t *testing.T) {
	m := newModel(t, newTree())
	_, err := runtime.Settle[Msg](m, ListDir{Dir: "docs"}, 10)
	require.NoError(t, err)
	require.Equal(t, "/proj/docs", m.Dir())

	press(t, m, terminal.Press(terminal.KeyBackspace))
	assert.Equal(t, "/proj", m.Dir())
	press(t, m, terminal.Press(terminal.KeyLeft))
	assert.Equal(t, "/", m.Dir())
	press(t, m, terminal.Press(terminal.KeyLeft))
	assert.Equal(t, "/", m.Dir(), "the root is its own parent")
}

func TestRowOpensDirectoryWithO(t *testing.T) {
	m := newModel(t, newTree())

	pressN(t, m, terminal.KeyDown, 3)
	assert.Zero(t, press(t, m, terminal.PressRune('o')), "'o' on a file falls through to nothing")
	assert.Equal(t, "/proj", m.Dir())

	press(t, m, terminal.Press(terminal.KeyDown))
	press(t, m, terminal.PressRune('o'))
	assert.Equal(t, "/proj/docs", m.Dir())
}

func TestSearchFiltersAndOpens(t *testing.T) {
	m := newModel(t, newTree())

	press(t, m, terminal.PressRune('/'))
	require.Equal(t, ModeSearch, m.Mode())

	typeText(t, m, "ZE")
	assert.Equal(t, "ZE", m.Query())
	assert.Equal(t, []string{"zeta.txt"}, names(m.Listing().Items()))

	press(t, m, terminal.Press(terminal.KeyDown))
	press(t, m, terminal.Press(terminal.KeyEnter))

	assert.Equal(t, ModeBrowse, m.Mode())
	assert.Empty(t, m.Query())
	assert.Len(t, m.Listing().Items(), 6)
	selected, ok := m.Listing().Selected()
	require.True(t, ok)
	assert.Equal(t, "zeta.txt", selected.Name, "the opened entry stays selected in the full listing")
	text, open := m.Preview()
	assert.True(t, open)
	assert.Equal(t, "z", text)
}

func TestFilterKeepsSelectedEntry(t *testing.T) {
	m := newModel(t, newTree())
	pressN(t, m, terminal.KeyDown, 6)
	selected, ok := m.Listing().Selected()
	require.True(t, ok)
	require.Equal(t, "zeta.txt", selected.Name)

	press(t, m, terminal.PressRune('/'))
	typeText(t, m, "t")
	assert.Equal(t, []string{"alpha.txt", "secret", "zeta.txt"}, names(m.Listing().Items()))
	selected, ok = m.Listing().Selected()
	require.True(t, ok)
	assert.Equal(t, "zeta.txt", selected.Name)

	typeText(t, m, "x")
	assert.Equal(t, []string{"alpha.txt", "zeta.txt"}, names(m.Listing().Items()))
	assert.Equal(t, 1, m.Listing().SelectedIndex())

	press(t, m, terminal.Press(terminal.KeyBackspace))
	press(t, m, terminal.Press(terminal.KeyBackspace))
	assert.Len(t, m.Listing().Items(), 6)
	assert.Equal(t, 5, m.Listing().SelectedIndex())

	typeText(t, m, "alp")
	assert.Equal(t, []string{"alpha.txt"}, names(m.Listing().Items()))
	assert.Equal(t, -1, m.Listing().SelectedIndex(), "a filtered-out entry is no longer selected")
	press(t, m, terminal.Press(terminal.KeyDown))
	assert.Equal(t, 0, m.Listing().SelectedIndex())
}

func TestSearchKeepsDotEntriesOnlyWithoutQuery(t *testing.T) {
	m := newModel(t, newTree())
	press(t, m, terminal.PressRune('/'))
	typeText(t, m, ".")
	assert.Equal(t, []string{"alpha.txt", "zeta.txt"}, names(m.Listing().Items()))

	press(t, m, terminal.Press(terminal.KeyBackspace))
	assert.Len(t, m.Listing().Items(), 6)
	assert.Equal(t, ModeSearch, m.Mode(), "backspace edits the query instead of going up")
}

func TestSearchSwallowsQButNotCtrlC(t *testing.T) {
	m := newModel(t, newTree())
	press(t, m, terminal.PressRune('/'))

	press(t, m, terminal.PressRune('q'))
	assert.True(t, m.Running(), "the search bar takes 'q' as text")
	assert.Equal(t, "q", m.Query())

	press(t, m, terminal.Press(terminal.KeyCtrlC))
	assert.False(t, m.Running(), "ctrl+c falls through to the quit handler")
}

func TestSearchEscRestoresListing(t *testing.T) {
	m := newModel(t, newTree())
	press(t, m, terminal.PressRune('/'))
	typeText(t, m, "alp")
	require.Len(t, m.Listing().Items(), 1)

	press(t, m, terminal.Press(terminal.KeyEscape))
	assert.Equal(t, ModeBrowse, m.Mode())
	assert.Len(t, m.Listing().Items(), 6)

	press(t, m, terminal.PressRune('q'))
	assert.False(t, m.Running())
}

func TestHandleKey_IgnoresUnboundKeys(t *testing.T) {
	m := newModel(t, newTree())
	_, ok := m.HandleKey(terminal.Press(terminal.KeyF1))
	assert.False(t, ok)

	ctrlC := terminal.PressRune('c')
	ctrlC.Mods = terminal.ModCtrl
	msg, ok := m.HandleKey(ctrlC)
	assert.True(t, ok)
	assert.Equal(t, Quit{}, msg)
}

func TestRefreshFollowsWatcher(t *testing.T) {
	tree := newTree()
	w := &fakeWatcher{}
	m, err := New("/proj", Options{FS: tree, Watcher: w})
	require.NoError(t, err)
	assert.Equal(t, []string{"/proj"}, w.watched)

	_, ok := m.Tick()
	assert.False(t, ok)

	pressN(t, m, terminal.KeyDown, 3)
	tree.dirs["/proj"] = append([]FileEntry{file("/proj", "aardvark.txt")}, tree.dirs["/proj"]...)
	tree.files["/proj/aardvark.txt"] = ""
	w.pending = []filewatch.FileChange{{Path: "/proj/aardvark.txt", Type: filewatch.ChangeCreated}}

	msg, ok := m.Tick()
	require.True(t, ok)
	_, err = runtime.Settle[Msg](m, msg, 10)
	require.NoError(t, err)
	assert.Equal(t, "aardvark.txt", m.Listing().Items()[2].Name)
	assert.Equal(t, 2, m.Listing().SelectedIndex())

	press(t, m, terminal.PressRune('r'))
	assert.Equal(t, []string{"/proj"}, w.watched, "refreshing the same directory keeps the watch")

	_, err = runtime.Settle[Msg](m, OpenPath{Path: "docs"}, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"/proj", "/proj/docs"}, w.watched)
}

func TestFailureUsesUserMessage(t *testing.T) {
	m := newModel(t, newTree())
	assert.Equal(t, Failed{Err: "boom"}, m.Failure(errors.New("boom")))

	wrapped := apperrors.Wrap(errors.New("eacces"), apperrors.ErrCodeFilesystem, "stat").
		WithUserMessage("permission denied: /x")
	assert.Equal(t, Failed{Err: "permission denied: /x"}, m.Failure(wrapped))
}
