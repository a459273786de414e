package replay

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/odvcencio/sniper/pkg/errors"
	"github.com/odvcencio/sniper/pkg/ui/backend"
	"github.com/odvcencio/sniper/pkg/ui/terminal"
)

func sampleEvents() []terminal.KeyEvent {
	ctrlC := terminal.Press(terminal.KeyCtrlC)
	ctrlC.Mods = terminal.ModCtrl
	release := terminal.Press(terminal.KeyDown)
	release.Kind = terminal.KindRelease
	return []terminal.KeyEvent{
		terminal.Press(terminal.KeyDown),
		release,
		terminal.PressRune('/'),
		terminal.PressRune('é'),
		terminal.Press(terminal.KeyEnter),
		ctrlC,
	}
}

func sampleLog() *Log {
	id, started := NewSession()
	l := NewLog(id, started)
	l.Events = sampleEvents()
	return l
}

func TestLog_RoundTrip(t *testing.T) {
	l := sampleLog()

	data, err := l.Marshal()
	require.NoError(t, err)

	got, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, FormatVersion, got.Version)
	assert.Equal(t, l.Session, got.Session)
	assert.True(t, l.Started.Equal(got.Started))
	assert.Equal(t, l.Events, got.Events)
}

func TestLog_WritesNames(t *testing.T) {
	data, err := sampleLog().Marshal()
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "key: down")
	assert.Contains(t, text, "kind: release")
	assert.Contains(t, text, "key: ctrl+c")
}

func TestDecode_RejectsCorruptLogs(t *testing.T) {
	id := ulid.Make().String()
	header := "version: 1\nsession: " + id + "\nstarted: 2026-01-02T03:04:05Z\n"

	cases := map[string]string{
		"empty":         "",
		"not yaml":      "{{{",
		"unknown field": header + "extra: 1\nevents: []\n",
		"unknown key":   header + "events:\n  - key: hyperspace\n    kind: press\n",
		"unknown kind":  header + "events:\n  - key: up\n    kind: squeeze\n",
		"event field":   header + "events:\n  - key: up\n    kind: press\n    when: now\n",
		"missing key":   header + "events:\n  - kind: press\n",
		"wrong version": strings.Replace(header, "version: 1", "version: 2", 1) + "events: []\n",
		"no version":    strings.Replace(header, "version: 1\n", "", 1) + "events: []\n",
		"bad session":   "version: 1\nsession: nope\nstarted: 2026-01-02T03:04:05Z\nevents: []\n",
		"no start":      "version: 1\nsession: " + id + "\nevents: []\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(doc))
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeEventLogCorrupt), "got %v", err)
		})
	}
}

func TestRecorder_FlushWritesOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sessions")
	rec := NewRecorder(dir).WithWorkdir("/proj")
	for _, ev := range sampleEvents() {
		rec.Record(ev)
	}
	assert.False(t, rec.Written())
	require.NoError(t, rec.Flush())
	assert.True(t, rec.Written())

	// Events after the flush are not written again.
	rec.Record(terminal.PressRune('x'))
	require.NoError(t, rec.Flush())

	assert.Equal(t, SessionPath(dir, rec.Session()), rec.Path())
	got, err := Load(rec.Path())
	require.NoError(t, err)
	assert.Equal(t, sampleEvents(), got.Events)
	assert.Equal(t, "/proj", got.Workdir)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestRecorder_FlushErrorIsSticky(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	rec := NewRecorder(filepath.Join(blocker, "sessions"))
	err := rec.Flush()
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeEventLogWrite))
	assert.Equal(t, err, rec.Flush())
	assert.False(t, rec.Written())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeEventLogRead))
}

func TestPlayer_FeedsEventsThenEnds(t *testing.T) {
	p := NewPlayer(sampleLog())

	var got []terminal.KeyEvent
	for {
		ready, err := p.Poll(time.Hour)
		if err != nil {
			assert.ErrorIs(t, err, backend.ErrEndOfInput)
			break
		}
		require.True(t, ready, "player never times out")
		ev, err := p.Read()
		require.NoError(t, err)
		got = append(got, ev.(terminal.KeyEvent))
	}
	assert.Equal(t, sampleEvents(), got)
	assert.Zero(t, p.Remaining())
}

func TestPlayer_ReadRequiresPoll(t *testing.T) {
	p := NewPlayer(sampleLog())
	_, err := p.Read()
	assert.ErrorIs(t, err, ErrNotPolled)

	ready, err := p.Poll(0)
	require.NoError(t, err)
	require.True(t, ready)
	ready, err = p.Poll(0)
	require.NoError(t, err)
	assert.True(t, ready, "repeated Poll keeps the same event ready")
	assert.Equal(t, len(sampleEvents()), p.Remaining())
}

func TestNewSession_UsesProcessStart(t *testing.T) {
	id1, started := NewSession()
	id2, _ := NewSession()

	assert.NotEqual(t, id1, id2)
	parsed, err := ulid.ParseStrict(id1)
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(started), parsed.Time())
}

func TestListSessions_NewestFirst(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	older := ulid.MustNew(ulid.Timestamp(now.Add(-time.Hour)), ulid.DefaultEntropy()).String()
	newer := ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String()

	for _, id := range []string{older, newer} {
		l := NewLog(id, now)
		data, err := l.Marshal()
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(SessionPath(dir, id), data, 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.yaml"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, newer+"x.yaml"), 0o755))

	sessions, err := ListSessions(dir)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, newer, sessions[0].ID)
	assert.Equal(t, older, sessions[1].ID)
	assert.Positive(t, sessions[0].Size)
	assert.WithinDuration(t, now.Add(-time.Hour), sessions[1].Started, time.Second)

	latest, err := Latest(dir)
	require.NoError(t, err)
	assert.Equal(t, newer, latest.ID)
}

func TestListSessions_MissingDir(t *testing.T) {
	sessions, err := ListSessions(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, sessions)

	_, err = Latest(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, ErrNoSessions)
}
