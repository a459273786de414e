package replay

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	apperrors "github.com/odvcencio/sniper/pkg/errors"
)

// ErrNoSessions is returned by Latest when the directory holds no logs.
var ErrNoSessions = errors.New("replay: no recorded sessions")

var processStart = time.Now()

// NewSession mints a session id from the process start time. Ids sort in
// start order and do not collide between processes started in the same
// millisecond.
func NewSession() (id string, started time.Time) {
	return ulid.MustNew(ulid.Timestamp(processStart), ulid.DefaultEntropy()).String(), processStart
}

// SessionPath returns where session id is stored under dir.
func SessionPath(dir, id string) string {
	return filepath.Join(dir, id+FileExt)
}

// Session describes a persisted log without decoding it.
type Session struct {
	ID      string
	Path    string
	Started time.Time
	Size    int64
}

// ListSessions returns the logs in dir, newest first. Files whose names are
// not session ids are skipped. A missing directory holds no sessions.
func ListSessions(dir string) ([]Session, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeEventLogRead, "list event logs").
			WithContext("dir", dir)
	}

	var sessions []Session
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), FileExt) {
			continue
		}
		id := strings.TrimSuffix(e.Name(), FileExt)
		parsed, err := ulid.ParseStrict(id)
		if err != nil {
			continue
		}
		s := Session{
			ID:      parsed.String(),
			Path:    filepath.Join(dir, e.Name()),
			Started: ulid.Time(parsed.Time()),
		}
		if info, err := e.Info(); err == nil {
			s.Size = info.Size()
		}
		sessions = append(sessions, s)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].ID > sessions[j].ID
	})
	return sessions, nil
}

// Latest returns the newest session in dir.
func Latest(dir string) (Session, error) {
	sessions, err := ListSessions(dir)
	if err != nil {
		return Session{}, err
	}
	if len(sessions) == 0 {
		return Session{}, ErrNoSessions
	}
	return sessions[0], nil
}
