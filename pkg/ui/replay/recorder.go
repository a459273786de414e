package replay

import (
	"os"
	"path/filepath"
	"sync"

	apperrors "github.com/odvcencio/sniper/pkg/errors"
	"github.com/odvcencio/sniper/pkg/ui/terminal"
)

// Recorder accumulates key events in memory and writes them once, when the
// session ends.
type Recorder struct {
	dir string

	mu  sync.Mutex
	log *Log

	once    sync.Once
	err     error
	written bool
}

// NewRecorder records a new session into dir. The session id is minted from
// the process start time.
func NewRecorder(dir string) *Recorder {
	id, started := NewSession()
	return &Recorder{dir: dir, log: NewLog(id, started)}
}

// WithWorkdir stores dir in the log header.
func (r *Recorder) WithWorkdir(dir string) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log.Workdir = dir
	return r
}

// Session returns the id of the recorded session.
func (r *Recorder) Session() string {
	return r.log.Session
}

// Path returns the file the session is written to.
func (r *Recorder) Path() string {
	return SessionPath(r.dir, r.log.Session)
}

// Record appends ev to the session.
func (r *Recorder) Record(ev terminal.KeyEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log.Events = append(r.log.Events, ev)
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.log.Events)
}

// Flush writes the session to disk. Only the first call writes; later calls
// return the first call's result. The file appears atomically.
func (r *Recorder) Flush() error {
	r.once.Do(func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.err = r.write()
		r.written = r.err == nil
	})
	return r.err
}

// Written reports whether a Flush put the session on disk.
func (r *Recorder) Written() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.written
}

func (r *Recorder) write() error {
	data, err := r.log.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeEventLogWrite, "create event log directory").
			WithContext("dir", r.dir)
	}

	path := r.Path()
	tmp, err := os.CreateTemp(r.dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeEventLogWrite, "create event log").
			WithContext("path", path)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return apperrors.Wrap(err, apperrors.ErrCodeEventLogWrite, "write event log").
			WithContext("path", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return apperrors.Wrap(err, apperrors.ErrCodeEventLogWrite, "close event log").
			WithContext("path", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return apperrors.Wrap(err, apperrors.ErrCodeEventLogWrite, "publish event log").
			WithContext("path", path)
	}
	return nil
}
