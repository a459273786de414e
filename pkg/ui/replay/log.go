// Package replay records the key events of a session and plays them back.
//
// A session is persisted as one YAML document per file, named after the
// session id, so a directory of logs lists in chronological order.
package replay

import (
	"bytes"
	"errors"
	"io"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"

	apperrors "github.com/odvcencio/sniper/pkg/errors"
	"github.com/odvcencio/sniper/pkg/ui/terminal"
)

// FormatVersion is the only log version this package reads and writes.
const FormatVersion = 1

// FileExt is the extension of persisted logs.
const FileExt = ".yaml"

// Log is the persisted form of a session: a header and every key event the
// runtime read, in order.
type Log struct {
	Version int       `yaml:"version"`
	Session string    `yaml:"session"`
	Started time.Time `yaml:"started"`
	// Workdir is where the recorded program started, so a replay can start
	// from the same place.
	Workdir string              `yaml:"workdir,omitempty"`
	Events  []terminal.KeyEvent `yaml:"events"`
}

// NewLog creates an empty log for a session.
func NewLog(session string, started time.Time) *Log {
	return &Log{
		Version: FormatVersion,
		Session: session,
		Started: started.UTC(),
	}
}

// Encode writes l as YAML.
func (l *Log) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(l); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeEventLogWrite, "encode event log").
			WithContext("session", l.Session)
	}
	if err := enc.Close(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeEventLogWrite, "encode event log").
			WithContext("session", l.Session)
	}
	return nil
}

// Decode reads a log strictly: unknown fields, unknown key or kind names, a
// missing header and any version other than FormatVersion are all errors.
func Decode(r io.Reader) (*Log, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var l Log
	if err := dec.Decode(&l); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperrors.New(apperrors.ErrCodeEventLogCorrupt, "event log is empty")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeEventLogCorrupt, "decode event log")
	}
	if err := l.validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

func (l *Log) validate() error {
	if l.Version != FormatVersion {
		return apperrors.New(apperrors.ErrCodeEventLogCorrupt, "unsupported event log version").
			WithContext("version", l.Version).
			WithContext("want", FormatVersion)
	}
	if _, err := ulid.ParseStrict(l.Session); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeEventLogCorrupt, "invalid session id").
			WithContext("session", l.Session)
	}
	if l.Started.IsZero() {
		return apperrors.New(apperrors.ErrCodeEventLogCorrupt, "missing session start time").
			WithContext("session", l.Session)
	}
	for i, ev := range l.Events {
		if ev.Key == terminal.KeyNone {
			return apperrors.New(apperrors.ErrCodeEventLogCorrupt, "event without key").
				WithContext("index", i)
		}
	}
	return nil
}

// Marshal returns the encoded log.
func (l *Log) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := l.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Load reads and decodes the log at path.
func Load(path string) (*Log, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeEventLogRead, "open event log").
			WithContext("path", path)
	}
	defer f.Close()

	l, err := Decode(f)
	if err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr.WithContext("path", path)
		}
		return nil, err
	}
	return l, nil
}
