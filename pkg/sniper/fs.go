package sniper

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "github.com/odvcencio/sniper/pkg/errors"
)

// Filesystem is what the browser reads from.
type Filesystem interface {
	// ReadDir lists dir. The first two entries are "." and "..".
	ReadDir(dir string) ([]FileEntry, error)
	Stat(path string) (FileEntry, error)
	// ReadFile returns at most limit bytes from the start of path.
	ReadFile(path string, limit int64) ([]byte, error)
}

// OSFilesystem reads the local disk.
type OSFilesystem struct {
	ShowHidden bool
}

// ReadDir implements Filesystem. Entries after "." and ".." are sorted by
// name; dot files are left out unless ShowHidden is set.
func (o OSFilesystem) ReadDir(dir string) ([]FileEntry, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, fsError(err, "read directory", dir)
	}
	entries := []FileEntry{
		{Name: ".", Path: dir, IsDir: true},
		{Name: "..", Path: filepath.Dir(dir), IsDir: true},
	}
	for _, de := range des {
		name := de.Name()
		if !o.ShowHidden && strings.HasPrefix(name, ".") {
			continue
		}
		e := FileEntry{Name: name, Path: filepath.Join(dir, name), IsDir: de.IsDir()}
		if info, err := de.Info(); err == nil {
			e.Size = info.Size()
			// Follow symlinks so linked directories open like directories.
			if info.Mode()&fs.ModeSymlink != 0 {
				if target, err := os.Stat(e.Path); err == nil {
					e.IsDir = target.IsDir()
				}
			}
		}
		entries = append(entries, e)
	}
	sortEntries(entries[2:])
	return entries, nil
}

// Stat implements Filesystem.
func (OSFilesystem) Stat(path string) (FileEntry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileEntry{}, fsError(err, "stat", path)
	}
	return FileEntry{
		Name:  filepath.Base(path),
		Path:  path,
		IsDir: info.IsDir(),
		Size:  info.Size(),
	}, nil
}

// ReadFile implements Filesystem.
func (OSFilesystem) ReadFile(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fsError(err, "open file", path)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, limit))
	if err != nil {
		return nil, fsError(err, "read file", path)
	}
	return data, nil
}

func sortEntries(entries []FileEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
}

// fsError wraps a filesystem failure with a short status-line message such
// as "permission denied: /root".
func fsError(err error, op, path string) error {
	reason := err.Error()
	var pe *fs.PathError
	if errors.As(err, &pe) {
		reason = pe.Err.Error()
	}
	return apperrors.Wrap(err, apperrors.ErrCodeFilesystem, op).
		WithContext("path", path).
		WithUserMessage(reason + ": " + path)
}

var _ Filesystem = OSFilesystem{}
