// Package filewatch reports changes to the directory being browsed.
package filewatch

import (
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ChangeType describes the kind of file change observed.
type ChangeType string

const (
	ChangeCreated  ChangeType = "created"
	ChangeModified ChangeType = "modified"
	ChangeDeleted  ChangeType = "deleted"
	ChangeRenamed  ChangeType = "renamed"
)

const defaultMaxHistory = 100

// DefaultIgnore lists editor scratch files that never warrant a refresh.
var DefaultIgnore = []string{"*.swp", "*.swx", "*~", ".#*", "4913"}

// FileChange records one observed change.
type FileChange struct {
	Path string
	Type ChangeType
}

// DirWatcher watches a single directory at a time.
//
// It never blocks its caller: Drain collects whatever fsnotify has queued
// since the last call, so the owner can poll it from its own loop.
type DirWatcher struct {
	watcher *fsnotify.Watcher
	log     *zap.Logger
	ignore  []string

	mu            sync.Mutex
	dir           string
	recentChanges []FileChange
	maxHistory    int
}

// New creates a watcher that is not yet watching anything.
func New(log *zap.Logger) (*DirWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &DirWatcher{
		watcher:    w,
		log:        log.Named("filewatch"),
		ignore:     DefaultIgnore,
		maxHistory: defaultMaxHistory,
	}, nil
}

// Watch switches the watcher to dir. Watching the current dir again is a
// no-op.
func (dw *DirWatcher) Watch(dir string) error {
	dir = filepath.Clean(dir)
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dir == dw.dir {
		return nil
	}
	if dw.dir != "" {
		if err := dw.watcher.Remove(dw.dir); err != nil {
			dw.log.Debug("remove watch", zap.String("dir", dw.dir), zap.Error(err))
		}
	}
	dw.dir = ""
	if err := dw.watcher.Add(dir); err != nil {
		return err
	}
	dw.dir = dir
	dw.log.Debug("watching", zap.String("dir", dir))
	return nil
}

// Dir returns the watched directory, or "" when none.
func (dw *DirWatcher) Dir() string {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	return dw.dir
}

// Drain returns the changes queued since the last call without waiting.
func (dw *DirWatcher) Drain() []FileChange {
	var changes []FileChange
	for {
		select {
		case ev, ok := <-dw.watcher.Events:
			if !ok {
				return dw.remember(changes)
			}
			if change, ok := dw.convert(ev); ok {
				changes = append(changes, change)
			}
		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return dw.remember(changes)
			}
			dw.log.Warn("watch error", zap.Error(err))
		default:
			return dw.remember(changes)
		}
	}
}

func (dw *DirWatcher) convert(ev fsnotify.Event) (FileChange, bool) {
	for _, pattern := range dw.ignore {
		if matchesPattern(pattern, ev.Name) {
			return FileChange{}, false
		}
	}
	var t ChangeType
	switch {
	case ev.Op&fsnotify.Create != 0:
		t = ChangeCreated
	case ev.Op&fsnotify.Write != 0:
		t = ChangeModified
	case ev.Op&fsnotify.Remove != 0:
		t = ChangeDeleted
	case ev.Op&fsnotify.Rename != 0:
		t = ChangeRenamed
	default:
		return FileChange{}, false
	}
	return FileChange{Path: ev.Name, Type: t}, true
}

func (dw *DirWatcher) remember(changes []FileChange) []FileChange {
	if len(changes) == 0 {
		return nil
	}
	dw.mu.Lock()
	defer dw.mu.Unlock()
	dw.recentChanges = append(dw.recentChanges, changes...)
	if len(dw.recentChanges) > dw.maxHistory {
		dw.recentChanges = dw.recentChanges[len(dw.recentChanges)-dw.maxHistory:]
	}
	return changes
}

// RecentChanges returns the most recent changes (newest first).
func (dw *DirWatcher) RecentChanges(limit int) []FileChange {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if limit <= 0 || limit > len(dw.recentChanges) {
		limit = len(dw.recentChanges)
	}
	out := make([]FileChange, 0, limit)
	for i := len(dw.recentChanges) - 1; i >= len(dw.recentChanges)-limit; i-- {
		out = append(out, dw.recentChanges[i])
	}
	return out
}

// Close stops watching and releases the fsnotify goroutine.
func (dw *DirWatcher) Close() error {
	return dw.watcher.Close()
}

func matchesPattern(pattern, filePath string) bool {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return false
	}
	if pattern == "*" {
		return true
	}
	cleanPath := filepath.ToSlash(strings.TrimSpace(filePath))
	cleanPattern := filepath.ToSlash(pattern)
	if ok, _ := path.Match(cleanPattern, cleanPath); ok {
		return true
	}
	if !strings.Contains(cleanPattern, "/") {
		base := path.Base(cleanPath)
		if ok, _ := path.Match(cleanPattern, base); ok {
			return true
		}
	}
	return false
}
