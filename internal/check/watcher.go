package check

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for a burst of events to settle.
const DefaultDebounce = 100 * time.Millisecond

// WatchEvent describes a change to an entry that would be checked.
type WatchEvent struct {
	Entry Entry  // the top-level entry the change belongs to
	Path  string // the path that actually changed
}

// eventWatcher is the subset of *fsnotify.Watcher used by Watcher.
type eventWatcher interface {
	Add(name string) error
	Close() error
	Events() chan fsnotify.Event
	Errors() chan error
}

type fsnotifyWatcher struct {
	w *fsnotify.Watcher
}

func newFsnotifyWatcher() (eventWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &fsnotifyWatcher{w: w}, nil
}

func (f *fsnotifyWatcher) Add(name string) error       { return f.w.Add(name) }
func (f *fsnotifyWatcher) Close() error                { return f.w.Close() }
func (f *fsnotifyWatcher) Events() chan fsnotify.Event { return f.w.Events }
func (f *fsnotifyWatcher) Errors() chan error          { return f.w.Errors }

// Watcher monitors a directory and reports changes to entries accepted by include.
// Included directories are watched recursively; ignored ones are not watched at all.
type Watcher struct {
	dir      string
	include  func(Entry) bool
	logger   *slog.Logger
	debounce time.Duration
	Ready    chan struct{}

	newWatcher func() (eventWatcher, error)
}

// NewWatcher creates a new Watcher for dir.
func NewWatcher(dir string, include func(Entry) bool, logger *slog.Logger) *Watcher {
	return &Watcher{
		dir:        filepath.Clean(dir),
		include:    include,
		logger:     logger.With("component", "watcher"),
		debounce:   DefaultDebounce,
		Ready:      make(chan struct{}),
		newWatcher: newFsnotifyWatcher,
	}
}

// Watch blocks until ctx is cancelled, calling callback once for each settled burst of
// relevant changes. Callbacks run on their own goroutine and may overlap.
func (w *Watcher) Watch(ctx context.Context, callback func(WatchEvent)) error {
	ew, err := w.newWatcher()
	if err != nil {
		return err
	}
	defer ew.Close()

	if err := w.addRecursive(ew, w.dir); err != nil {
		return err
	}

	w.logger.Info("Watching for changes", "dir", w.dir)
	if w.Ready != nil {
		close(w.Ready)
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-ew.Errors():
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", "error", err)
		case event, ok := <-ew.Events():
			if !ok {
				return nil
			}
			if ev := w.handleEvent(ew, event); ev != nil {
				if timer != nil {
					timer.Stop()
				}
				pending := *ev
				timer = time.AfterFunc(w.debounce, func() {
					callback(pending)
				})
			}
		}
	}
}

// handleEvent processes a single fsnotify event. New directories are added to the
// watcher; relevant file changes are returned as a WatchEvent.
func (w *Watcher) handleEvent(ew eventWatcher, event fsnotify.Event) *WatchEvent {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return nil
	}

	if event.Has(fsnotify.Create) {
		info, err := os.Stat(event.Name)
		if err == nil && info.IsDir() {
			if err := w.addRecursive(ew, event.Name); err != nil {
				w.logger.Error("Failed to watch new directory", "path", event.Name, "error", err)
			}
			return nil
		}
	}

	return w.mapToWatchEvent(event.Name)
}

// addRecursive adds root and every directory below it that belongs to an included entry.
func (w *Watcher) addRecursive(ew eventWatcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.dir {
			if strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if filepath.Dir(path) == w.dir && !w.include(Entry{Name: d.Name()}) {
				return filepath.SkipDir
			}
		}
		return ew.Add(path)
	})
}

// mapToWatchEvent maps a changed path to the top-level entry it belongs to.
// It returns nil if that entry is not included, or if a file below an included
// directory changed that is not a GDScript file.
func (w *Watcher) mapToWatchEvent(path string) *WatchEvent {
	rel, err := filepath.Rel(w.dir, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return nil
	}

	parts := strings.Split(rel, string(filepath.Separator))
	top := parts[0]

	info, err := os.Stat(filepath.Join(w.dir, top))
	entry := Entry{Name: top, IsFile: err == nil && info.Mode().IsRegular()}
	if !w.include(entry) {
		return nil
	}

	if len(parts) > 1 && !strings.HasSuffix(path, GDScriptSuffix) {
		return nil
	}

	return &WatchEvent{Entry: entry, Path: path}
}
