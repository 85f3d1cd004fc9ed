// Package watchfs contains the fsnotify-based push subscription for the
// drop folder.
package watchfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/example/warden/internal/ports/secondary"
)

// DirWatcher delivers newly created files in one directory, filtering
// the transient artifacts a drop folder accumulates.
type DirWatcher struct {
	dir      string
	reporter secondary.Reporter
}

// NewDirWatcher creates a watcher for the given directory.
func NewDirWatcher(dir string, reporter secondary.Reporter) *DirWatcher {
	return &DirWatcher{dir: dir, reporter: reporter}
}

// Watch blocks delivering created file paths until the context is
// cancelled. Events are handled one at a time in arrival order. Watch
// errors are reported and the subscription continues; only setup
// failures are returned.
func (w *DirWatcher) Watch(ctx context.Context, deliver func(path string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.reporter.Infof("push subscription active for: %s", w.dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if Ignored(event.Name) {
				continue
			}
			info, err := os.Stat(event.Name)
			if err != nil || info.IsDir() {
				// Directory-creation events and already-gone files are
				// not candidates.
				continue
			}
			deliver(event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.reporter.Warnf("watch error on %s: %v", w.dir, err)
		}
	}
}

// Ignored reports whether a path is a transient artifact: hidden files
// and temp-suffixed files are never candidates.
func Ignored(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") || strings.HasSuffix(base, ".tmp")
}
