// Package watch reports changes below a directory tree, coalescing bursts
// of filesystem events into a single notification.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gerunddev/docd/internal/logger"
)

// Watcher calls back once per burst of changes below its root
type Watcher struct {
	root     string
	skip     string
	debounce time.Duration
	log      *logger.Logger
}

// New creates a watcher for root. Events under skip (usually the output
// directory) are ignored.
func New(root, skip string, debounce time.Duration) *Watcher {
	return &Watcher{
		root:     root,
		skip:     skip,
		debounce: debounce,
		log:      logger.Discard(),
	}
}

// SetLogger sets the logger for the watcher
func (w *Watcher) SetLogger(l *logger.Logger) {
	w.log = l
}

// Run blocks until ctx is done, calling onChange after every burst of
// events once debounce has passed without further events
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := w.addTree(watcher, w.root); err != nil {
		return err
	}

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if w.ignored(event.Name) {
				continue
			}

			// new directories are not watched recursively by fsnotify
			if event.Has(fsnotify.Create) {
				if err := w.addTree(watcher, event.Name); err != nil {
					w.log.Debug("not watching", "path", event.Name, "error", err)
				}
			}

			w.log.Debug("change detected", "path", event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watch error", "error", err)

		case <-timer.C:
			onChange()
		}
	}
}

// addTree watches dir and every directory below it. Paths that are not
// directories are ignored.
func (w *Watcher) addTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && (strings.HasPrefix(d.Name(), ".") || w.ignored(path)) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) ignored(path string) bool {
	if w.skip == "" {
		return false
	}
	return path == w.skip || strings.HasPrefix(path, w.skip+string(filepath.Separator))
}
