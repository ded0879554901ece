package preview

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/folio/internal/logfields"
)

// setupFileWatcher creates a watcher covering root and all its subdirectories.
func setupFileWatcher(root string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	if err := addDirsRecursive(watcher, root); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	return watcher, nil
}

// setupRebuildDebouncer creates the reload channel and a trigger that fires
// it once events have been quiet for the debounce window.
func setupRebuildDebouncer(debounce time.Duration) (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounce, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}

	return rebuildReq, trigger
}

// startRebuildWorker processes reload requests one at a time. rebuildReq
// holds one slot, so requests sent during a reload collapse into a single
// follow-up reload.
func startRebuildWorker(ctx context.Context, reload func(context.Context), rebuildReq <-chan struct{}) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-rebuildReq:
				if !ok {
					return
				}
				reload(ctx)
			}
		}
	}()
}

// watchLoop forwards relevant filesystem events to trigger until ctx ends.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, trigger func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			handleFileEvent(watcher, ev, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// handleFileEvent processes a filesystem event and triggers a reload if needed.
func handleFileEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(watcher, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if err := w.Add(path); err != nil {
				slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for filesystem events that should not trigger reloads.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	// Hidden files, which also covers .DS_Store and emacs lock files (.#foo).
	if strings.HasPrefix(base, ".") {
		return true
	}

	// Editor temp/swap files
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}

	return base == "Thumbs.db"
}
