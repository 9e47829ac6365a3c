// Package watch rebuilds the inventory whenever a report notebook changes.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/trinventory/internal/storage"
)

// RebuildFunc regenerates the inventory. Errors are logged and do not stop
// the watcher.
type RebuildFunc func() error

// Options configures Watch.
type Options struct {
	Root     string        // absolute report directory
	Output   string        // inventory path relative to Root; events on it are ignored
	Debounce time.Duration // quiet period before a rebuild
}

// Watch watches the report root and every report directory below it until
// ctx is cancelled. Changes to index.ipynb files, and new or removed report
// directories, trigger a debounced call to rebuild.
func Watch(ctx context.Context, opts Options, logger *slog.Logger, rebuild RebuildFunc) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dirs := &reportDirs{root: opts.Root, w: w, dirs: make(map[string]struct{})}
	if err := dirs.addAll(); err != nil {
		return err
	}

	output := filepath.Join(opts.Root, opts.Output)
	logger.Info("watcher: started",
		slog.String("root", opts.Root),
		slog.Duration("debounce", opts.Debounce))

	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(opts.Debounce)
			timerCh = timer.C
		} else {
			timer.Reset(opts.Debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			if err := rebuild(); err != nil {
				logger.Error("watcher: rebuild failed", slog.String("error", err.Error()))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Name == output {
				continue
			}
			if dirs.relevant(ev, logger) {
				logger.Debug("watcher: change", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// reportDirs tracks the watched report directories so removals, which can
// no longer be stat'ed, are recognised too.
type reportDirs struct {
	root string
	w    *fsnotify.Watcher
	dirs map[string]struct{}
}

// relevant reports whether ev can change the inventory. Newly created report
// directories are added to the watch list as a side effect.
func (r *reportDirs) relevant(ev fsnotify.Event, logger *slog.Logger) bool {
	dir, name := filepath.Split(ev.Name)
	dir = filepath.Clean(dir)

	// Direct children of the root: report directories appearing or vanishing.
	// Three-character files never hold a notebook.
	if dir == r.root {
		if !storage.IsReportDir(name) {
			return false
		}
		switch {
		case ev.Op&fsnotify.Create != 0:
			info, err := os.Stat(ev.Name)
			if err != nil || !info.IsDir() {
				return false
			}
			if err := r.add(ev.Name); err != nil {
				logger.Warn("watcher: add new dir failed",
					slog.String("path", ev.Name),
					slog.String("error", err.Error()))
			}
			return true
		case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
			if _, ok := r.dirs[ev.Name]; !ok {
				return false
			}
			delete(r.dirs, ev.Name)
			return true
		}
		return false
	}

	// Files inside a report directory: only the notebook itself matters.
	return filepath.Dir(dir) == r.root && name == storage.NotebookName &&
		ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

func (r *reportDirs) add(path string) error {
	if err := r.w.Add(path); err != nil {
		return err
	}
	r.dirs[path] = struct{}{}
	return nil
}

// addAll adds the root and each three-character subdirectory to the watcher.
func (r *reportDirs) addAll() error {
	if err := r.w.Add(r.root); err != nil {
		return err
	}
	entries, err := os.ReadDir(r.root)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !storage.IsReportDir(e.Name()) {
			continue
		}
		path := filepath.Join(r.root, e.Name())
		if info, err := os.Stat(path); err != nil || !info.IsDir() {
			continue
		}
		if err := r.add(path); err != nil {
			return err
		}
	}
	return nil
}
