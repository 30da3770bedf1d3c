// Package watch reruns a build whenever files under a directory change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long events must settle before a rebuild.
const DefaultDebounce = 200 * time.Millisecond

// TempPrefix marks files the generator writes while it runs. Events on them
// never trigger a rebuild.
const TempPrefix = ".asset-catalog"

// Watcher watches Root recursively.
type Watcher struct {
	Root     string
	Debounce time.Duration
	Ignore   []string // Paths whose events are dropped, e.g. generated outputs.
	Log      *zap.Logger
}

// Run builds once, then again after every settled burst of changes until
// ctx is done. Build errors are logged, not returned, so a broken asset does
// not end the session.
func (w *Watcher) Run(ctx context.Context, build func(context.Context) error) error {
	log := w.Log
	if log == nil {
		log = zap.NewNop()
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	ignored := make(map[string]bool, len(w.Ignore))
	for _, p := range w.Ignore {
		if p == "" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			ignored[abs] = true
		}
	}

	// Event names follow the form of the added path; absolute names match
	// the ignore set.
	root, err := filepath.Abs(w.Root)
	if err != nil {
		return fmt.Errorf("resolve watch root: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()
	if err := addTree(fw, root); err != nil {
		return err
	}

	rebuild := func() {
		start := time.Now()
		if err := build(ctx); err != nil {
			log.Error("rebuild failed", zap.Error(err))
			return
		}
		log.Info("rebuilt", zap.Duration("took", time.Since(start)))
	}
	rebuild()

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ignored[ev.Name] || strings.HasPrefix(filepath.Base(ev.Name), TempPrefix) || ev.Op == fsnotify.Chmod {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				// New directories are watched too. Failures surface as missed
				// events only.
				_ = addTree(fw, ev.Name)
			}
			log.Debug("change", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
			timer.Reset(debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))

		case <-timer.C:
			rebuild()
		}
	}
}

// addTree watches root and every directory below it. A root that is a file
// is ignored.
func addTree(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), TempPrefix) {
			return filepath.SkipDir
		}
		if err := fw.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}
