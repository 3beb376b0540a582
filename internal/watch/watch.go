// Package watch monitors an assembly archive for external changes and
// triggers a callback, debounced against rapid successive writes. Used by
// the CLI watch command to revalidate shared archives as they change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/radpipe/radpipe/internal/logfields"
)

// ArchiveWatcher monitors one archive file for writes.
type ArchiveWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	log      *slog.Logger
	debounce time.Duration
	onChange func(path string)
}

// New creates a watcher for path; onChange fires after the file settles.
func New(path string, log *slog.Logger, onChange func(path string)) (*ArchiveWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("resolve archive path: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}

	return &ArchiveWatcher{
		path:     absPath,
		watcher:  w,
		log:      log,
		debounce: 2 * time.Second,
		onChange: onChange,
	}, nil
}

// Start begins monitoring until ctx is done. Watching the containing
// directory is more reliable than watching the file itself, which editors
// and atomic writers replace wholesale.
func (w *ArchiveWatcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch directory %s: %w", dir, err)
	}
	w.log.Info("watching archive", logfields.Path(w.path))

	go w.loop(ctx)
	return nil
}

// Close stops the watcher.
func (w *ArchiveWatcher) Close() error {
	return w.watcher.Close()
}

func (w *ArchiveWatcher) loop(ctx context.Context) {
	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Name != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			w.log.Debug("archive changed", logfields.Path(w.path))
			if w.onChange != nil {
				w.onChange(w.path)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", logfields.Error(err))
		}
	}
}
