package store

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reports writes to the backend's file made by someone else (another
// codepad process). The parent directory is watched because atomic writes
// replace the file rather than modify it. onChange runs on the watcher
// goroutine; hosts should hand it off to their event loop.
func Watch(ctx context.Context, f *FileBackend, onChange func(), logger func(string, ...any)) error {
	if logger == nil {
		logger = func(string, ...any) {}
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch store: %w", err)
	}
	dir := filepath.Dir(f.Path())
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	name := filepath.Base(f.Path())
	f.snapshot()

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != name {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				if f.changedExternally() {
					onChange()
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger("[store] watcher error: %v", err)
			}
		}
	}()
	return nil
}
