package config

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the config at path whenever it changes and passes every
// successfully loaded version to fn. fn runs on the watcher goroutine; a
// caller that owns single-threaded state must hand the value over to its
// own goroutine. A file that fails to load is logged and skipped.
//
// The directory is watched rather than the file so that editors which save
// by renaming a temporary file are picked up. Call stop to end watching.
func Watch(path string, log *slog.Logger, fn func(*Config)) (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("config watcher add %s: %w", dir, err)
	}

	target := filepath.Clean(path)
	done := make(chan struct{})
	go func() {
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				cfg, err := Load(path)
				if err != nil {
					log.Warn("config reload failed", "path", path, "error", err)
					continue
				}
				log.Debug("config reloaded", "path", path)
				fn(cfg)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("config watcher", "error", err)
			case <-done:
				return
			}
		}
	}()

	return func() { close(done) }, nil
}
