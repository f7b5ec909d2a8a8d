package server

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Resetter drops cached configuration.
type Resetter interface {
	Reset()
}

// Watch resets cache whenever the file at path is written, created, renamed
// or removed. The parent directory is watched so editors that replace the
// file are noticed. Watching stops when ctx is cancelled.
func Watch(ctx context.Context, path string, cache Resetter) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watching %s: %w", path, err)
	}

	target := filepath.Clean(path)
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				slog.Debug("stop watching plugin config", "path", target)
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
					slog.Info("plugin config changed, dropping cached mappings", "path", target, "op", event.Op.String())
					cache.Reset()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("watcher error", "error", err)
			}
		}
	}()

	return nil
}
